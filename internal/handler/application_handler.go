package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"brandhub/internal/models"
	"brandhub/internal/service"
	"brandhub/pkg/logger"

	"github.com/gin-gonic/gin"
)

type settler interface {
	Approve(ctx context.Context, actor service.Actor, applicationID uint) (*service.SettlementResult, error)
}

type applicationLifecycle interface {
	Apply(ctx context.Context, actor service.Actor, in service.ApplyInput) (*models.Application, error)
	Submit(ctx context.Context, actor service.Actor, id uint, submission json.RawMessage) (*models.Application, error)
	Get(ctx context.Context, actor service.Actor, id uint) (*service.ApplicationDetail, error)
}

type ApplicationHandler struct {
	settlement settler
	apps       applicationLifecycle
	log        *logger.Logger
}

func NewApplicationHandler(settlement settler, apps applicationLifecycle, log *logger.Logger) *ApplicationHandler {
	return &ApplicationHandler{settlement: settlement, apps: apps, log: log}
}

// Approve settles the application and cascades commissions.
// POST /applications/approve/:id
func (h *ApplicationHandler) Approve(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	res, err := h.settlement.Approve(c.Request.Context(), actor(c), id)
	if err != nil {
		respondError(c, h.log, err, "could not approve application")
		return
	}
	warnings := res.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"application": res.Application,
		"payout":      res.Payout,
		"warnings":    warnings,
		"steps":       res.Steps,
	})
}

// Apply creates an application for an ad.
// POST /applications
func (h *ApplicationHandler) Apply(c *gin.Context) {
	var req struct {
		AdID    uint   `json:"ad_id" binding:"required"`
		State   string `json:"state"`
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	app, err := h.apps.Apply(c.Request.Context(), actor(c), service.ApplyInput{AdID: req.AdID, State: req.State, Message: req.Message})
	if err != nil {
		respondError(c, h.log, err, "could not apply")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"application": app})
}

// Submit stores the deliverable and marks the application delivered.
// POST /applications/:id/submit
func (h *ApplicationHandler) Submit(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Submission json.RawMessage `json:"submission" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	app, err := h.apps.Submit(c.Request.Context(), actor(c), id, req.Submission)
	if err != nil {
		respondError(c, h.log, err, "could not submit deliverable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": app})
}

// Get returns the application and its payout if settled.
// GET /applications/:id
func (h *ApplicationHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	d, err := h.apps.Get(c.Request.Context(), actor(c), id)
	if err != nil {
		respondError(c, h.log, err, "could not load application")
		return
	}
	c.JSON(http.StatusOK, d)
}
