package handler

import (
	"context"
	"net/http"

	"brandhub/internal/middleware"
	"brandhub/internal/models"
	"brandhub/internal/service"
	"brandhub/pkg/logger"

	"github.com/gin-gonic/gin"
)

type referrals interface {
	ReferralCode(ctx context.Context, userID uint) (string, error)
	Redeem(ctx context.Context, userID uint, code string) (*models.Influencer, error)
	Progress(ctx context.Context, influencerID uint) (*service.Progress, error)
}

type ReferralHandler struct {
	svc referrals
	log *logger.Logger
}

func NewReferralHandler(svc referrals, log *logger.Logger) *ReferralHandler {
	return &ReferralHandler{svc: svc, log: log}
}

// GetMyReferralCode returns the caller's referral code, creating one if it doesn't exist yet.
// GET /me/referral-code
func (h *ReferralHandler) GetMyReferralCode(c *gin.Context) {
	code, err := h.svc.ReferralCode(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.log, err, "could not get referral code")
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": code})
}

// Redeem links the caller to the influencer who owns the code.
// POST /me/referral/redeem
func (h *ReferralHandler) Redeem(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	inf, err := h.svc.Redeem(c.Request.Context(), middleware.GetUserID(c), req.Code)
	if err != nil {
		respondError(c, h.log, err, "could not redeem referral code")
		return
	}
	c.JSON(http.StatusOK, gin.H{"referred_by_influencer_id": inf.ReferredByInfluencerID})
}

// Progress returns completed-job count and badges.
// GET /influencers/:id/progress
func (h *ReferralHandler) Progress(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.Progress(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err, "could not load progress")
		return
	}
	c.JSON(http.StatusOK, p)
}
