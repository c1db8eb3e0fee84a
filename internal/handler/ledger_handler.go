package handler

import (
	"context"
	"net/http"

	"brandhub/internal/middleware"
	"brandhub/internal/repository"
	"brandhub/internal/service"
	"brandhub/pkg/logger"

	"github.com/gin-gonic/gin"
)

type ledger interface {
	ListReferralCommissions(ctx context.Context, q service.ListQuery) (*service.Page[service.ReferralCommissionView], error)
	ListMyReferralCommissions(ctx context.Context, userID uint, q service.ListQuery) (*service.Page[service.ReferralCommissionView], error)
	MarkReferralPaid(ctx context.Context, actor service.Actor, id uint) (*service.ReferralCommissionView, error)
	ListPrCommissions(ctx context.Context, q service.ListQuery) (*service.Page[service.PrCommissionView], error)
	ListMyPrCommissions(ctx context.Context, userID uint, q service.ListQuery) (*service.Page[service.PrCommissionView], error)
	MarkPrPaid(ctx context.Context, actor service.Actor, id uint) (*service.PrCommissionView, error)
	SettlementStats(ctx context.Context) (*repository.SettlementStats, error)
}

// LedgerHandler serves the commission ledgers to admins and to the earners themselves.
type LedgerHandler struct {
	svc ledger
	log *logger.Logger
}

func NewLedgerHandler(svc ledger, log *logger.Logger) *LedgerHandler {
	return &LedgerHandler{svc: svc, log: log}
}

// GET /referral-commissions
func (h *LedgerHandler) ListReferralCommissions(c *gin.Context) {
	q, ok := listQuery(c)
	if !ok {
		return
	}
	page, err := h.svc.ListReferralCommissions(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.log, err, "could not list referral commissions")
		return
	}
	c.JSON(http.StatusOK, page)
}

// PUT /referral-commissions/:id/paid
func (h *LedgerHandler) MarkReferralPaid(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	rc, err := h.svc.MarkReferralPaid(c.Request.Context(), actor(c), id)
	if err != nil {
		respondError(c, h.log, err, "could not mark referral commission paid")
		return
	}
	c.JSON(http.StatusOK, rc)
}

// GET /pr-commissions
func (h *LedgerHandler) ListPrCommissions(c *gin.Context) {
	q, ok := listQuery(c)
	if !ok {
		return
	}
	page, err := h.svc.ListPrCommissions(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.log, err, "could not list pr commissions")
		return
	}
	c.JSON(http.StatusOK, page)
}

// PUT /pr-commissions/:id/paid
func (h *LedgerHandler) MarkPrPaid(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	pc, err := h.svc.MarkPrPaid(c.Request.Context(), actor(c), id)
	if err != nil {
		respondError(c, h.log, err, "could not mark pr commission paid")
		return
	}
	c.JSON(http.StatusOK, pc)
}

// GET /me/referral-commissions
func (h *LedgerHandler) MyReferralCommissions(c *gin.Context) {
	q, ok := listQuery(c)
	if !ok {
		return
	}
	page, err := h.svc.ListMyReferralCommissions(c.Request.Context(), middleware.GetUserID(c), q)
	if err != nil {
		respondError(c, h.log, err, "could not list referral commissions")
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /me/pr-commissions
func (h *LedgerHandler) MyPrCommissions(c *gin.Context) {
	q, ok := listQuery(c)
	if !ok {
		return
	}
	page, err := h.svc.ListMyPrCommissions(c.Request.Context(), middleware.GetUserID(c), q)
	if err != nil {
		respondError(c, h.log, err, "could not list pr commissions")
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /admin/settlement-stats
func (h *LedgerHandler) SettlementStats(c *gin.Context) {
	stats, err := h.svc.SettlementStats(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "could not load stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}
