package handler

import (
	"context"
	"net/http"
	"strings"

	"brandhub/internal/middleware"

	"github.com/gin-gonic/gin"
)

type fcmTokenStore interface {
	UpdateFCMToken(ctx context.Context, id uint, token string) error
}

type MeHandler struct {
	users fcmTokenStore
}

func NewMeHandler(users fcmTokenStore) *MeHandler {
	return &MeHandler{users: users}
}

// RegisterFCMToken stores the device token used for payout and commission pushes.
// POST /me/fcm-token
func (h *MeHandler) RegisterFCMToken(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	token := strings.TrimSpace(req.Token)
	if len(token) > 512 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token too long"})
		return
	}
	if err := h.users.UpdateFCMToken(c.Request.Context(), middleware.GetUserID(c), token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
