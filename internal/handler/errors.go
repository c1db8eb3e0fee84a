package handler

import (
	"errors"
	"net/http"
	"strconv"

	"brandhub/internal/middleware"
	"brandhub/internal/service"
	"brandhub/pkg/logger"

	"github.com/gin-gonic/gin"
)

// statusFor maps service errors onto HTTP status codes. Unknown errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrAlreadySettled),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrAlreadyApplied),
		errors.Is(err, service.ErrAlreadyReferred):
		return http.StatusConflict
	case errors.Is(err, service.ErrMissingPrice),
		errors.Is(err, service.ErrInvalidPrice):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidPagination),
		errors.Is(err, service.ErrSelfReferral),
		errors.Is(err, service.ErrEmptyReferralCode),
		errors.Is(err, service.ErrNotInfluencer):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondError writes the error body; server faults are logged and hidden behind a generic message.
func respondError(c *gin.Context, log *logger.Logger, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.WithRequestID(c.GetString("request_id")).WithError(err).Error(fallback)
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": fallback})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func actor(c *gin.Context) service.Actor {
	return service.Actor{UserID: middleware.GetUserID(c), Role: middleware.GetRole(c)}
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// listQuery parses status/limit/offset. Non-numeric values are rejected here;
// range checks happen in the service.
func listQuery(c *gin.Context) (service.ListQuery, bool) {
	q := service.ListQuery{Status: c.Query("status")}
	var err error
	if v := c.Query("limit"); v != "" {
		if q.Limit, err = strconv.Atoi(v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return q, false
		}
		if q.Limit == 0 {
			q.Limit = -1 // explicit zero is invalid, not "use the default"
		}
	}
	if v := c.Query("offset"); v != "" {
		if q.Offset, err = strconv.Atoi(v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "offset must be an integer"})
			return q, false
		}
	}
	return q, true
}
