package handlers

import (
	"errors"
	"net/http"

	"github.com/Bekzhanizb/GreenVerseBackend/models"
	"github.com/Bekzhanizb/GreenVerseBackend/services"
	"github.com/Bekzhanizb/GreenVerseBackend/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict), errors.Is(err, models.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, models.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error": ...}. Server-side failures are logged and
// their details withheld.
func respondError(c *gin.Context, handler string, err error) {
	status := statusFor(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		utils.Logger.Error(handler+"_failed", zap.Error(err))
		utils.ErrorCount.WithLabelValues(handler, http.StatusText(status)).Inc()
		message = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

func bindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
}
