package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Bekzhanizb/GreenVerseBackend/middleware"
	"github.com/Bekzhanizb/GreenVerseBackend/models"
	"github.com/Bekzhanizb/GreenVerseBackend/services"
	"github.com/gin-gonic/gin"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds the services the HTTP endpoints call into.
type Handler struct {
	UserService     *services.UserService
	AnalyzerService *services.AnalyzerService
	QuizService     *services.QuizService
	HistoryService  *services.HistoryService
	DB              Pinger
	TokenTTL        time.Duration
	Clock           services.Clock
}

// currentUser aborts with 401 when the auth middleware did not run.
func currentUser(c *gin.Context) (models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return user, ok
}

func (h *Handler) Health(c *gin.Context) {
	status, database := http.StatusOK, "connected"
	if err := h.DB.Ping(c.Request.Context()); err != nil {
		status, database = http.StatusServiceUnavailable, "unavailable"
	}
	c.JSON(status, gin.H{
		"status":    http.StatusText(status),
		"timestamp": h.Clock.Now(),
		"database":  database,
	})
}
