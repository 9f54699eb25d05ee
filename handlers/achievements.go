package handlers

import (
	"net/http"

	"github.com/Bekzhanizb/GreenVerseBackend/middleware"
	"github.com/gin-gonic/gin"
)

func (h *Handler) Achievements(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	achievements, err := h.HistoryService.Achievements(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, "achievements", err)
		return
	}
	c.JSON(http.StatusOK, achievements)
}

func (h *Handler) RepairAchievements(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	minted, err := h.QuizService.RepairAchievements(c.Request.Context(), user.ID)
	if len(minted) > 0 {
		middleware.InvalidateUserCache(c.Request.Context(), user.ID)
	}
	if err != nil {
		respondError(c, "repair_achievements", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"repaired": len(minted), "achievements": minted})
}
