package handlers

import (
	"net/http"

	"github.com/Bekzhanizb/GreenVerseBackend/middleware"
	"github.com/Bekzhanizb/GreenVerseBackend/services"
	"github.com/gin-gonic/gin"
)

type analyzeRequest struct {
	ImageRef string              `json:"image_ref" binding:"required"`
	Scores   *services.RawScores `json:"scores"`
}

func (h *Handler) Analyze(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	analysis, err := h.AnalyzerService.Analyze(c.Request.Context(), user.ID, req.ImageRef, req.Scores)
	if err != nil {
		respondError(c, "analyze", err)
		return
	}
	middleware.InvalidateUserCache(c.Request.Context(), user.ID)

	c.JSON(http.StatusCreated, gin.H{"analysis_id": analysis.ID, "analysis": analysis})
}

func (h *Handler) History(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	analyses, err := h.HistoryService.History(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, "history", err)
		return
	}
	c.JSON(http.StatusOK, analyses)
}

func (h *Handler) Report(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	analysis, err := h.HistoryService.Report(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		respondError(c, "report", err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}
