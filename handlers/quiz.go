package handlers

import (
	"net/http"
	"strconv"

	"github.com/Bekzhanizb/GreenVerseBackend/middleware"
	"github.com/Bekzhanizb/GreenVerseBackend/models"
	"github.com/Bekzhanizb/GreenVerseBackend/services"
	"github.com/Bekzhanizb/GreenVerseBackend/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type startQuizRequest struct {
	Level string `json:"level" binding:"required,quizlevel"`
}

type submitResponse struct {
	*services.QuizResult
	AchievementError string `json:"achievement_error,omitempty"`
}

type answerRequest struct {
	QuestionIndex *int `json:"question_index" binding:"required"`
	OptionIndex   *int `json:"option_index" binding:"required"`
}

func (h *Handler) StartQuiz(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req startQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	view, err := h.QuizService.Start(c.Request.Context(), user.ID, models.QuizLevel(req.Level))
	if err != nil {
		respondError(c, "quiz_start", err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *Handler) QuizSession(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	view, err := h.QuizService.Session(user.ID, c.Param("session"))
	if err != nil {
		respondError(c, "quiz_session", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) AnswerQuiz(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	view, err := h.QuizService.Answer(user.ID, c.Param("session"), *req.QuestionIndex, *req.OptionIndex)
	if err != nil {
		respondError(c, "quiz_answer", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": view.State, "answered": view.Answered})
}

// SubmitQuiz answers 200 with the graded result even when the award could
// not be stored; achievement_error then says so and the award can be
// recovered through the repair endpoint.
func (h *Handler) SubmitQuiz(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	result, err := h.QuizService.Submit(c.Request.Context(), user.ID, c.Param("session"))
	if result == nil {
		respondError(c, "quiz_submit", err)
		return
	}
	middleware.InvalidateUserCache(c.Request.Context(), user.ID)

	resp := submitResponse{QuizResult: result}
	if err != nil {
		utils.Logger.Warn("quiz_submit_award_missing", zap.String("user_id", user.ID), zap.Error(err))
		resp.AchievementError = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) QuizStats(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	stats, err := h.HistoryService.QuizStats(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, "quiz_stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) Leaderboard(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 500 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 500"})
			return
		}
		limit = n
	}

	entries, err := h.HistoryService.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		respondError(c, "leaderboard", err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
