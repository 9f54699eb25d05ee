package handlers

import (
	"net/http"

	"github.com/Bekzhanizb/GreenVerseBackend/services"
	"github.com/Bekzhanizb/GreenVerseBackend/utils"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required,min=3,max=50"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Password  string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.UserService.Register(c.Request.Context(), services.RegisterInput{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		respondError(c, "register", err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, h.TokenTTL)
	if err != nil {
		respondError(c, "register", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.UserService.Authenticate(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		respondError(c, "login", err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, h.TokenTTL)
	if err != nil {
		respondError(c, "login", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

func (h *Handler) Profile(c *gin.Context) {
	current, ok := currentUser(c)
	if !ok {
		return
	}
	user, err := h.UserService.Profile(c.Request.Context(), current.ID)
	if err != nil {
		respondError(c, "profile", err)
		return
	}
	c.JSON(http.StatusOK, user)
}
