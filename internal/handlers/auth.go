package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thereayou/campus-hub/internal/handlers/dto"
	"github.com/thereayou/campus-hub/internal/middleware"
	"github.com/thereayou/campus-hub/internal/services"
)

type AuthHandler struct {
	auth Authenticator
	log  *zap.Logger
}

func NewAuthHandler(auth Authenticator, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.auth.Register(c.Request.Context(), services.RegisterRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if errors.Is(err, services.ErrUserExists) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		internalError(c, h.log, "failed to create user", err)
		return
	}

	c.JSON(http.StatusCreated, authResponse(resp))
}

// Login выдаёт JWT и обновляет last_seen
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), services.LoginRequest{Email: req.Email, Password: req.Password})
	if errors.Is(err, services.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if err != nil {
		internalError(c, h.log, "could not log in", err)
		return
	}

	c.JSON(http.StatusOK, authResponse(resp))
}

// Logout отзывает токен текущего запроса
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString(middleware.TokenKey)

	err := h.auth.Logout(c.Request.Context(), token)
	if errors.Is(err, services.ErrInvalidToken) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	if err != nil {
		internalError(c, h.log, "could not revoke token", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func authResponse(r *services.AuthResponse) dto.AuthResponse {
	return dto.AuthResponse{
		Uid:            r.User.ID,
		Username:       r.User.Username,
		Token:          r.Token,
		TokenExpiresAt: r.ExpiresAt,
	}
}
