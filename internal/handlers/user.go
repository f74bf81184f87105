package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thereayou/campus-hub/internal/database"
	"github.com/thereayou/campus-hub/internal/middleware"
)

type UserHandler struct {
	users UserReader
	log   *zap.Logger
}

func NewUserHandler(users UserReader, log *zap.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

// GetMe возвращает информацию о текущем пользователе
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.users.GetUser(c.Request.Context(), middleware.UserID(c))
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err != nil {
		internalError(c, h.log, "failed to load user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":             user.ID,
		"username":       user.Username,
		"email":          user.Email,
		"profilePicture": user.ProfilePicture,
		"createdAt":      user.CreatedAt,
		"lastSeenAt":     user.LastSeenAt,
	})
}
