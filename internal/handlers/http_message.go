package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thereayou/campus-hub/internal/database"
	"github.com/thereayou/campus-hub/internal/handlers/dto"
	"github.com/thereayou/campus-hub/internal/middleware"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 100
)

type HTTPMessageHandler struct {
	clubs ClubStore
	log   *zap.Logger
}

func NewHTTPMessageHandler(clubs ClubStore, log *zap.Logger) *HTTPMessageHandler {
	return &HTTPMessageHandler{clubs: clubs, log: log}
}

// GetClubMessages получает историю сообщений клуба, новые первыми
func (h *HTTPMessageHandler) GetClubMessages(c *gin.Context) {
	ctx := c.Request.Context()
	clubID := c.Param("id")

	member, err := h.clubs.IsClubMember(ctx, clubID, middleware.UserID(c))
	if err != nil {
		internalError(c, h.log, "failed to check membership", err)
		return
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "you are not a member of this club"})
		return
	}

	// Параметры пагинации
	limit := defaultHistoryLimit
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= maxHistoryLimit {
			limit = parsed
		}
	}

	messages, err := h.clubs.GetClubMessages(ctx, clubID, limit, c.Query("before"))
	if errors.Is(err, database.ErrInvalidCursor) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown before cursor"})
		return
	}
	if err != nil {
		internalError(c, h.log, "failed to get messages", err)
		return
	}

	result := make([]dto.MessageResponse, len(messages))
	for i, m := range messages {
		result[i] = dto.NewMessageResponse(m)
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": result,
		"hasMore":  len(messages) == limit,
	})
}
