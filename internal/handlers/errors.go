package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thereayou/campus-hub/internal/membership"
)

// workflowError переводит ошибки membership в HTTP-ответ
func workflowError(c *gin.Context, log *zap.Logger, err error) {
	var status int
	switch {
	case errors.Is(err, membership.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, membership.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, membership.ErrDuplicateRequest),
		errors.Is(err, membership.ErrAlreadyMember):
		status = http.StatusConflict
	case errors.Is(err, membership.ErrNoPendingRequest),
		errors.Is(err, membership.ErrNotAMember):
		status = http.StatusNotFound
	case errors.Is(err, membership.ErrOwnerCannotLeave):
		status = http.StatusBadRequest
	default:
		log.Error("membership workflow failed", zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func internalError(c *gin.Context, log *zap.Logger, msg string, err error) {
	log.Error(msg, zap.Error(err), zap.String("path", c.FullPath()))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
