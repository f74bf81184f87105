package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thereayou/campus-hub/pkg/auth"
)

const (
	UserIDKey = "userID"
	TokenKey  = "token"
)

type TokenVerifier interface {
	Verify(token string) (string, time.Time, error)
}

type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// UserID возвращает пользователя, установленного middleware
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

func abort(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

func authenticate(c *gin.Context, token string, verifier TokenVerifier, revoked RevocationChecker, log *zap.Logger) (string, bool) {
	// Проверяем, не в черном списке ли токен
	blacklisted, err := revoked.IsRevoked(c.Request.Context(), token)
	if err != nil {
		log.Warn("blacklist lookup failed", zap.Error(err))
		abort(c, "token check failed")
		return "", false
	}
	if blacklisted {
		abort(c, "token is blacklisted")
		return "", false
	}

	userID, _, err := verifier.Verify(token)
	if err != nil {
		abort(c, "invalid token")
		return "", false
	}
	c.Set(TokenKey, token)
	return userID, true
}

// AuthMiddleware проверяет JWT токен из Authorization header
func AuthMiddleware(verifier TokenVerifier, revoked RevocationChecker, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractTokenFromHeader(c.Request)
		if err != nil {
			abort(c, "missing or invalid token")
			return
		}

		userID, ok := authenticate(c, token, verifier, revoked, log)
		if !ok {
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// WSAuthMiddleware специальный middleware для WebSocket.
// При allowQueryIdentity и отсутствии токена доверяет параметру ?userId=.
func WSAuthMiddleware(verifier TokenVerifier, revoked RevocationChecker, allowQueryIdentity bool, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claimed := c.Query("userId")

		token, err := auth.ExtractToken(c.Request)
		switch {
		case errors.Is(err, auth.ErrMissingToken) && allowQueryIdentity && claimed != "":
			c.Set(UserIDKey, claimed)
			c.Next()
			return
		case err != nil:
			abort(c, "missing token")
			return
		}

		userID, ok := authenticate(c, token, verifier, revoked, log)
		if !ok {
			return
		}
		if claimed != "" && claimed != userID {
			abort(c, "userId does not match token")
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}
