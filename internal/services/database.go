package services

import (
	"context"
	"time"

	"github.com/thereayou/campus-hub/internal/models"
)

type UserStore interface {
	SaveUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastSeen(ctx context.Context, id string) error
}

type TokenIssuer interface {
	Generate(userID string) (string, time.Time, error)
	Verify(token string) (string, time.Time, error)
}

type TokenRevoker interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
}
