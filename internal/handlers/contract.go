//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=contract.go
package handlers

import (
	"context"

	"github.com/thereayou/campus-hub/internal/membership"
	"github.com/thereayou/campus-hub/internal/models"
	"github.com/thereayou/campus-hub/internal/services"
)

type Authenticator interface {
	Register(ctx context.Context, req services.RegisterRequest) (*services.AuthResponse, error)
	Login(ctx context.Context, req services.LoginRequest) (*services.AuthResponse, error)
	Logout(ctx context.Context, token string) error
}

type UserReader interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

type ClubStore interface {
	CreateClub(ctx context.Context, club *models.Club) error
	GetClubWithMembers(ctx context.Context, id string) (*models.Club, error)
	IsClubMember(ctx context.Context, clubID, userID string) (bool, error)
	GetClubMessages(ctx context.Context, clubID string, limit int, beforeID string) ([]models.Message, error)
}

type Membership interface {
	RequestJoin(ctx context.Context, clubID, userID string) (membership.Outcome, error)
	Approve(ctx context.Context, clubID, userID, actingAdminID string) error
	Reject(ctx context.Context, clubID, userID, actingAdminID string) error
	Leave(ctx context.Context, clubID, userID string) error
	PendingRequests(ctx context.Context, clubID, actingAdminID string) ([]models.ClubJoinRequest, error)
}

type Notifications interface {
	List(ctx context.Context, recipient string, limit int, unreadOnly bool) ([]models.Notification, error)
	UnreadCount(ctx context.Context, recipient string) (int64, error)
	MarkRead(ctx context.Context, recipient, id string) error
	MarkAllRead(ctx context.Context, recipient string) (int64, error)
}

// OnlineLister - пользователи, у которых есть соединение в комнате клуба
type OnlineLister interface {
	Users(clubID string) []string
}
