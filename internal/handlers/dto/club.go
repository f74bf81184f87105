package dto

import (
	"time"

	"github.com/thereayou/campus-hub/internal/models"
)

type CreateClubRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=2000"`
	Privacy     string `json:"privacy" binding:"omitempty,oneof=public private"`
}

type ClubResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	OwnerID     string     `json:"ownerId"`
	Privacy     string     `json:"privacy"`
	Members     []UserInfo `json:"members"`
	OnlineUsers []string   `json:"onlineUsers,omitempty"`
}

func NewClubResponse(c *models.Club) ClubResponse {
	members := make([]UserInfo, len(c.Members))
	for i, m := range c.Members {
		members[i] = NewUserInfo(m)
	}
	return ClubResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		OwnerID:     c.OwnerID,
		Privacy:     string(c.Privacy),
		Members:     members,
	}
}

type JoinRequestResponse struct {
	UserID    string    `json:"userId"`
	User      UserInfo  `json:"user"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}
