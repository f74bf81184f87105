package dto

import (
	"time"

	"github.com/thereayou/campus-hub/internal/models"
)

// MessageResponse - сообщение клуба в истории
type MessageResponse struct {
	ID        string    `json:"id"`
	ClubID    string    `json:"clubId"`
	Sender    UserInfo  `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserInfo struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

func NewUserInfo(u models.User) UserInfo {
	return UserInfo{ID: u.ID, Username: u.Username, ProfilePicture: u.ProfilePicture}
}

func NewMessageResponse(m models.Message) MessageResponse {
	sender := NewUserInfo(m.Sender)
	if sender.ID == "" {
		sender.ID = m.SenderID
	}
	return MessageResponse{
		ID:        m.ID,
		ClubID:    m.ClubID,
		Sender:    sender,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}
