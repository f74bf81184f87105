package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Privacy string

const (
	PrivacyPublic  Privacy = "public"
	PrivacyPrivate Privacy = "private"
)

type Club struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `gorm:"type:uuid;not null;index" json:"ownerId"`
	Privacy     Privacy   `gorm:"not null;default:'public';check:privacy IN ('public','private')" json:"privacy"`
	CreatedAt   time.Time `json:"createdAt"`

	Members []User `gorm:"many2many:club_members" json:"members,omitempty"`
}

func (c *Club) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// RequiresApproval сообщает, проходит ли вступление через заявку
func (c *Club) RequiresApproval() bool {
	return c.Privacy == PrivacyPrivate
}

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// ClubJoinRequest удаляется после решения, поэтому первичный ключ (club_id, user_id)
// гарантирует не более одной pending-заявки на пару.
type ClubJoinRequest struct {
	ClubID    string        `gorm:"type:uuid;primaryKey" json:"clubId"`
	UserID    string        `gorm:"type:uuid;primaryKey" json:"userId"`
	Status    RequestStatus `gorm:"not null;default:'pending'" json:"status"`
	CreatedAt time.Time     `json:"createdAt"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
