package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationJoinRequest     NotificationType = "JOIN_REQUEST"
	NotificationRequestApproved NotificationType = "REQUEST_APPROVED"
	NotificationRequestRejected NotificationType = "REQUEST_REJECTED"
	NotificationEventRequest    NotificationType = "EVENT_REQUEST"
	NotificationEventApproved   NotificationType = "EVENT_APPROVED"
	NotificationEventRejected   NotificationType = "EVENT_REJECTED"
	NotificationOther           NotificationType = "OTHER"
)

// Valid проверяет, что тип уведомления известен
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationJoinRequest, NotificationRequestApproved, NotificationRequestRejected,
		NotificationEventRequest, NotificationEventApproved, NotificationEventRejected,
		NotificationOther:
		return true
	}
	return false
}

type Notification struct {
	ID                string           `gorm:"type:uuid;primaryKey" json:"id"`
	RecipientID       string           `gorm:"type:uuid;not null;index:idx_notifications_recipient_read,priority:1" json:"recipient"`
	SenderID          string           `json:"sender,omitempty"`
	Type              NotificationType `gorm:"not null" json:"type"`
	Message           string           `json:"message"`
	RelatedEntityID   string           `json:"relatedEntityId,omitempty"`
	RelatedEntityKind string           `json:"relatedEntityKind,omitempty"`
	Read              bool             `gorm:"not null;default:false;index:idx_notifications_recipient_read,priority:2" json:"read"`
	CreatedAt         time.Time        `json:"createdAt"`
}

func (n *Notification) BeforeCreate(*gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
