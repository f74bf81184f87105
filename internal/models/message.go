package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Message struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	ClubID    string    `gorm:"type:uuid;not null;index:idx_messages_club_created,priority:1"`
	SenderID  string    `gorm:"type:uuid;not null"`
	Content   string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"index:idx_messages_club_created,priority:2"`

	// Связи
	Sender User `gorm:"foreignKey:SenderID"`
}

func (m *Message) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
