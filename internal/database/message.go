package database

import (
	"context"
	"errors"

	"github.com/thereayou/campus-hub/internal/models"
)

func (d *Database) SaveMessage(ctx context.Context, message *models.Message) error {
	return translate(d.conn(ctx).Omit("Sender").Create(message).Error)
}

func (d *Database) GetMessage(ctx context.Context, id string) (*models.Message, error) {
	var message models.Message
	if err := d.conn(ctx).Preload("Sender").First(&message, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &message, nil
}

// GetClubMessages получает сообщения клуба с пагинацией. Курсор beforeID
// сравнивается парой (created_at, id), поэтому сообщения с одинаковым
// временем не теряются между страницами.
func (d *Database) GetClubMessages(ctx context.Context, clubID string, limit int, beforeID string) ([]models.Message, error) {
	var messages []models.Message

	query := d.conn(ctx).Where("club_id = ?", clubID)

	if beforeID != "" {
		var beforeMsg models.Message
		err := d.conn(ctx).First(&beforeMsg, "id = ? AND club_id = ?", beforeID, clubID).Error
		if errors.Is(translate(err), ErrNotFound) {
			return nil, ErrInvalidCursor
		}
		if err != nil {
			return nil, err
		}
		query = query.Where("(created_at, id) < (?, ?)", beforeMsg.CreatedAt, beforeMsg.ID)
	}

	err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Preload("Sender").
		Find(&messages).Error
	if err != nil {
		return nil, translate(err)
	}

	// Разворачиваем порядок, чтобы старые сообщения были первыми
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}
