package database

import (
	"context"

	"github.com/thereayou/campus-hub/internal/models"
)

func (d *Database) SaveNotification(ctx context.Context, n *models.Notification) error {
	return translate(d.conn(ctx).Create(n).Error)
}

func (d *Database) ListNotifications(ctx context.Context, recipientID string, limit int, unreadOnly bool) ([]models.Notification, error) {
	var out []models.Notification
	query := d.conn(ctx).Where("recipient_id = ?", recipientID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}
	err := query.Order("created_at DESC").Limit(limit).Find(&out).Error
	return out, err
}

func (d *Database) CountUnreadNotifications(ctx context.Context, recipientID string) (int64, error) {
	var n int64
	err := d.conn(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Count(&n).Error
	return n, err
}

// MarkNotificationRead переключает read только у уведомлений получателя
func (d *Database) MarkNotificationRead(ctx context.Context, recipientID, id string) error {
	res := d.conn(ctx).Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *Database) MarkAllNotificationsRead(ctx context.Context, recipientID string) (int64, error) {
	res := d.conn(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Update("read", true)
	return res.RowsAffected, res.Error
}
