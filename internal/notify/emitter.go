// Package notify persists addressed notifications and pushes them to the
// recipient's open connections when there are any.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/thereayou/campus-hub/internal/database"
	"github.com/thereayou/campus-hub/internal/models"
)

var (
	ErrInvalidNotification = errors.New("invalid notification")
	ErrNotFound            = errors.New("notification not found")
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

type Store interface {
	SaveNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, recipientID string, limit int, unreadOnly bool) ([]models.Notification, error)
	CountUnreadNotifications(ctx context.Context, recipientID string) (int64, error)
	MarkNotificationRead(ctx context.Context, recipientID, id string) error
	MarkAllNotificationsRead(ctx context.Context, recipientID string) (int64, error)
}

// Saver - хранилище, через которое пишется одно уведомление (в том числе транзакционное)
type Saver interface {
	SaveNotification(ctx context.Context, n *models.Notification) error
}

// Pusher доставляет уведомление в открытые соединения получателя
type Pusher interface {
	PushNotification(n *models.Notification) int
}

type Notification struct {
	Recipient         string
	Sender            string
	Type              models.NotificationType
	Message           string
	RelatedEntityID   string
	RelatedEntityKind string
}

type Emitter struct {
	store  Store
	pusher Pusher
	log    *zap.Logger
	now    func() time.Time
}

func New(store Store, pusher Pusher, log *zap.Logger) *Emitter {
	return &Emitter{
		store:  store,
		pusher: pusher,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Emit сохраняет уведомление и затем пытается доставить его онлайн.
// Ошибка доставки не возвращается: получатель заберет уведомление запросом.
func (e *Emitter) Emit(ctx context.Context, n Notification) (*models.Notification, error) {
	rec, err := e.Record(ctx, e.store, n)
	if err != nil {
		return nil, err
	}
	e.Push(rec)
	return rec, nil
}

// Record только сохраняет уведомление через s (например, хранилище внутри транзакции)
func (e *Emitter) Record(ctx context.Context, s Saver, n Notification) (*models.Notification, error) {
	if strings.TrimSpace(n.Recipient) == "" || !n.Type.Valid() {
		return nil, ErrInvalidNotification
	}

	rec := &models.Notification{
		RecipientID:       n.Recipient,
		SenderID:          n.Sender,
		Type:              n.Type,
		Message:           n.Message,
		RelatedEntityID:   n.RelatedEntityID,
		RelatedEntityKind: n.RelatedEntityKind,
		CreatedAt:         e.now(),
	}
	if err := s.SaveNotification(ctx, rec); err != nil {
		return nil, fmt.Errorf("save notification: %w", err)
	}
	return rec, nil
}

// Push - best-effort доставка уже сохраненного уведомления
func (e *Emitter) Push(n *models.Notification) {
	if e.pusher == nil || n == nil {
		return
	}
	delivered := e.pusher.PushNotification(n)
	e.log.Debug("notification pushed",
		zap.String("notification_id", n.ID),
		zap.String("recipient", n.RecipientID),
		zap.String("type", string(n.Type)),
		zap.Int("connections", delivered))
}

func (e *Emitter) List(ctx context.Context, recipient string, limit int, unreadOnly bool) ([]models.Notification, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return e.store.ListNotifications(ctx, recipient, limit, unreadOnly)
}

func (e *Emitter) UnreadCount(ctx context.Context, recipient string) (int64, error) {
	return e.store.CountUnreadNotifications(ctx, recipient)
}

func (e *Emitter) MarkRead(ctx context.Context, recipient, id string) error {
	err := e.store.MarkNotificationRead(ctx, recipient, id)
	if errors.Is(err, database.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (e *Emitter) MarkAllRead(ctx context.Context, recipient string) (int64, error) {
	return e.store.MarkAllNotificationsRead(ctx, recipient)
}
