// Package membership implements the club join-request workflow:
//
//	NONE -> PENDING -> APPROVED | REJECTED
//
// Resolved requests are deleted, so a resolved pair is back in NONE and may
// request again. Public clubs skip PENDING entirely. Every transition commits
// its state change and its notification in one transaction; the realtime push
// happens only after commit.
package membership

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/thereayou/campus-hub/internal/database"
	"github.com/thereayou/campus-hub/internal/models"
	"github.com/thereayou/campus-hub/internal/notify"
)

const relatedKindClub = "club"

type Store interface {
	WithTx(ctx context.Context, cb func(ctx context.Context) error) error

	GetClub(ctx context.Context, id string) (*models.Club, error)
	IsClubMember(ctx context.Context, clubID, userID string) (bool, error)
	AddClubMember(ctx context.Context, clubID, userID string) error
	RemoveClubMember(ctx context.Context, clubID, userID string) (bool, error)

	FindPendingRequest(ctx context.Context, clubID, userID string) (*models.ClubJoinRequest, error)
	ListPendingRequests(ctx context.Context, clubID string) ([]models.ClubJoinRequest, error)
	CreateJoinRequest(ctx context.Context, req *models.ClubJoinRequest) error
	DeletePendingRequest(ctx context.Context, clubID, userID string) (bool, error)

	SaveNotification(ctx context.Context, n *models.Notification) error
}

type Notifier interface {
	Record(ctx context.Context, s notify.Saver, n notify.Notification) (*models.Notification, error)
	Push(n *models.Notification)
}

// Outcome - результат RequestJoin
type Outcome string

const (
	OutcomeJoined  Outcome = "joined"
	OutcomePending Outcome = "pending"
)

type Workflow struct {
	store    Store
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time
}

func New(store Store, notifier Notifier, log *zap.Logger) *Workflow {
	return &Workflow{
		store:    store,
		notifier: notifier,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (w *Workflow) loadClub(ctx context.Context, clubID string) (*models.Club, error) {
	club, err := w.store.GetClub(ctx, clubID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, persistence("get club", err)
	}
	return club, nil
}

// RequestJoin вступает в открытый клуб сразу, а в закрытый - через заявку
// с уведомлением владельцу.
func (w *Workflow) RequestJoin(ctx context.Context, clubID, userID string) (Outcome, error) {
	club, err := w.loadClub(ctx, clubID)
	if err != nil {
		return "", err
	}

	var (
		outcome Outcome
		pending *models.Notification
	)
	err = w.store.WithTx(ctx, func(ctx context.Context) error {
		member, err := w.store.IsClubMember(ctx, clubID, userID)
		if err != nil {
			return persistence("check membership", err)
		}
		if member {
			return ErrAlreadyMember
		}

		if !club.RequiresApproval() {
			if err := w.store.AddClubMember(ctx, clubID, userID); err != nil {
				return persistence("add member", err)
			}
			outcome = OutcomeJoined
			return nil
		}

		_, err = w.store.FindPendingRequest(ctx, clubID, userID)
		switch {
		case err == nil:
			return ErrDuplicateRequest
		case !errors.Is(err, database.ErrNotFound):
			return persistence("find pending request", err)
		}

		err = w.store.CreateJoinRequest(ctx, &models.ClubJoinRequest{
			ClubID:    clubID,
			UserID:    userID,
			Status:    models.RequestPending,
			CreatedAt: w.now(),
		})
		if errors.Is(err, database.ErrDuplicate) {
			return ErrDuplicateRequest
		}
		if err != nil {
			return persistence("create join request", err)
		}

		pending, err = w.notifier.Record(ctx, w.store, notify.Notification{
			Recipient:         club.OwnerID,
			Sender:            userID,
			Type:              models.NotificationJoinRequest,
			Message:           fmt.Sprintf("New request to join %s", club.Name),
			RelatedEntityID:   clubID,
			RelatedEntityKind: relatedKindClub,
		})
		if err != nil {
			return persistence("record notification", err)
		}
		outcome = OutcomePending
		return nil
	})
	if err != nil {
		return "", err
	}

	w.notifier.Push(pending)
	w.log.Info("join requested",
		zap.String("club_id", clubID), zap.String("user_id", userID), zap.String("outcome", string(outcome)))
	return outcome, nil
}

// Approve принимает pending-заявку: заявка удаляется, пользователь становится участником
func (w *Workflow) Approve(ctx context.Context, clubID, userID, actingAdminID string) error {
	return w.resolve(ctx, clubID, userID, actingAdminID, models.RequestApproved)
}

// Reject отклоняет pending-заявку без изменения членства
func (w *Workflow) Reject(ctx context.Context, clubID, userID, actingAdminID string) error {
	return w.resolve(ctx, clubID, userID, actingAdminID, models.RequestRejected)
}

func (w *Workflow) resolve(ctx context.Context, clubID, userID, actingAdminID string, status models.RequestStatus) error {
	club, err := w.loadClub(ctx, clubID)
	if err != nil {
		return err
	}
	if club.OwnerID != actingAdminID {
		return ErrUnauthorized
	}

	ntype, text := models.NotificationRequestRejected, fmt.Sprintf("Your request to join %s was rejected", club.Name)
	if status == models.RequestApproved {
		ntype, text = models.NotificationRequestApproved, fmt.Sprintf("Your request to join %s was approved", club.Name)
	}

	var resolved *models.Notification
	err = w.store.WithTx(ctx, func(ctx context.Context) error {
		// Условное удаление: из конкурентных approve/reject выигрывает один
		removed, err := w.store.DeletePendingRequest(ctx, clubID, userID)
		if err != nil {
			return persistence("delete pending request", err)
		}
		if !removed {
			return ErrNoPendingRequest
		}

		if status == models.RequestApproved {
			if err := w.store.AddClubMember(ctx, clubID, userID); err != nil {
				return persistence("add member", err)
			}
		}

		resolved, err = w.notifier.Record(ctx, w.store, notify.Notification{
			Recipient:         userID,
			Sender:            actingAdminID,
			Type:              ntype,
			Message:           text,
			RelatedEntityID:   clubID,
			RelatedEntityKind: relatedKindClub,
		})
		if err != nil {
			return persistence("record notification", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	w.notifier.Push(resolved)
	w.log.Info("join request resolved",
		zap.String("club_id", clubID), zap.String("user_id", userID), zap.String("status", string(status)))
	return nil
}

// Leave убирает пользователя из клуба. Уведомление не отправляется.
func (w *Workflow) Leave(ctx context.Context, clubID, userID string) error {
	club, err := w.loadClub(ctx, clubID)
	if err != nil {
		return err
	}
	if club.OwnerID == userID {
		return ErrOwnerCannotLeave
	}

	removed, err := w.store.RemoveClubMember(ctx, clubID, userID)
	if err != nil {
		return persistence("remove member", err)
	}
	if !removed {
		return ErrNotAMember
	}
	return nil
}

// PendingRequests возвращает заявки клуба для его владельца
func (w *Workflow) PendingRequests(ctx context.Context, clubID, actingAdminID string) ([]models.ClubJoinRequest, error) {
	club, err := w.loadClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if club.OwnerID != actingAdminID {
		return nil, ErrUnauthorized
	}

	reqs, err := w.store.ListPendingRequests(ctx, clubID)
	if err != nil {
		return nil, persistence("list pending requests", err)
	}
	return reqs, nil
}
