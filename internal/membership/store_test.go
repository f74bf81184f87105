package membership

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/thereayou/campus-hub/internal/database"
	"github.com/thereayou/campus-hub/internal/models"
)

type pair struct{ club, user string }

// memStore сериализует транзакции и откатывает состояние при ошибке
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	clubs    map[string]*models.Club
	members  map[pair]bool
	requests map[pair]models.ClubJoinRequest
	notes    []models.Notification

	failNotification error
}

func newMemStore(clubs ...*models.Club) *memStore {
	s := &memStore{
		clubs:    make(map[string]*models.Club),
		members:  make(map[pair]bool),
		requests: make(map[pair]models.ClubJoinRequest),
	}
	for _, c := range clubs {
		s.clubs[c.ID] = c
		s.members[pair{c.ID, c.OwnerID}] = true
	}
	return s
}

func (s *memStore) WithTx(ctx context.Context, cb func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	members := make(map[pair]bool, len(s.members))
	for k, v := range s.members {
		members[k] = v
	}
	requests := make(map[pair]models.ClubJoinRequest, len(s.requests))
	for k, v := range s.requests {
		requests[k] = v
	}
	notes := append([]models.Notification(nil), s.notes...)
	s.mu.Unlock()

	if err := cb(ctx); err != nil {
		s.mu.Lock()
		s.members, s.requests, s.notes = members, requests, notes
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *memStore) GetClub(_ context.Context, id string) (*models.Club, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clubs[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *memStore) IsClubMember(_ context.Context, clubID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.members[pair{clubID, userID}], nil
}

func (s *memStore) AddClubMember(_ context.Context, clubID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[pair{clubID, userID}] = true
	return nil
}

func (s *memStore) RemoveClubMember(_ context.Context, clubID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := pair{clubID, userID}
	if !s.members[k] {
		return false, nil
	}
	delete(s.members, k)
	return true, nil
}

func (s *memStore) FindPendingRequest(_ context.Context, clubID, userID string) (*models.ClubJoinRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[pair{clubID, userID}]
	if !ok || r.Status != models.RequestPending {
		return nil, database.ErrNotFound
	}
	return &r, nil
}

func (s *memStore) ListPendingRequests(_ context.Context, clubID string) ([]models.ClubJoinRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ClubJoinRequest
	for k, r := range s.requests {
		if k.club == clubID && r.Status == models.RequestPending {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memStore) CreateJoinRequest(_ context.Context, req *models.ClubJoinRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := pair{req.ClubID, req.UserID}
	if _, ok := s.requests[k]; ok {
		return database.ErrDuplicate
	}
	s.requests[k] = *req
	return nil
}

func (s *memStore) DeletePendingRequest(_ context.Context, clubID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := pair{clubID, userID}
	r, ok := s.requests[k]
	if !ok || r.Status != models.RequestPending {
		return false, nil
	}
	delete(s.requests, k)
	return true, nil
}

func (s *memStore) SaveNotification(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNotification != nil {
		return s.failNotification
	}
	n.ID = fmt.Sprintf("n%d", len(s.notes)+1)
	s.notes = append(s.notes, *n)
	return nil
}

func (s *memStore) notifications(recipient string) []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Notification
	for _, n := range s.notes {
		if n.RecipientID == recipient {
			out = append(out, n)
		}
	}
	return out
}

func (s *memStore) isMember(clubID, userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.members[pair{clubID, userID}]
}

var errBoom = errors.New("boom")

func (s *memStore) ListNotifications(_ context.Context, recipient string, limit int, unreadOnly bool) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range s.notifications(recipient) {
		if len(out) < limit && (!unreadOnly || !n.Read) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *memStore) CountUnreadNotifications(_ context.Context, recipient string) (int64, error) {
	var n int64
	for _, it := range s.notifications(recipient) {
		if !it.Read {
			n++
		}
	}
	return n, nil
}

func (s *memStore) MarkNotificationRead(context.Context, string, string) error {
	return database.ErrNotFound
}

func (s *memStore) MarkAllNotificationsRead(context.Context, string) (int64, error) {
	return 0, nil
}
