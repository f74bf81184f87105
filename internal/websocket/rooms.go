package websocket

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/thereayou/campus-hub/internal/models"
)

// Peer - получатель событий комнаты (одно соединение)
type Peer interface {
	ID() string
	UserID() string
	Deliver(payload []byte) error
}

type MessageStore interface {
	SaveMessage(ctx context.Context, message *models.Message) error
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// Outgoing - сообщение, отправляемое в комнату клуба
type Outgoing struct {
	ClubID   string
	SenderID string
	Content  string

	// Используются, если профиль отправителя не удалось загрузить
	SenderName string
	SenderPic  string
}

// Rooms держит чат-комнаты клубов: кто из соединений сейчас в какой комнате.
type Rooms struct {
	mu     sync.RWMutex
	rooms  map[string]map[string]Peer
	joined map[string]map[string]struct{}

	// Отправки в одну комнату идут строго по очереди: сохранение, затем рассылка.
	// Запись живет, пока ее держит или ждет хотя бы один отправитель.
	sendMu    sync.Mutex
	sendLocks map[string]*roomLock

	store MessageStore
	log   *zap.Logger
	now   func() time.Time
}

func NewRooms(store MessageStore, log *zap.Logger) *Rooms {
	return &Rooms{
		rooms:     make(map[string]map[string]Peer),
		joined:    make(map[string]map[string]struct{}),
		sendLocks: make(map[string]*roomLock),
		store:     store,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Join добавляет соединение в комнату. Проверки прав здесь нет.
func (r *Rooms) Join(p Peer, clubID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[clubID]
	if !ok {
		room = make(map[string]Peer)
		r.rooms[clubID] = room
	}
	room[p.ID()] = p

	set, ok := r.joined[p.ID()]
	if !ok {
		set = make(map[string]struct{})
		r.joined[p.ID()] = set
	}
	set[clubID] = struct{}{}
}

// Leave убирает соединение из комнаты; no-op, если его там нет
func (r *Rooms) Leave(connID, clubID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.removeUnsafe(connID, clubID)
}

// OnDisconnect убирает соединение из всех комнат
func (r *Rooms) OnDisconnect(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for clubID := range r.joined[connID] {
		r.removeUnsafe(connID, clubID)
	}
	delete(r.joined, connID)
}

func (r *Rooms) removeUnsafe(connID, clubID string) {
	if room, ok := r.rooms[clubID]; ok {
		delete(room, connID)
		if len(room) == 0 {
			delete(r.rooms, clubID)
		}
	}
	if set, ok := r.joined[connID]; ok {
		delete(set, clubID)
		if len(set) == 0 {
			delete(r.joined, connID)
		}
	}
}

// Members возвращает ID соединений в комнате
func (r *Rooms) Members(clubID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.rooms[clubID]))
	for id := range r.rooms[clubID] {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Users возвращает список пользователей в комнате
func (r *Rooms) Users(clubID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, p := range r.rooms[clubID] {
		if uid := p.UserID(); uid != "" {
			seen[uid] = struct{}{}
		}
	}
	users := make([]string, 0, len(seen))
	for id := range seen {
		users = append(users, id)
	}
	sort.Strings(users)
	return users
}

func (r *Rooms) IsJoined(connID, clubID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.joined[connID][clubID]
	return ok
}

type roomLock struct {
	mu   sync.Mutex
	refs int
}

// lockSend захватывает очередь отправки комнаты и возвращает функцию освобождения
func (r *Rooms) lockSend(clubID string) (unlock func()) {
	r.sendMu.Lock()
	l, ok := r.sendLocks[clubID]
	if !ok {
		l = &roomLock{}
		r.sendLocks[clubID] = l
	}
	l.refs++
	r.sendMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		r.sendMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(r.sendLocks, clubID)
		}
		r.sendMu.Unlock()
	}
}

// Broadcast сохраняет сообщение и рассылает его всем соединениям комнаты,
// включая соединение отправителя. Ошибка доставки одному соединению
// не прерывает рассылку и не отменяет сохранение.
func (r *Rooms) Broadcast(ctx context.Context, out Outgoing) (*models.Message, error) {
	out.ClubID = strings.TrimSpace(out.ClubID)
	if out.ClubID == "" || strings.TrimSpace(out.Content) == "" {
		return nil, ErrInvalidMessage
	}
	if out.SenderID == "" {
		return nil, ErrNotIdentified
	}

	unlock := r.lockSend(out.ClubID)
	defer unlock()

	message := &models.Message{
		ClubID:    out.ClubID,
		SenderID:  out.SenderID,
		Content:   out.Content,
		CreatedAt: r.now(),
	}
	if err := r.store.SaveMessage(ctx, message); err != nil {
		return nil, fmt.Errorf("save message: %w", err)
	}

	sender := SenderInfo{ID: out.SenderID, Username: out.SenderName, ProfilePicture: out.SenderPic}
	if user, err := r.store.GetUser(ctx, out.SenderID); err != nil {
		r.log.Warn("sender lookup failed, using client-supplied identity",
			zap.String("user_id", out.SenderID), zap.Error(err))
	} else {
		sender.Username = user.Username
		sender.ProfilePicture = user.ProfilePicture
	}
	message.Sender = models.User{ID: sender.ID, Username: sender.Username, ProfilePicture: sender.ProfilePicture}

	data, err := Encode(EventReceiveClubMessage, ClubMessagePayload{
		ID:        message.ID,
		ClubID:    message.ClubID,
		Sender:    sender,
		Content:   message.Content,
		CreatedAt: message.CreatedAt,
	})
	if err != nil {
		// Сообщение уже сохранено; клиенты подтянут его из истории
		r.log.Error("encode club message", zap.String("message_id", message.ID), zap.Error(err))
		return message, nil
	}

	r.deliver(out.ClubID, data)
	return message, nil
}

func (r *Rooms) deliver(clubID string, data []byte) {
	r.mu.RLock()
	peers := make([]Peer, 0, len(r.rooms[clubID]))
	for _, p := range r.rooms[clubID] {
		peers = append(peers, p)
	}
	r.mu.RUnlock()

	for _, p := range peers {
		if err := p.Deliver(data); err != nil {
			r.log.Debug("club message delivery skipped",
				zap.String("club_id", clubID), zap.String("conn_id", p.ID()), zap.Error(err))
		}
	}
}
