package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/thereayou/campus-hub/internal/models"
)

type MembershipChecker interface {
	IsClubMember(ctx context.Context, clubID, userID string) (bool, error)
}

type Option func(*Hub)

// WithMembershipCheck пускает в комнату только участников клуба
func WithMembershipCheck(m MembershipChecker) Option {
	return func(h *Hub) { h.members = m }
}

// Hub - realtime-шлюз: принимает соединения, ведет presence и комнаты,
// раздает входящие события и доставляет уведомления пользователям.
type Hub struct {
	presence *Presence
	rooms    *Rooms
	members  MembershipChecker

	mu      sync.RWMutex
	clients map[string]*Client

	// Каналы для регистрации/отмены регистрации
	register   chan *Client
	unregister chan *Client

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	log *zap.Logger
}

// NewHub создает новый Hub
func NewHub(rooms *Rooms, presence *Presence, log *zap.Logger, opts ...Option) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Hub{
		presence:   presence,
		rooms:      rooms,
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
		log:        log,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hub) Presence() *Presence { return h.presence }
func (h *Hub) Rooms() *Rooms       { return h.rooms }

// Run обрабатывает поток событий подключения/отключения до Shutdown
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			h.shutdownClients()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)
		}
	}
}

// Register регистрирует нового клиента. После Shutdown клиент сразу
// закрывается, и Register возвращает false.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		client.close()
		return false
	}
}

// Unregister отменяет регистрацию клиента
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
		h.unregisterClient(client)
	}
}

// Attach регистрирует клиента и запускает его read/write pumps
func (h *Hub) Attach(client *Client) {
	if !h.Register(client) {
		if client.conn != nil {
			client.conn.Close()
		}
		return
	}

	h.wg.Add(2)
	go func() {
		defer h.wg.Done()
		client.WritePump()
	}()
	go func() {
		defer h.wg.Done()
		client.ReadPump()
	}()
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client.ID()] = client
	total := len(h.clients)
	h.mu.Unlock()

	h.presence.Register(client.UserID(), client.ID())

	h.log.Info("client registered",
		zap.String("conn_id", client.ID()), zap.String("user_id", client.UserID()), zap.Int("total", total))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client.ID()]
	delete(h.clients, client.ID())
	total := len(h.clients)
	h.mu.Unlock()

	// комнаты и presence чистятся и для клиента, которого нет в реестре
	h.rooms.OnDisconnect(client.ID())
	h.presence.Unregister(client.ID())
	client.close()

	if !ok {
		return
	}

	h.log.Info("client unregistered",
		zap.String("conn_id", client.ID()), zap.String("user_id", client.UserID()), zap.Int("total", total))
}

func (h *Hub) client(connID string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[connID]
	return c, ok
}

// SendToUser отправляет кадр во все соединения пользователя.
// Возвращает число соединений, принявших кадр.
func (h *Hub) SendToUser(userID string, payload []byte) int {
	delivered := 0
	for _, connID := range h.presence.ConnectionsFor(userID) {
		client, ok := h.client(connID)
		if !ok {
			continue
		}
		if err := client.Deliver(payload); err != nil {
			h.log.Debug("push skipped", zap.String("conn_id", connID), zap.Error(err))
			continue
		}
		delivered++
	}
	return delivered
}

// PushNotification доставляет уведомление получателю, если он онлайн
func (h *Hub) PushNotification(n *models.Notification) int {
	payload, err := Encode(EventNotification, n)
	if err != nil {
		h.log.Error("encode notification", zap.String("notification_id", n.ID), zap.Error(err))
		return 0
	}
	return h.SendToUser(n.RecipientID, payload)
}

func (h *Hub) dispatch(c *Client, env Envelope) error {
	switch env.Event {
	case EventJoinClubRoom:
		clubID, err := parseRoomID(env.Data)
		if err != nil {
			return err
		}
		if h.members != nil {
			ok, err := h.members.IsClubMember(h.ctx, clubID, c.UserID())
			if err != nil {
				return fmt.Errorf("membership check: %w", err)
			}
			if !ok {
				return ErrNotClubMember
			}
		}
		h.rooms.Join(c, clubID)
		return nil

	case EventLeaveClubRoom:
		clubID, err := parseRoomID(env.Data)
		if err != nil {
			return err
		}
		h.rooms.Leave(c.ID(), clubID)
		return nil

	case EventSendClubMessage:
		var payload SendClubMessagePayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			return ErrInvalidMessage
		}
		if c.UserID() == "" {
			return ErrNotIdentified
		}
		if payload.SenderID != "" && payload.SenderID != c.UserID() {
			h.log.Warn("senderId differs from connection identity, using connection identity",
				zap.String("conn_id", c.ID()), zap.String("claimed", payload.SenderID))
		}

		// Сохранение не отменяется, даже если соединение закроется посреди отправки
		_, err := h.rooms.Broadcast(context.Background(), Outgoing{
			ClubID:     payload.ClubID,
			SenderID:   c.UserID(),
			Content:    payload.Content,
			SenderName: payload.SenderName,
			SenderPic:  payload.SenderPic,
		})
		return err

	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, env.Event)
	}
}

func (h *Hub) shutdownClients() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.close()
		if c.conn != nil {
			c.conn.Close()
		}
	}
	h.log.Info("closed client connections", zap.Int("count", len(clients)))
}

// Shutdown останавливает hub и ждет завершения pumps не дольше timeout
func (h *Hub) Shutdown(timeout time.Duration) error {
	h.cancel()
	<-h.done

	finished := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-time.After(timeout):
		h.log.Warn("hub shutdown timeout reached")
		return context.DeadlineExceeded
	}
}
