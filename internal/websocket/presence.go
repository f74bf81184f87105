package websocket

import (
	"sort"
	"sync"
)

// Presence хранит соответствие пользователь -> открытые соединения.
// Запись пользователя существует, только пока у него есть хотя бы одно соединение.
type Presence struct {
	mu     sync.RWMutex
	byUser map[string]map[string]struct{}
	byConn map[string]string
}

func NewPresence() *Presence {
	return &Presence{
		byUser: make(map[string]map[string]struct{}),
		byConn: make(map[string]string),
	}
}

// Register привязывает соединение к пользователю. Повторный вызов ничего не меняет.
func (p *Presence) Register(userID, connID string) {
	if userID == "" || connID == "" {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Соединение принадлежит не более чем одному пользователю
	if prev, ok := p.byConn[connID]; ok && prev != userID {
		p.removeUnsafe(prev, connID)
	}

	conns, ok := p.byUser[userID]
	if !ok {
		conns = make(map[string]struct{})
		p.byUser[userID] = conns
	}
	conns[connID] = struct{}{}
	p.byConn[connID] = userID
}

// Unregister убирает соединение; для неизвестного соединения это no-op
func (p *Presence) Unregister(connID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if userID, ok := p.byConn[connID]; ok {
		p.removeUnsafe(userID, connID)
	}
}

func (p *Presence) removeUnsafe(userID, connID string) {
	delete(p.byConn, connID)
	if conns, ok := p.byUser[userID]; ok {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(p.byUser, userID)
		}
	}
}

// ConnectionsFor возвращает снимок соединений пользователя
func (p *Presence) ConnectionsFor(userID string) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	conns := p.byUser[userID]
	out := make([]string, 0, len(conns))
	for id := range conns {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (p *Presence) Online(userID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.byUser[userID]
	return ok
}

// Users возвращает список онлайн пользователей
func (p *Presence) Users() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	users := make([]string, 0, len(p.byUser))
	for id := range p.byUser {
		users = append(users, id)
	}
	sort.Strings(users)
	return users
}
