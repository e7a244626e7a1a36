package network

import (
	"avatar-server/pkg/api"
	"sort"
	"sync"
)

// Hub - реестр открытых сессий всех транспортов.
// Пишут горутины подключений, читает HTTP (/debug/sessions) и Stop.
type Hub struct {
	mu sync.RWMutex
	// Мапа: ID сессии -> функция закрытия подключения
	sessions map[string]hubEntry
}

type hubEntry struct {
	session *Session
	closeFn func()
}

func NewHub() *Hub {
	return &Hub{
		sessions: make(map[string]hubEntry),
	}
}

// Register добавляет сессию. closeFn рвет подключение (нужен для остановки сервера).
func (h *Hub) Register(s *Session, closeFn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[s.ID] = hubEntry{session: s, closeFn: closeFn}
}

// Unregister удаляет сессию
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, id)
}

// CloseTransport закрывает все подключения одного транспорта
func (h *Hub) CloseTransport(transport string) {
	h.mu.RLock()
	var toClose []func()
	for _, e := range h.sessions {
		if e.session.Transport == transport && e.closeFn != nil {
			toClose = append(toClose, e.closeFn)
		}
	}
	h.mu.RUnlock()

	// closeFn сам зовет Unregister, поэтому без блокировки
	for _, fn := range toClose {
		fn()
	}
}

// Snapshot - сессии, отсортированные по времени подключения
func (h *Hub) Snapshot() []api.SessionView {
	h.mu.RLock()
	views := make([]api.SessionView, 0, len(h.sessions))
	for _, e := range h.sessions {
		views = append(views, e.session.View())
	}
	h.mu.RUnlock()

	sort.Slice(views, func(i, j int) bool {
		if views[i].ConnectedAt == views[j].ConnectedAt {
			return views[i].ID < views[j].ID
		}
		return views[i].ConnectedAt < views[j].ConnectedAt
	})
	return views
}

// SessionCount возвращает количество открытых сессий
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}
