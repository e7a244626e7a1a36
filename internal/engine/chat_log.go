package engine

import (
	"avatar-server/internal/domain"
	"avatar-server/pkg/api"
	"avatar-server/pkg/logger"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ChatLog - кольцо последних строк чата. Пишет поток симуляции, читает HTTP.
type ChatLog struct {
	mu    sync.RWMutex
	lines []api.ChatLine
	limit int
}

func NewChatLog(limit int) *ChatLog {
	if limit <= 0 {
		limit = 1
	}
	return &ChatLog{lines: make([]api.ChatLine, 0, limit), limit: limit}
}

// Append - приемник чата мира (domain.ChatSink)
func (c *ChatLog) Append(msg domain.ChatMessage) {
	c.mu.Lock()
	if len(c.lines) == c.limit {
		copy(c.lines, c.lines[1:])
		c.lines = c.lines[:len(c.lines)-1]
	}
	c.lines = append(c.lines, api.ChatLine{
		Tick:      msg.Tick,
		Sender:    msg.Sender,
		Text:      msg.Text,
		Timestamp: time.Now().UnixMilli(),
	})
	c.mu.Unlock()

	logger.Log.WithFields(logrus.Fields{
		"component": "chat",
		"tick":      msg.Tick,
		"sender":    msg.Sender,
	}).Info(msg.Line())
}

// Lines - копия истории, старые строки первыми
func (c *ChatLog) Lines() []api.ChatLine {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]api.ChatLine, len(c.lines))
	copy(out, c.lines)
	return out
}
