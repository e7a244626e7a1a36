package engine

import "avatar-server/internal/domain"

// Config хранит параметры запуска движка
type Config struct {
	// TickRateHz - тиков симуляции в секунду
	TickRateHz int
	// ChatHistory - сколько последних строк чата держать для /debug/chat
	ChatHistory int
}

// NewConfig создает конфиг по умолчанию
func NewConfig() Config {
	return Config{
		TickRateHz:  domain.DefaultTickRate,
		ChatHistory: 100,
	}
}
