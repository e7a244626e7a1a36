package domain

import "github.com/google/uuid"

// NewID выдает новый случайный идентификатор сущности
func NewID() uuid.UUID {
	return uuid.New()
}

// ParseID разбирает текстовый UUID. Кривая строка - это просто "не найдено".
func ParseID(s string) (uuid.UUID, bool) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
