package storage

import (
	"avatar-server/internal/domain"
	"errors"
	"fmt"
)

var (
	ErrBadMagic           = errors.New("storage: invalid magic")
	ErrUnsupportedVersion = errors.New("storage: unsupported version")
)

// RosterStore хранит список агентов между перезапусками сервера.
// Это не журнал запросов: сохраняется только итоговое состояние.
type RosterStore interface {
	Load() (domain.RosterSnapshot, error)
	Save(snapshot domain.RosterSnapshot) error
	Close() error
}

// Open выбирает драйвер по имени из конфига
func Open(driver, path string) (RosterStore, error) {
	switch driver {
	case "", "none":
		return NopStore{}, nil
	case "file":
		return NewFileStore(path), nil
	case "sqlite":
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

// NopStore ничего не хранит
type NopStore struct{}

func (NopStore) Load() (domain.RosterSnapshot, error) {
	return domain.RosterSnapshot{Agents: []domain.AgentRecord{}}, nil
}

func (NopStore) Save(domain.RosterSnapshot) error { return nil }
func (NopStore) Close() error                     { return nil }
