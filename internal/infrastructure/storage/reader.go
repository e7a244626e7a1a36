package storage

import (
	"avatar-server/internal/domain"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/klauspost/compress/zstd"
)

// Load читает ростер. Файла еще нет - пустой ростер без ошибки.
func (s *FileStore) Load() (domain.RosterSnapshot, error) {
	f, err := os.Open(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.RosterSnapshot{Agents: []domain.AgentRecord{}}, nil
	}
	if err != nil {
		return domain.RosterSnapshot{}, err
	}
	defer f.Close()

	return readBinary(f)
}

func readBinary(r io.Reader) (domain.RosterSnapshot, error) {
	// 1. Заголовок целиком
	var header RosterFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return domain.RosterSnapshot{}, fmt.Errorf("failed to read header: %w", err)
	}

	// Валидация
	if string(header.Magic[:]) != MagicHeader {
		return domain.RosterSnapshot{}, ErrBadMagic
	}
	if header.Version != Version1 {
		return domain.RosterSnapshot{}, fmt.Errorf("%w: %d (expected %d)", ErrUnsupportedVersion, header.Version, Version1)
	}

	// 2. Тело
	dec, err := zstd.NewReader(r)
	if err != nil {
		return domain.RosterSnapshot{}, err
	}
	defer dec.Close()

	snapshot := domain.RosterSnapshot{Tick: header.Tick}
	if err := json.NewDecoder(dec).Decode(&snapshot.Agents); err != nil {
		return domain.RosterSnapshot{}, fmt.Errorf("failed to read body: %w", err)
	}
	if int32(len(snapshot.Agents)) != header.AgentCount {
		return domain.RosterSnapshot{}, fmt.Errorf("agent count mismatch: header %d, body %d",
			header.AgentCount, len(snapshot.Agents))
	}
	return snapshot, nil
}
