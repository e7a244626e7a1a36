package storage

import (
	"avatar-server/internal/domain"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
)

const (
	MagicHeader string = `AVRS` // 4 байта
	Version1    uint32 = 1
)

// RosterFileHeader - заголовок файла ростера. Пишется binary.Write целиком,
// поэтому только массивы и числа.
type RosterFileHeader struct {
	Magic      [4]byte // 4 байта
	Version    uint32  // 4 байта
	Timestamp  int64   // 8 байт
	Tick       int64   // 8 байт
	AgentCount int32   // 4 байта
}

// FileStore - ростер в одном файле: заголовок + JSON, сжатый zstd
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Save пишет во временный файл и переименовывает, чтобы не оставить половину файла
func (s *FileStore) Save(snapshot domain.RosterSnapshot) error {
	if dir := filepath.Dir(s.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp := s.Path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := writeBinary(f, snapshot); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, s.Path)
}

func (s *FileStore) Close() error { return nil }

func writeBinary(w io.Writer, snapshot domain.RosterSnapshot) error {
	// 1. Заголовок
	header := RosterFileHeader{
		Version:    Version1,
		Timestamp:  time.Now().Unix(),
		Tick:       snapshot.Tick,
		AgentCount: int32(len(snapshot.Agents)),
	}
	copy(header.Magic[:], MagicHeader)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// 2. Тело: JSON со всеми записями, сжатый zstd
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	agents := snapshot.Agents
	if agents == nil {
		agents = []domain.AgentRecord{}
	}
	if err := json.NewEncoder(enc).Encode(agents); err != nil {
		enc.Close()
		return fmt.Errorf("failed to write body: %w", err)
	}
	return enc.Close()
}
