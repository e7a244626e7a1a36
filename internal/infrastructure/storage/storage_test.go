package storage

import (
	"avatar-server/internal/domain"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func sampleSnapshot() domain.RosterSnapshot {
	return domain.RosterSnapshot{
		Tick: 1200,
		Agents: []domain.AgentRecord{
			{ID: domain.NewID(), Name: "Bob", Model: "alex", Region: "overworld",
				Pos: domain.Vec3{X: 1.5, Y: 64, Z: -2.25}, Yaw: 90, Pitch: -10, Health: 17},
			{ID: domain.NewID(), Name: "Alice", Region: "the_nether",
				Pos: domain.Vec3{X: 0.5, Y: 32, Z: 0.5}, Health: 20},
		},
	}
}

func assertSame(t *testing.T, got, want domain.RosterSnapshot) {
	t.Helper()
	if got.Tick != want.Tick {
		t.Errorf("tick = %d, want %d", got.Tick, want.Tick)
	}
	if len(got.Agents) != len(want.Agents) {
		t.Fatalf("agents = %d, want %d", len(got.Agents), len(want.Agents))
	}
	for i := range want.Agents {
		if got.Agents[i] != want.Agents[i] {
			t.Errorf("agent %d = %+v, want %+v", i, got.Agents[i], want.Agents[i])
		}
	}
}

func TestStores_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		driver string
		path   string
	}{
		{"file", filepath.Join(dir, "nested", "roster.avrs")},
		{"sqlite", filepath.Join(dir, "db", "roster.db")},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			store, err := Open(tt.driver, tt.path)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer store.Close()

			empty, err := store.Load()
			if err != nil {
				t.Fatalf("Load empty: %v", err)
			}
			if len(empty.Agents) != 0 {
				t.Errorf("fresh store has %d agents", len(empty.Agents))
			}

			want := sampleSnapshot()
			if err := store.Save(want); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := store.Load()
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			assertSame(t, got, want)

			// Второе сохранение полностью заменяет первое
			want.Agents = want.Agents[:1]
			want.Tick = 1300
			if err := store.Save(want); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, _ = store.Load()
			assertSame(t, got, want)
		})
	}
}

func TestFileStore_Header(t *testing.T) {
	var buf bytes.Buffer
	if err := writeBinary(&buf, sampleSnapshot()); err != nil {
		t.Fatalf("writeBinary: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("AVRS")) {
		t.Errorf("missing magic: % x", buf.Bytes()[:4])
	}

	corrupt := append([]byte("NOPE"), buf.Bytes()[4:]...)
	if _, err := readBinary(bytes.NewReader(corrupt)); !errors.Is(err, ErrBadMagic) {
		t.Errorf("err = %v, want ErrBadMagic", err)
	}

	if _, err := readBinary(bytes.NewReader(buf.Bytes()[:10])); err == nil {
		t.Error("truncated header should fail")
	}
}

func TestFileStore_NoTempLeft(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.avrs")
	if err := NewFileStore(path).Save(sampleSnapshot()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
}

func TestOpen_Drivers(t *testing.T) {
	store, err := Open("none", "")
	if err != nil {
		t.Fatalf("Open none: %v", err)
	}
	if err := store.Save(sampleSnapshot()); err != nil {
		t.Errorf("nop save: %v", err)
	}
	if snap, _ := store.Load(); len(snap.Agents) != 0 {
		t.Error("nop store should stay empty")
	}

	if _, err := Open("redis", "x"); err == nil {
		t.Error("unknown driver should fail")
	}
}
