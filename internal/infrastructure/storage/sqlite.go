package storage

import (
	"avatar-server/internal/domain"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore - ростер в таблице agents. Сохранение заменяет таблицу целиком в одной транзакции.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS agents (
			seq INTEGER PRIMARY KEY,
			id TEXT NOT NULL,
			name TEXT NOT NULL,
			model TEXT NOT NULL,
			region TEXT NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			z REAL NOT NULL,
			yaw REAL NOT NULL,
			pitch REAL NOT NULL,
			health REAL NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Load() (domain.RosterSnapshot, error) {
	snapshot := domain.RosterSnapshot{Agents: []domain.AgentRecord{}}

	var tick string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'tick'`).Scan(&tick)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return snapshot, err
	default:
		snapshot.Tick, _ = strconv.ParseInt(tick, 10, 64)
	}

	rows, err := s.db.Query(`SELECT id, name, model, region, x, y, z, yaw, pitch, health FROM agents ORDER BY seq`)
	if err != nil {
		return snapshot, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rec domain.AgentRecord
			id  string
		)
		if err := rows.Scan(&id, &rec.Name, &rec.Model, &rec.Region,
			&rec.Pos.X, &rec.Pos.Y, &rec.Pos.Z, &rec.Yaw, &rec.Pitch, &rec.Health); err != nil {
			return snapshot, err
		}
		if parsed, err := uuid.Parse(id); err == nil {
			rec.ID = parsed
		}
		snapshot.Agents = append(snapshot.Agents, rec)
	}
	return snapshot, rows.Err()
}

func (s *SQLiteStore) Save(snapshot domain.RosterSnapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM agents`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO agents (seq, id, name, model, region, x, y, z, yaw, pitch, health)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, rec := range snapshot.Agents {
		if _, err := stmt.Exec(i, rec.ID.String(), rec.Name, rec.Model, rec.Region,
			rec.Pos.X, rec.Pos.Y, rec.Pos.Z, rec.Yaw, rec.Pitch, rec.Health); err != nil {
			return fmt.Errorf("insert agent %s: %w", rec.Name, err)
		}
	}
	if _, err := tx.Exec(`INSERT INTO meta (key, value) VALUES ('tick', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, strconv.FormatInt(snapshot.Tick, 10)); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
