package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sandeepkv93/taskquest/internal/gamification"
)

// SQLiteProgressStore keeps the gamification record in the singleton
// progress row.
type SQLiteProgressStore struct {
	db  *sql.DB
	now func() time.Time
}

func (r *SQLiteRepository) ProgressStore() *SQLiteProgressStore {
	return &SQLiteProgressStore{db: r.db, now: time.Now}
}

func (s *SQLiteProgressStore) Load(ctx context.Context) ([]byte, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM progress WHERE id = 1`).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, gamification.ErrNoProgress
		}
		return nil, fmt.Errorf("load progress: %w", err)
	}
	return []byte(payload), nil
}

func (s *SQLiteProgressStore) Save(ctx context.Context, payload []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO progress (id, payload, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		string(payload), mustTime(s.now()),
	)
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// FileStore keeps the gamification record in a JSON file, replaced
// atomically on every save.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: strings.TrimSpace(path)}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(context.Context) ([]byte, error) {
	if s.path == "" {
		return nil, gamification.ErrNoProgress
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, gamification.ErrNoProgress
		}
		return nil, fmt.Errorf("read progress file: %w", err)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return nil, gamification.ErrNoProgress
	}
	return raw, nil
}

func (s *FileStore) Save(_ context.Context, payload []byte) error {
	if s.path == "" {
		return errors.New("storage: progress file path is empty")
	}
	dir := filepath.Dir(s.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
