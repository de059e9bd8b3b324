package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Entry is one pipeline invocation outcome.
type Entry struct {
	ID            string
	Filename      string
	Success       bool
	ErrorCategory string
	Preview       string
	CreatedAt     time.Time
}

// Store records invocation outcomes. Recording is best-effort at the call
// site; implementations only report the error.
type Store interface {
	Record(ctx context.Context, e Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Close() error
}

const schema = `
CREATE TABLE IF NOT EXISTS extract_history (
	id             TEXT PRIMARY KEY,
	filename       TEXT NOT NULL,
	success        INTEGER NOT NULL,
	error_category TEXT NOT NULL DEFAULT '',
	preview        TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_extract_history_created_at ON extract_history (created_at);
`

// SQLiteStore implements Store on an embedded sqlite database.
type SQLiteStore struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens (or creates) the history database at path and ensures the
// schema exists. Use ":memory:" for an ephemeral store.
func Open(ctx context.Context, path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}
	logger.Info("history.open", "path", path)
	return &SQLiteStore{db: db, log: logger}, nil
}

func (s *SQLiteStore) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO extract_history (id, filename, success, error_category, preview, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Filename, boolToInt(e.Success), e.ErrorCategory, e.Preview, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record history: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, success, error_category, preview, created_at
		 FROM extract_history ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			s.log.Warn("history.rows_close_error", "error", cerr)
		}
	}()

	var out []Entry
	for rows.Next() {
		var e Entry
		var success int
		if err := rows.Scan(&e.ID, &e.Filename, &success, &e.ErrorCategory, &e.Preview, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		e.Success = success != 0
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
