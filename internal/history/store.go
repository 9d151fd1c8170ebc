// Package history keeps per-request metadata rows in SQLite: what was asked
// for and how it went. Media bytes are never stored.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/iconidentify/grabba/internal/domain"
)

// Store records request outcomes. Implementations must be safe for
// concurrent use.
type Store interface {
	Record(ctx context.Context, rec domain.HistoryRecord) error
	Recent(ctx context.Context, limit int) ([]domain.HistoryRecord, error)
	Close() error
}

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(path string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS requests (
			id TEXT PRIMARY KEY,
			platform TEXT NOT NULL,
			content_id TEXT NOT NULL,
			flow TEXT NOT NULL,
			media_kind TEXT,
			outcome TEXT NOT NULL,
			error_kind TEXT,
			duration_ms INTEGER NOT NULL,
			created_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_requests_created_at ON requests(created_at);
		CREATE INDEX IF NOT EXISTS idx_requests_platform ON requests(platform);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger,
	}, nil
}

// Record inserts one request row. The ID is assigned here when empty.
func (s *SQLiteStore) Record(ctx context.Context, rec domain.HistoryRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO requests (id, platform, content_id, flow, media_kind, outcome, error_kind, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		string(rec.Platform),
		rec.ContentID,
		rec.Flow,
		string(rec.MediaKind),
		rec.Outcome,
		rec.ErrorKind,
		rec.DurationMS,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

// Recent returns up to limit rows, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]domain.HistoryRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, platform, content_id, flow, media_kind, outcome, error_kind, duration_ms, created_at
		FROM requests
		ORDER BY created_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query requests: %w", err)
	}
	defer rows.Close()

	var records []domain.HistoryRecord
	for rows.Next() {
		var rec domain.HistoryRecord
		var platform, mediaKind string
		if err := rows.Scan(
			&rec.ID,
			&platform,
			&rec.ContentID,
			&rec.Flow,
			&mediaKind,
			&rec.Outcome,
			&rec.ErrorKind,
			&rec.DurationMS,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		rec.Platform = domain.Platform(platform)
		rec.MediaKind = domain.MediaKind(mediaKind)
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// NopStore discards every record; used when history is disabled.
type NopStore struct{}

func (NopStore) Record(ctx context.Context, rec domain.HistoryRecord) error { return nil }

func (NopStore) Recent(ctx context.Context, limit int) ([]domain.HistoryRecord, error) {
	return nil, nil
}

func (NopStore) Close() error { return nil }
