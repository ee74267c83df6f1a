// Package store persists computed palettes in sqlite so they survive restarts.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jmylchreest/colourpeek/internal/colour"
)

// ErrNotFound is returned by Get when no palette is stored under a key.
var ErrNotFound = errors.New("palette not stored")

// Record is a stored extraction result. A nil Palette records that the
// object produced no palette.
type Record struct {
	Key       string
	Object    string
	Digest    string
	Palette   *colour.Palette
	CreatedAt time.Time
}

// Store is a sqlite-backed palette store.
type Store struct {
	db *sql.DB
}

// Open opens or creates the store at dbPath and applies pending migrations.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	database, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
	}

	for _, pragma := range pragmas {
		if _, err := database.Exec(pragma); err != nil {
			database.Close()
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", pragma, err)
		}
	}

	if err := database.Ping(); err != nil {
		database.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if err := runMigrations(database); err != nil {
		database.Close()
		return nil, err
	}

	return &Store{db: database}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the record stored under key or ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) (*Record, error) {
	var (
		rec       = Record{Key: key}
		payload   sql.NullString
		createdAt string
	)

	err := s.db.QueryRowContext(ctx,
		"SELECT object, digest, payload, created_at FROM palettes WHERE key = ?",
		key,
	).Scan(&rec.Object, &rec.Digest, &payload, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query palette %s: %w", key, err)
	}

	if payload.Valid {
		var p colour.Palette
		if err := json.Unmarshal([]byte(payload.String), &p); err != nil {
			return nil, fmt.Errorf("decode palette %s: %w", key, err)
		}
		rec.Palette = &p
	}

	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		rec.CreatedAt = t
	}

	return &rec, nil
}

// Put stores rec, replacing any record under the same key.
func (s *Store) Put(ctx context.Context, rec Record) error {
	var payload sql.NullString
	if rec.Palette != nil {
		data, err := json.Marshal(rec.Palette)
		if err != nil {
			return fmt.Errorf("encode palette %s: %w", rec.Key, err)
		}
		payload = sql.NullString{String: string(data), Valid: true}
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO palettes(key, object, digest, payload, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			object = excluded.object,
			digest = excluded.digest,
			payload = excluded.payload,
			created_at = excluded.created_at
	`, rec.Key, rec.Object, rec.Digest, payload, createdAt.UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("store palette %s: %w", rec.Key, err)
	}

	return nil
}

// Delete removes every record for object and returns how many were removed.
func (s *Store) Delete(ctx context.Context, object string) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM palettes WHERE object = ?", object)
	if err != nil {
		return 0, fmt.Errorf("delete palettes for %s: %w", object, err)
	}
	return res.RowsAffected()
}

// Clear removes every record and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM palettes")
	if err != nil {
		return 0, fmt.Errorf("clear palettes: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM palettes").Scan(&n); err != nil {
		return 0, fmt.Errorf("count palettes: %w", err)
	}
	return n, nil
}
