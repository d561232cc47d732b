package wikiquiz

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps views in a sqlite database so they survive restarts.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if needed) the database at dbPath.
func OpenSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dsn := dbPath
	if !strings.Contains(dsn, "?") {
		dsn += "?_txlock=immediate&_busy_timeout=5000"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection serializes updates and keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS views (
			id TEXT PRIMARY KEY,
			state TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_views_updated_at ON views(updated_at)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute %s: %w", query, err)
		}
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, id string) (*Shell, error) {
	var state string
	err := s.db.QueryRowContext(ctx, "SELECT state FROM views WHERE id = ?", id).Scan(&state)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrViewNotFound
		}
		return nil, fmt.Errorf("failed to get view: %w", err)
	}
	return decodeShell([]byte(state))
}

func (s *SQLiteStore) Update(ctx context.Context, id string, fn func(*Shell) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	shell := NewShell()
	var state string
	err = tx.QueryRowContext(ctx, "SELECT state FROM views WHERE id = ?", id).Scan(&state)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return fmt.Errorf("failed to get view: %w", err)
	default:
		if shell, err = decodeShell([]byte(state)); err != nil {
			return err
		}
	}

	if err := fn(shell); err != nil {
		return err
	}
	shell.UpdatedAt = time.Now().UTC()
	data, err := encodeShell(shell)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO views (id, state, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		id, string(data), shell.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save view: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit view: %w", err)
	}
	return nil
}

// Prune removes views last updated before the given time.
func (s *SQLiteStore) Prune(ctx context.Context, before time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM views WHERE updated_at < ?", before.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune views: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned views: %w", err)
	}
	return int(n), nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
