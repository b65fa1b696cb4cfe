package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/artpar/hooklens/internal/location"
	_ "modernc.org/sqlite"
)

// Store implements location.Store using SQLite.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	closed bool
}

// New creates a new SQLite-based location store.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open location database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize location database: %w", err)
	}

	return store, nil
}

// NewInMemory creates a new in-memory SQLite store (useful for testing).
func NewInMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

// initialize creates the single-row location table.
func (s *Store) initialize() error {
	schema := `
		CREATE TABLE IF NOT EXISTS location (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			query TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Load returns the saved query string.
func (s *Store) Load(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", location.ErrStoreClosed
	}

	var query string
	err := s.db.QueryRowContext(ctx, "SELECT query FROM location WHERE id = 1").Scan(&query)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load location: %w", err)
	}

	return query, nil
}

// Save replaces the saved query string.
func (s *Store) Save(ctx context.Context, query string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return location.ErrStoreClosed
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO location (id, query, updated_at) VALUES (1, ?, ?)",
		query, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save location: %w", err)
	}

	return nil
}

// Close closes the store.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
