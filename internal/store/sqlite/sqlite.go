// Package sqlite provides a SQLite-backed implementation of the store.Store
// contract, including in-process snapshot watches.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/Dishu223/fairshare-splitapp/internal/models"
	"github.com/Dishu223/fairshare-splitapp/internal/store"
)

// Ensure SQLiteStore implements the full store contract.
var _ store.Store = (*SQLiteStore)(nil)

// SQLiteStore implements store.Store using SQLite. Every mutation reloads the
// affected collection and broadcasts the fresh snapshot to active watchers,
// so connected sessions converge without polling.
type SQLiteStore struct {
	db *sql.DB

	groupWatchers *broadcaster[[]models.Group]
	txWatchers    *broadcaster[[]models.Transaction]
}

// New creates a new SQLiteStore with the given database path. It creates the
// parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{
		db:            db,
		groupWatchers: newBroadcaster[[]models.Group](),
		txWatchers:    newBroadcaster[[]models.Transaction](),
	}, nil
}

// Close shuts down all watches and closes the database connection.
func (s *SQLiteStore) Close() error {
	s.groupWatchers.close()
	s.txWatchers.close()
	return s.db.Close()
}
