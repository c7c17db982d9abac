package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"sync/atomic"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Store is the campaign knowledge base facade.
//
// It owns the single SQLite connection and hands out the four entity mappers.
// Writes go through units of work; at most one is open at a time.
type Store struct {
	db *sql.DB

	// gate is held by an open unit of work, and by each single statement or
	// read issued outside one. It is the only way onto the connection.
	gate atomic.Bool
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and ensures the schema exists.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement (cascades depend on it)
//
// This function is idempotent - safe to call multiple times on the same path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// One connection: pragmas are per-connection and the unit-of-work gate
	// assumes every statement shares it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - writes made through it bypass the mappers.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Query executes a raw read and returns the resulting rows. Returns
// ErrUnitOfWorkOpen while a unit of work is open. The rows hold the
// connection until closed, so callers close them before issuing any other
// statement on the store.
func (s *Store) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if s.gate.Load() {
		return nil, ErrUnitOfWorkOpen
	}
	return s.db.QueryContext(ctx, query, args...)
}

// Exec executes a raw statement, bypassing the mappers. Callers own any
// consistency implications. Returns ErrUnitOfWorkOpen while a unit of work
// is open.
func (s *Store) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.exec(ctx, query, args...)
}

// Quests returns the quest mapper.
func (s *Store) Quests() *QuestMapper { return &QuestMapper{s: s} }

// NPCs returns the NPC mapper.
func (s *Store) NPCs() *NPCMapper { return &NPCMapper{s: s} }

// Factions returns the faction mapper.
func (s *Store) Factions() *FactionMapper { return &FactionMapper{s: s} }

// Locations returns the location mapper.
func (s *Store) Locations() *LocationMapper { return &LocationMapper{s: s} }

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// ensureSchema creates every root, child and join table if absent.
// Safe to run on every open.
func ensureSchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
