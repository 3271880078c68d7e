// Package autosave persists the live session so an interrupted workout
// survives a restart. The store is a write-through snapshot of the
// whole session under a single key, not an event log.
package autosave

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/claude/repline/internal/workout"
)

// Store keeps the serialized active session in a one-row SQLite table
// at dir/autosave.db.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Open opens (or creates) the autosave database.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating autosave dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "autosave.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening autosave db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS active_session (
		id       INTEGER PRIMARY KEY CHECK (id = 1),
		payload  TEXT NOT NULL,
		saved_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating autosave table: %w", err)
	}

	return &Store{db: db}, nil
}

// Save overwrites the snapshot with the given session. Saves coming
// from concurrent fire-and-forget writers are serialized here; the
// last one to run wins, which is all the engine needs.
func (s *Store) Save(sess *workout.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO active_session (id, payload, saved_at) VALUES (1, ?, CURRENT_TIMESTAMP)`,
		string(data),
	)
	if err != nil {
		return fmt.Errorf("writing autosave: %w", err)
	}
	return nil
}

// Load returns the stored session, or (nil, nil) when the snapshot is
// absent. A corrupt payload is reported as an error; the caller treats
// any error as "nothing to recover".
func (s *Store) Load() (*workout.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var payload string
	err := s.db.QueryRow(`SELECT payload FROM active_session WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading autosave: %w", err)
	}

	var sess workout.Session
	if err := json.Unmarshal([]byte(payload), &sess); err != nil {
		return nil, fmt.Errorf("decoding autosave: %w", err)
	}
	return &sess, nil
}

// Clear removes the snapshot.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`DELETE FROM active_session WHERE id = 1`); err != nil {
		return fmt.Errorf("clearing autosave: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
