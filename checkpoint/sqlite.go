package checkpoint

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// bestSlot is the row key of the single stored checkpoint.
const bestSlot = "best"

// SQLiteStore keeps the checkpoint in a SQLite database.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteStore creates a store backed by the database at path.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Init opens the database and creates the schema.
func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

// Save upserts the checkpoint.
func (s *SQLiteStore) Save(ctx context.Context, cp Checkpoint) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := encode(cp)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO checkpoints (slot, individual_id, fitness, generation, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			individual_id = excluded.individual_id,
			fitness = excluded.fitness,
			generation = excluded.generation,
			payload = excluded.payload
	`, bestSlot, cp.ID, cp.Fitness, cp.Generation, payload)
	return err
}

// Load reads the stored checkpoint.
func (s *SQLiteStore) Load(ctx context.Context) (Checkpoint, error) {
	db, err := s.getDB()
	if err != nil {
		return Checkpoint{}, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM checkpoints WHERE slot = ?`, bestSlot).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Checkpoint{}, ErrNoCheckpoint
		}
		return Checkpoint{}, err
	}

	cp, err := decode(payload)
	if err != nil {
		return Checkpoint{}, fmt.Errorf("decode checkpoint: %w", err)
	}
	return cp, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS checkpoints (
			slot TEXT PRIMARY KEY,
			individual_id INTEGER NOT NULL,
			fitness REAL NOT NULL,
			generation INTEGER NOT NULL,
			payload BLOB NOT NULL
		);
	`)
	return err
}
