// Package checkpoint persists the best individual of a run so a later run can
// be seeded with it.
package checkpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/mazeevo/genome"
)

// ErrNoCheckpoint is returned by Load when nothing has been saved.
var ErrNoCheckpoint = errors.New("no checkpoint stored")

// Checkpoint is a saved elite together with the counters needed to resume.
type Checkpoint struct {
	ID         int               `json:"id"`
	Fitness    float64           `json:"fitness"`
	Generation int               `json:"generation"`
	NextID     int               `json:"next_id"`
	Difficulty string            `json:"difficulty,omitempty"`
	Chromosome genome.Chromosome `json:"chromosome"`
}

// Store persists a single best checkpoint.
type Store interface {
	Init(ctx context.Context) error
	Save(ctx context.Context, cp Checkpoint) error
	// Load returns ErrNoCheckpoint when the store is empty.
	Load(ctx context.Context) (Checkpoint, error)
	Close() error
}

// NewStore creates a store for the given backend. path is the JSON file for
// the "file" backend and the database file for "sqlite".
func NewStore(kind, path string) (Store, error) {
	switch kind {
	case "", "file":
		return NewFileStore(path), nil
	case "sqlite":
		return NewSQLiteStore(path), nil
	default:
		return nil, fmt.Errorf("unsupported checkpoint backend: %s", kind)
	}
}

func encode(cp Checkpoint) ([]byte, error) {
	return json.MarshalIndent(cp, "", "  ")
}

func decode(data []byte) (Checkpoint, error) {
	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return Checkpoint{}, fmt.Errorf("parsing checkpoint JSON: %w", err)
	}
	return cp, nil
}

// LoadSeed loads a checkpoint to seed a new run. A missing or unreadable
// checkpoint is logged and reported as nil; the run then starts fresh.
// The loaded chromosome is clamped into valid bounds.
func LoadSeed(ctx context.Context, store Store) *Checkpoint {
	if store == nil {
		return nil
	}

	cp, err := store.Load(ctx)
	if errors.Is(err, ErrNoCheckpoint) {
		slog.Info("checkpoint_absent")
		return nil
	}
	if err != nil {
		slog.Warn("checkpoint_unreadable", "error", err)
		return nil
	}

	cp.Chromosome = cp.Chromosome.Clamped()
	slog.Info("checkpoint_loaded",
		"id", cp.ID,
		"fitness", cp.Fitness,
		"generation", cp.Generation,
		"next_id", cp.NextID,
	)
	return &cp
}

// Tracker keeps the stored checkpoint current. The elite is replaced only
// when a fitter individual is offered; the resume counters advance on every
// offer so a resumed run continues after the last generation that ran.
type Tracker struct {
	store Store
	cp    Checkpoint
	saved bool
}

// NewTracker creates a tracker. If prev is non-nil its elite is kept until a
// fitter one is offered.
func NewTracker(store Store, prev *Checkpoint) *Tracker {
	t := &Tracker{store: store}
	if prev != nil {
		t.cp = *prev
		t.saved = true
	}
	return t
}

// Offer stores cp's counters and, if cp improves on the best seen so far, its
// elite. It reports whether the elite was replaced.
func (t *Tracker) Offer(ctx context.Context, cp Checkpoint) (bool, error) {
	if t == nil || t.store == nil {
		return false, nil
	}
	improved := !t.saved || cp.Fitness > t.cp.Fitness
	next := cp
	if !improved {
		next = t.cp
		next.Generation = cp.Generation
		next.NextID = cp.NextID
	}
	if err := t.store.Save(ctx, next); err != nil {
		return false, fmt.Errorf("saving checkpoint: %w", err)
	}
	t.cp = next
	t.saved = true
	return improved, nil
}

// Advance stores new resume counters without offering an elite. It does
// nothing until an elite has been saved.
func (t *Tracker) Advance(ctx context.Context, generation, nextID int) error {
	if t == nil || t.store == nil || !t.saved {
		return nil
	}
	next := t.cp
	next.Generation = generation
	next.NextID = nextID
	if err := t.store.Save(ctx, next); err != nil {
		return fmt.Errorf("saving checkpoint counters: %w", err)
	}
	t.cp = next
	return nil
}

// Best returns the fitness of the best saved checkpoint.
func (t *Tracker) Best() (float64, bool) {
	if t == nil {
		return 0, false
	}
	return t.cp.Fitness, t.saved
}
