// Package store persists packing runs so results can be listed and
// re-rendered later without re-packing.
//
// Two backends are provided:
//   - memory: in-process storage for tests and one-shot CLI runs
//   - mongo: MongoDB-backed storage for serve mode
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dotfill/dotfill/pkg/pack"
)

// Run is a persisted packing run: the inputs that produced it and the
// resulting circles.
type Run struct {
	ID        string        `json:"id" bson:"_id"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	Source    string        `json:"source" bson:"source"`
	MaskHash  string        `json:"mask_hash" bson:"mask_hash"`
	Width     int           `json:"width" bson:"width"`
	Height    int           `json:"height" bson:"height"`
	Seed      uint64        `json:"seed" bson:"seed"`
	Circles   []pack.Circle `json:"circles" bson:"circles"`
	Notices   []pack.Notice `json:"notices,omitempty" bson:"notices,omitempty"`
}

// NewRun creates a run record with a fresh ID and timestamp.
func NewRun(source, maskHash string, width, height int, seed uint64, res *pack.Result) *Run {
	return &Run{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Source:    source,
		MaskHash:  maskHash,
		Width:     width,
		Height:    height,
		Seed:      seed,
		Circles:   res.Circles,
		Notices:   res.Notices,
	}
}

// Store is the interface for run storage backends.
type Store interface {
	// Put stores a run, replacing any run with the same ID.
	Put(ctx context.Context, run *Run) error

	// Get retrieves a run by ID.
	// Returns nil, nil if the run doesn't exist.
	Get(ctx context.Context, id string) (*Run, error)

	// List returns up to limit runs, most recent first.
	List(ctx context.Context, limit int) ([]*Run, error)

	// Delete removes a run. Deleting an absent run is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases any resources held by the store.
	Close(ctx context.Context) error
}
