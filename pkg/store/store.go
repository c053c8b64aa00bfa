// Package store persists computed results so that they can be fetched
// again by ID.
//
// [MemoryStore] serves the CLI and tests. [MongoStore] backs the API server
// when results must outlive the process or be shared between replicas.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/cablemoment/pkg/errors"
	"github.com/matzehuels/cablemoment/pkg/io"
	"github.com/matzehuels/cablemoment/pkg/network"
	"github.com/matzehuels/cablemoment/pkg/sizing"
)

// DefaultListLimit caps ListResults when the caller passes no limit.
const DefaultListLimit = 50

// Record is one computation: the document it ran on and what came out.
type Record struct {
	ID          string            `json:"id" bson:"_id"`
	Name        string            `json:"name,omitempty" bson:"name,omitempty"`
	NetworkHash string            `json:"network_hash" bson:"network_hash"`
	Network     *io.Network       `json:"network,omitempty" bson:"network,omitempty"`
	Result      network.Result    `json:"result" bson:"result"`
	Sizing      *sizing.Selection `json:"sizing,omitempty" bson:"sizing,omitempty"`
	SizingError string            `json:"sizing_error,omitempty" bson:"sizing_error,omitempty"`
	Cached      bool              `json:"cached" bson:"-"`
	CreatedAt   time.Time         `json:"created_at" bson:"created_at"`
}

// Store persists records.
type Store interface {
	// SaveResult stores rec, assigning ID and CreatedAt when they are unset.
	SaveResult(ctx context.Context, rec *Record) error

	// GetResult returns the record with the given ID or a RESULT_NOT_FOUND error.
	GetResult(ctx context.Context, id string) (*Record, error)

	// ListResults returns the newest records first.
	ListResults(ctx context.Context, limit int) ([]*Record, error)

	// DeleteResult removes a record or returns RESULT_NOT_FOUND.
	DeleteResult(ctx context.Context, id string) error

	Close(ctx context.Context) error
}

// NewID returns a fresh record ID.
func NewID() string {
	return uuid.NewString()
}

// ValidateID rejects IDs that are not UUIDs before they reach a backend.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid result ID %q", id)
	}
	return nil
}

func prepare(rec *Record) {
	if rec.ID == "" {
		rec.ID = NewID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeResultNotFound, "result %s not found", id)
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
