// Package storage holds the append-only sinks accepted submissions are written to.
package storage

import (
	"context"

	"github.com/mbolis/survey-intake/model"
)

// Sink persists hashed survey records. Append either stores the whole
// record or returns an error; records are never updated or read back.
type Sink interface {
	Append(ctx context.Context, record model.HashedRecord) error
	Close() error
}
