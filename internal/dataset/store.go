package dataset

import (
	"context"
	"errors"
)

// ErrNotFound is returned by stores when no table exists for a dataset ID.
var ErrNotFound = errors.New("dataset not found")

// Store memoizes parsed tables keyed by content fingerprint. Saving the same
// fingerprint twice is harmless: the content is identical by construction.
type Store interface {
	// Save stores a parsed table under its dataset ID.
	Save(ctx context.Context, id string, table *Table) error

	// Get returns the table for a dataset ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Table, error)
}
