// Package storage
package storage

import (
	"context"
)

// Driver defines the interface for persisting and retrieving review
// snapshots in a storage backend. A driver keeps one snapshot per knowledge
// base, keyed by the knowledge base name; Save replaces wholesale, so the
// stored snapshot is always the latest committed review state.
type Driver interface {
	// Save persists the snapshot for the named knowledge base, replacing
	// any snapshot stored under that name.
	Save(ctx context.Context, name string, snap *Snapshot) error

	// Load retrieves the snapshot for the named knowledge base. A missing
	// snapshot returns NotFoundError.
	Load(ctx context.Context, name string) (*Snapshot, error)

	// Delete removes the snapshot for the named knowledge base. Deleting
	// a snapshot that does not exist is a no-op.
	Delete(ctx context.Context, name string) error

	// List returns the names of all stored snapshots.
	List(ctx context.Context) ([]string, error)

	// Close closes the store and releases any resources.
	Close() error
}
