package inmemory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/quizfolkco/rote/pkg/storage"
)

// Driver implements storage.Driver using an in-memory map. It is meant for
// tests and throwaway sessions; nothing survives the process.
type Driver struct {
	// mu is a read write sync mutex for locking the snapshot map
	mu sync.RWMutex

	// snapshots maps knowledge base name to its latest saved snapshot
	snapshots map[string]*storage.Snapshot
}

var _ storage.Driver = (*Driver)(nil)

// NewDriver creates a new in-memory driver.
func NewDriver() *Driver {
	return &Driver{
		snapshots: make(map[string]*storage.Snapshot),
	}
}

// Save stores a stamped copy of the snapshot, replacing any previous one.
func (d *Driver) Save(_ context.Context, name string, snap *storage.Snapshot) error {
	if name == "" {
		return errors.New("knowledge base name is required")
	}
	if snap == nil {
		return errors.New("cannot save nil snapshot")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.snapshots[name] = snap.Stamped(time.Now())
	return nil
}

// Load retrieves a copy of the named snapshot.
func (d *Driver) Load(_ context.Context, name string) (*storage.Snapshot, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	snap, ok := d.snapshots[name]
	if !ok {
		return nil, storage.NotFoundError{Name: name}
	}

	out := snap.Clone()
	out.Normalize()
	return out, nil
}

// Delete removes the named snapshot. Missing names are a no-op.
func (d *Driver) Delete(_ context.Context, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.snapshots, name)
	return nil
}

// List returns the stored knowledge base names, sorted.
func (d *Driver) List(_ context.Context) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.snapshots))
	for name := range d.snapshots {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

// Count returns the number of stored snapshots.
func (d *Driver) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.snapshots)
}

// Close is a no-op for the in-memory driver.
func (d *Driver) Close() error {
	return nil
}
