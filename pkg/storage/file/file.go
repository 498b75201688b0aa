// Package file provides the default snapshot driver: one JSON file per
// knowledge base inside a directory.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/quizfolkco/rote/pkg/storage"
)

const snapshotExt = ".json"

// Driver implements storage.Driver on a directory of JSON files.
type Driver struct {
	dir string
}

var _ storage.Driver = (*Driver)(nil)

// NewDriver returns a file-backed driver rooted at dir, creating the
// directory if it does not exist.
func NewDriver(dir string) (*Driver, error) {
	if dir == "" {
		return nil, errors.New("storage directory is required")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}

	return &Driver{dir: dir}, nil
}

// Save writes the snapshot through a temp file and renames it into place,
// so a crash mid-write never leaves a torn snapshot behind. Snapshot files
// are chmodded to 0600 before any payload is written.
func (d *Driver) Save(_ context.Context, name string, snap *storage.Snapshot) error {
	if err := validateName(name); err != nil {
		return err
	}
	if snap == nil {
		return errors.New("cannot save nil snapshot")
	}

	payload, err := json.MarshalIndent(snap.Stamped(time.Now()), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(d.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("restricting temp snapshot mode: %w", err)
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("writing snapshot %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing snapshot %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing snapshot %s: %w", name, err)
	}

	if err := os.Rename(tmpName, d.path(name)); err != nil {
		return fmt.Errorf("replacing snapshot %s: %w", name, err)
	}

	return nil
}

// Load reads and normalizes the named snapshot.
func (d *Driver) Load(_ context.Context, name string) (*storage.Snapshot, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	payload, err := os.ReadFile(d.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, storage.NotFoundError{Name: name}
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", name, err)
	}

	var snap storage.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", name, err)
	}
	snap.Normalize()

	return &snap, nil
}

// Delete removes the named snapshot file. Missing files are a no-op.
func (d *Driver) Delete(_ context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	err := os.Remove(d.path(name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting snapshot %s: %w", name, err)
	}

	return nil
}

// List returns the names of all stored snapshots, sorted.
func (d *Driver) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, fmt.Errorf("reading storage directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.HasSuffix(entry.Name(), snapshotExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), snapshotExt))
	}
	sort.Strings(names)

	return names, nil
}

// Close is a no-op for the file driver.
func (d *Driver) Close() error {
	return nil
}

func (d *Driver) path(name string) string {
	return filepath.Join(d.dir, name+snapshotExt)
}

// validateName keeps knowledge base names inside the storage directory.
func validateName(name string) error {
	if name == "" {
		return errors.New("knowledge base name is required")
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid knowledge base name: %q", name)
	}
	return nil
}
