// Package sqlite provides a SQLite-backed snapshot driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/quizfolkco/rote/pkg/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	name     TEXT PRIMARY KEY,
	payload  BLOB NOT NULL,
	saved_at TIMESTAMP NOT NULL
);`

// SQLiteDriver implements storage.Driver on a single SQLite database.
// Snapshots are stored as JSON payloads keyed by knowledge base name.
type SQLiteDriver struct {
	db *sql.DB
}

var _ storage.Driver = (*SQLiteDriver)(nil)

// NewSQLiteDriver creates a new SQLite-backed driver.
// The dbPath can be a file path or ":memory:" for an in-memory database.
func NewSQLiteDriver(dbPath string) (*SQLiteDriver, error) {
	// Open the database using the github.com/mattn/go-sqlite3 driver (registered as "sqlite3")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite-specific pragmas
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteDriver{db: db}, nil
}

// Save upserts the snapshot for the named knowledge base.
func (d *SQLiteDriver) Save(ctx context.Context, name string, snap *storage.Snapshot) error {
	if name == "" {
		return errors.New("knowledge base name is required")
	}
	if snap == nil {
		return errors.New("cannot save nil snapshot")
	}

	stamped := snap.Stamped(time.Now())
	payload, err := json.Marshal(stamped)
	if err != nil {
		return fmt.Errorf("encoding snapshot %s: %w", name, err)
	}

	_, err = d.db.ExecContext(ctx, `
		INSERT INTO snapshots (name, payload, saved_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at`,
		name, payload, stamped.SavedAt)
	if err != nil {
		return fmt.Errorf("saving snapshot %s: %w", name, err)
	}

	return nil
}

// Load retrieves and normalizes the named snapshot.
func (d *SQLiteDriver) Load(ctx context.Context, name string) (*storage.Snapshot, error) {
	var payload []byte
	err := d.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE name = ?`, name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.NotFoundError{Name: name}
	}
	if err != nil {
		return nil, fmt.Errorf("loading snapshot %s: %w", name, err)
	}

	var snap storage.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", name, err)
	}
	snap.Normalize()

	return &snap, nil
}

// Delete removes the named snapshot. Missing rows are a no-op.
func (d *SQLiteDriver) Delete(ctx context.Context, name string) error {
	if _, err := d.db.ExecContext(ctx,
		`DELETE FROM snapshots WHERE name = ?`, name); err != nil {
		return fmt.Errorf("deleting snapshot %s: %w", name, err)
	}
	return nil
}

// List returns the stored knowledge base names, sorted.
func (d *SQLiteDriver) List(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT name FROM snapshots ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning snapshot name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}

	return names, nil
}

// Close closes the underlying database.
func (d *SQLiteDriver) Close() error {
	return d.db.Close()
}
