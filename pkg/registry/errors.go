package registry

import "fmt"

// PersistenceError wraps a storage failure during a registry operation.
// The in-memory engine is rolled back to the last committed snapshot before
// this is returned, so callers can retry the operation safely.
type PersistenceError struct {
	// Op names the failed storage operation ("loading", "saving", "deleting").
	Op string

	// Name is the knowledge base whose snapshot was involved.
	Name string

	// Err is the underlying driver error.
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s snapshot for %s: %v", e.Op, e.Name, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
