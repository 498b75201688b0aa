package storage

import "errors"

// NotFoundError is returned when no snapshot exists for a knowledge base.
type NotFoundError struct {
	Name string
}

func (e NotFoundError) Error() string {
	if e.Name == "" {
		return "snapshot not found"
	}

	return "snapshot not found: " + e.Name
}

// IsNotFound reports whether err is a snapshot NotFoundError.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}
