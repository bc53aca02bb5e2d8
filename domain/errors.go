package domain

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when the referenced entity does not exist or
	// may not be touched by the caller.
	ErrNotFound = errors.New("not found")
	// ErrNothingToUpdate is returned when an update carries no applicable fields.
	ErrNothingToUpdate = errors.New("no update data provided")
	// ErrConflict is returned by stores when inserting an entity whose id is
	// already taken.
	ErrConflict = errors.New("entity already exists")
	// ErrConcurrencyConflict indicates that the underlying storage rejected an
	// update because a newer version of the entity is already persisted.
	ErrConcurrencyConflict = errors.New("concurrency conflict")
)

// ValidationError lists the field constraints an input violated.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Fields, "; ")
}
