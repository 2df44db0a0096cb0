package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned on an authentication miss, an unknown food or a vanished user.
	ErrNotFound  = errors.New("not found")
	ErrNoSession = errors.New("no session")
)

// ValidationError rejects malformed user input. Nothing is written when it is returned.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s [%s]: %s", e.Field, e.Value, e.Reason)
}

// StorageError means the store was unreachable or rejected an operation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %s", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
