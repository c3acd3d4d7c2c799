package engine

import (
	"errors"
	"fmt"
)

var (
	ErrTodoNotFound       = errors.New("todo not found")
	ErrResolutionNotFound = errors.New("resolution not found")
	ErrVaultLocked        = errors.New("vault is locked")
	ErrAmbiguousID        = errors.New("id prefix matches more than one entry")
)

// ValidationError reports input that cannot be accepted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PersistError wraps a storage write failure. The in-memory state that
// triggered the write is kept, so callers may surface it as a warning.
type PersistError struct {
	Key string
	Err error
}

func (e PersistError) Error() string {
	return fmt.Sprintf("could not save %s: %v", e.Key, e.Err)
}

func (e PersistError) Unwrap() error { return e.Err }

// IsPersistError reports whether err came from a failed write only.
func IsPersistError(err error) bool {
	var pe PersistError
	return errors.As(err, &pe)
}
