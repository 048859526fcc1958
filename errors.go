package appstorage

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrNotFound is returned when a lookup targets an entry that does
	// not exist.
	ErrNotFound = errors.New("entry not found")

	// ErrAlreadyExists is returned when a create under FailIfExists
	// targets a name that is already taken.
	ErrAlreadyExists = errors.New("entry already exists")

	// ErrInvalidSegment is returned when a path segment is empty or
	// contains a separator character.
	ErrInvalidSegment = errors.New("invalid path segment")
)

// IOError indicates an adapter-level failure: permission denied, a
// handle whose target was deleted, a disk error.
//
// The original underlying error can be accessed via errors.Unwrap.
type IOError struct {
	Op    string
	Path  string
	cause error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.cause)
}

func (e *IOError) Unwrap() error { return e.cause }

// translateError normalizes an adapter failure onto the public
// taxonomy. Not-found and already-exists conditions keep their
// sentinel; everything else becomes an *IOError for the given
// operation. Failures are never swallowed.
func translateError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrAlreadyExists) || errors.Is(err, ErrInvalidSegment) {
		return err
	}
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	}
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: %s: %w", ErrAlreadyExists, path, err)
	}
	return &IOError{Op: op, Path: path, cause: err}
}

// ioError wraps err as an *IOError regardless of its kind. Used where
// the taxonomy demands an I/O failure even for a vanished target, such
// as deleting through a stale handle.
func ioError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Path: path, cause: err}
}
