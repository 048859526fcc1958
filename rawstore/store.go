package rawstore

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when an entry does not exist.
//
// Implementations should return an error that satisfies
// `errors.Is(err, ErrNotFound)`. The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// AccessMode selects the capabilities of a stream returned by OpenStream.
type AccessMode int

const (
	// Read opens a stream for reading and seeking only.
	Read AccessMode = iota
	// ReadWrite opens a stream for reading, writing and seeking.
	ReadWrite
)

// String implements fmt.Stringer.
func (m AccessMode) String() string {
	switch m {
	case Read:
		return "read"
	case ReadWrite:
		return "read-write"
	default:
		return "unknown"
	}
}

// Entry describes one direct child of a directory.
type Entry struct {
	// Name is the last path segment of the child.
	Name string
	// Dir reports whether the child is a directory.
	Dir bool
}

// Store is the raw storage capability the handle layer is built on.
// It operates on resolved absolute path strings and performs no name
// resolution or collision handling of its own.
//
// Implementations must be safe for concurrent use. Operations on the
// same path issued concurrently race at the backend level; the Store
// adds no locking beyond what its own data structures require.
type Store interface {
	// Exists reports whether an entry (file or directory) exists at path.
	Exists(ctx context.Context, path string) (bool, error)

	// CreateFile creates an empty file at path, truncating any existing
	// file. The parent directory must exist.
	CreateFile(ctx context.Context, path string) error

	// MkDir creates a directory at path. It fails if an entry already
	// exists there.
	MkDir(ctx context.Context, path string) error

	// OpenStream opens the file at path. It fails with ErrNotFound if
	// no file exists there.
	OpenStream(ctx context.Context, path string, mode AccessMode) (Stream, error)

	// Delete removes the file or empty directory at path. Deleting an
	// absent entry is an error, not a no-op.
	Delete(ctx context.Context, path string) error

	// DeleteTree removes the entry at path recursively. Deleting an
	// absent entry is an error.
	DeleteTree(ctx context.Context, path string) error

	// ListChildren returns the direct children of the directory at path.
	ListChildren(ctx context.Context, path string) ([]Entry, error)

	// Move renames oldPath to newPath. The parent of newPath must exist.
	Move(ctx context.Context, oldPath, newPath string) error
}

// Stream is a seekable byte stream over a single file. Exactly one
// logical owner holds a Stream instance and is responsible for closing
// it at scope exit.
type Stream interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer

	// Truncate changes the size of the underlying file.
	Truncate(size int64) error

	// CanRead reports whether Read is supported.
	CanRead() bool
	// CanWrite reports whether Write is supported.
	CanWrite() bool
	// CanSeek reports whether Seek is supported.
	CanSeek() bool
}
