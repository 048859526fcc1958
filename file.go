package appstorage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/hupe1980/appstorage/rawstore"
)

// File is a handle to a file at a resolved path. It caches no
// filesystem state: every operation goes back to the store, so a
// handle whose target was deleted fails instead of answering from a
// snapshot.
type File struct {
	st   rawstore.Store
	log  *Logger
	path string
	name string
}

// Path returns the resolved absolute path of the file.
func (f *File) Path() string { return f.path }

// Name returns the last path segment of the file.
func (f *File) Name() string { return f.name }

// Open opens the file as a stream. The stream is always seekable and
// is writable only for rawstore.ReadWrite. Opening a file whose target
// was deleted fails with *IOError. The caller owns the stream and must
// close it at scope exit.
func (f *File) Open(ctx context.Context, mode rawstore.AccessMode) (rawstore.Stream, error) {
	s, err := f.st.OpenStream(ctx, f.path, mode)
	if err != nil {
		return nil, ioError("open", f.path, err)
	}
	return s, nil
}

// ReadAllText reads the whole file as a string.
func (f *File) ReadAllText(ctx context.Context) (string, error) {
	s, err := f.Open(ctx, rawstore.Read)
	if err != nil {
		return "", err
	}
	defer s.Close()

	data, err := io.ReadAll(s)
	if err != nil {
		return "", ioError("read", f.path, err)
	}
	return string(data), nil
}

// WriteAllText replaces the file's content with text. Existing content
// is truncated first; writing through a handle whose target was
// deleted fails rather than recreating the file.
func (f *File) WriteAllText(ctx context.Context, text string) error {
	s, err := f.Open(ctx, rawstore.ReadWrite)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Truncate(0); err != nil {
		return ioError("truncate", f.path, err)
	}
	if _, err := io.WriteString(s, text); err != nil {
		return ioError("write", f.path, err)
	}
	return nil
}

// Delete removes the file. Deleting an already-deleted file fails with
// *IOError; there is no idempotent delete.
func (f *File) Delete(ctx context.Context) error {
	if err := f.st.Delete(ctx, f.path); err != nil {
		return ioError("delete", f.path, err)
	}
	f.log.Debug("file deleted", slog.String("path", f.path))
	return nil
}

// Rename moves the file to newName within its folder, resolving name
// collisions under policy. OpenIfExists is not meaningful for a rename
// and behaves like FailIfExists. Returns the handle at the new path;
// the receiver is stale afterwards.
func (f *File) Rename(ctx context.Context, newName string, policy CollisionPolicy) (*File, error) {
	if err := ValidateSegment(newName); err != nil {
		return nil, err
	}
	if policy == OpenIfExists {
		policy = FailIfExists
	}

	dir := filepath.Dir(f.path)
	finalName, action, err := resolveCollision(ctx, f.st, dir, newName, policy)
	if err != nil {
		return nil, translateError("rename", f.path, err)
	}
	switch action {
	case actionFail:
		return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, newName)
	case actionTruncate:
		// A replacing rename discards the target entry. Clearing it
		// first keeps folder targets behaving like file targets across
		// backends instead of relying on the backend's rename rules.
		if err := f.st.DeleteTree(ctx, filepath.Join(dir, finalName)); err != nil {
			return nil, translateError("rename", f.path, err)
		}
	}

	newPath := filepath.Join(dir, finalName)
	if err := f.st.Move(ctx, f.path, newPath); err != nil {
		return nil, ioError("rename", f.path, err)
	}

	f.log.Debug("file renamed",
		slog.String("path", f.path),
		slog.String("new_path", newPath),
		slog.String("policy", policy.String()))

	return &File{st: f.st, log: f.log, path: newPath, name: finalName}, nil
}
