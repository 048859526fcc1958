package rawstore

import (
	"context"
	"errors"
	"io/fs"
	"os"
)

// OSStore implements Store backed by the host filesystem.
//
// All paths are used as-is; callers are expected to pass resolved
// absolute paths. Errors are returned as *fs.PathError so callers can
// match them with errors.Is against fs.ErrNotExist and fs.ErrExist.
type OSStore struct{}

// NewOSStore creates a new host filesystem store.
func NewOSStore() *OSStore {
	return &OSStore{}
}

// Exists reports whether an entry exists at path.
func (s *OSStore) Exists(_ context.Context, path string) (bool, error) {
	_, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CreateFile creates an empty file at path, truncating any existing file.
func (s *OSStore) CreateFile(_ context.Context, path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}

// MkDir creates a directory at path. Fails if an entry already exists.
func (s *OSStore) MkDir(_ context.Context, path string) error {
	return os.Mkdir(path, 0o755)
}

// OpenStream opens the file at path with the requested access mode.
func (s *OSStore) OpenStream(_ context.Context, path string, mode AccessMode) (Stream, error) {
	flag := os.O_RDONLY
	if mode == ReadWrite {
		flag = os.O_RDWR
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, err
	}
	return &osStream{f: f, mode: mode}, nil
}

// Delete removes the file or empty directory at path.
func (s *OSStore) Delete(_ context.Context, path string) error {
	return os.Remove(path)
}

// DeleteTree removes the entry at path recursively.
func (s *OSStore) DeleteTree(_ context.Context, path string) error {
	// RemoveAll succeeds on absent paths; deleting something that is
	// already gone must fail instead.
	if _, err := os.Lstat(path); err != nil {
		return err
	}
	return os.RemoveAll(path)
}

// ListChildren returns the direct children of the directory at path.
func (s *OSStore) ListChildren(_ context.Context, path string) ([]Entry, error) {
	dirents, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		entries = append(entries, Entry{Name: d.Name(), Dir: d.IsDir()})
	}
	return entries, nil
}

// Move renames oldPath to newPath.
func (s *OSStore) Move(_ context.Context, oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

// osStream adapts *os.File to Stream, gating writes by access mode.
type osStream struct {
	f    *os.File
	mode AccessMode
}

func (st *osStream) Read(p []byte) (int, error) { return st.f.Read(p) }

func (st *osStream) Write(p []byte) (int, error) {
	if st.mode != ReadWrite {
		return 0, &fs.PathError{Op: "write", Path: st.f.Name(), Err: fs.ErrPermission}
	}
	return st.f.Write(p)
}

func (st *osStream) Seek(offset int64, whence int) (int64, error) {
	return st.f.Seek(offset, whence)
}

func (st *osStream) Truncate(size int64) error {
	if st.mode != ReadWrite {
		return &fs.PathError{Op: "truncate", Path: st.f.Name(), Err: fs.ErrPermission}
	}
	return st.f.Truncate(size)
}

func (st *osStream) Close() error { return st.f.Close() }

func (st *osStream) CanRead() bool  { return true }
func (st *osStream) CanWrite() bool { return st.mode == ReadWrite }
func (st *osStream) CanSeek() bool  { return true }
