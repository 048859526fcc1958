package rawstore

import (
	"context"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
)

// MemStore is an in-memory Store implementation for tests and
// sandboxes. It keeps a flat map of cleaned path strings to entries
// and has no filesystem dependency. Thread-safe for concurrent use.
type MemStore struct {
	mu      sync.RWMutex
	entries map[string]*memEntry
}

type memEntry struct {
	dir  bool
	data []byte
}

// NewMemStore creates an in-memory store with a directory at root.
func NewMemStore(root string) *MemStore {
	return &MemStore{
		entries: map[string]*memEntry{
			filepath.Clean(root): {dir: true},
		},
	}
}

// Exists reports whether an entry exists at path.
func (m *MemStore) Exists(_ context.Context, path string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.entries[filepath.Clean(path)]
	return ok, nil
}

// CreateFile creates an empty file at path, truncating any existing file.
func (m *MemStore) CreateFile(_ context.Context, path string) error {
	path = filepath.Clean(path)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireDir(filepath.Dir(path), "create"); err != nil {
		return err
	}
	if e, ok := m.entries[path]; ok && e.dir {
		return &fs.PathError{Op: "create", Path: path, Err: fs.ErrExist}
	}
	m.entries[path] = &memEntry{}
	return nil
}

// MkDir creates a directory at path.
func (m *MemStore) MkDir(_ context.Context, path string) error {
	path = filepath.Clean(path)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireDir(filepath.Dir(path), "mkdir"); err != nil {
		return err
	}
	if _, ok := m.entries[path]; ok {
		return &fs.PathError{Op: "mkdir", Path: path, Err: fs.ErrExist}
	}
	m.entries[path] = &memEntry{dir: true}
	return nil
}

// OpenStream opens the file at path.
func (m *MemStore) OpenStream(_ context.Context, path string, mode AccessMode) (Stream, error) {
	path = filepath.Clean(path)

	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[path]
	if !ok || e.dir {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}

	// Streams operate on a copy; writable streams publish the copy back
	// on Close, so the last close wins like a final write would.
	data := make([]byte, len(e.data))
	copy(data, e.data)

	return &memStream{store: m, path: path, data: data, mode: mode}, nil
}

// Delete removes the file or empty directory at path.
func (m *MemStore) Delete(_ context.Context, path string) error {
	path = filepath.Clean(path)

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[path]
	if !ok {
		return &fs.PathError{Op: "remove", Path: path, Err: fs.ErrNotExist}
	}
	if e.dir && m.hasChildren(path) {
		return &fs.PathError{Op: "remove", Path: path, Err: fs.ErrInvalid}
	}
	delete(m.entries, path)
	return nil
}

// DeleteTree removes the entry at path recursively.
func (m *MemStore) DeleteTree(_ context.Context, path string) error {
	path = filepath.Clean(path)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[path]; !ok {
		return &fs.PathError{Op: "remove", Path: path, Err: fs.ErrNotExist}
	}
	prefix := path + string(filepath.Separator)
	for p := range m.entries {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(m.entries, p)
		}
	}
	return nil
}

// ListChildren returns the direct children of the directory at path.
func (m *MemStore) ListChildren(_ context.Context, path string) ([]Entry, error) {
	path = filepath.Clean(path)

	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.requireDir(path, "readdir"); err != nil {
		return nil, err
	}
	var entries []Entry
	for p, e := range m.entries {
		if filepath.Dir(p) == path && p != path {
			entries = append(entries, Entry{Name: filepath.Base(p), Dir: e.dir})
		}
	}
	return entries, nil
}

// Move renames oldPath to newPath, rewriting child paths for directories.
func (m *MemStore) Move(_ context.Context, oldPath, newPath string) error {
	oldPath = filepath.Clean(oldPath)
	newPath = filepath.Clean(newPath)

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[oldPath]
	if !ok {
		return &fs.PathError{Op: "rename", Path: oldPath, Err: fs.ErrNotExist}
	}
	if err := m.requireDir(filepath.Dir(newPath), "rename"); err != nil {
		return err
	}
	// Only a plain file may be replaced by a rename, matching os.Rename:
	// directory targets and file-over-dir or dir-over-file moves fail.
	if target, ok := m.entries[newPath]; ok && (target.dir || e.dir) {
		return &fs.PathError{Op: "rename", Path: newPath, Err: fs.ErrExist}
	}

	delete(m.entries, oldPath)
	m.entries[newPath] = e

	if e.dir {
		prefix := oldPath + string(filepath.Separator)
		for p, child := range m.entries {
			if strings.HasPrefix(p, prefix) {
				delete(m.entries, p)
				m.entries[newPath+string(filepath.Separator)+strings.TrimPrefix(p, prefix)] = child
			}
		}
	}
	return nil
}

// requireDir must be called with the lock held.
func (m *MemStore) requireDir(path, op string) error {
	e, ok := m.entries[filepath.Clean(path)]
	if !ok {
		return &fs.PathError{Op: op, Path: path, Err: fs.ErrNotExist}
	}
	if !e.dir {
		return &fs.PathError{Op: op, Path: path, Err: fs.ErrInvalid}
	}
	return nil
}

// hasChildren must be called with the lock held.
func (m *MemStore) hasChildren(path string) bool {
	prefix := path + string(filepath.Separator)
	for p := range m.entries {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

// memStream implements Stream over an in-memory byte slice.
type memStream struct {
	store  *MemStore
	path   string
	data   []byte
	off    int64
	mode   AccessMode
	closed bool
}

func (st *memStream) Read(p []byte) (int, error) {
	if st.closed {
		return 0, &fs.PathError{Op: "read", Path: st.path, Err: fs.ErrClosed}
	}
	if st.off >= int64(len(st.data)) {
		return 0, io.EOF
	}
	n := copy(p, st.data[st.off:])
	st.off += int64(n)
	return n, nil
}

func (st *memStream) Write(p []byte) (int, error) {
	if st.closed {
		return 0, &fs.PathError{Op: "write", Path: st.path, Err: fs.ErrClosed}
	}
	if st.mode != ReadWrite {
		return 0, &fs.PathError{Op: "write", Path: st.path, Err: fs.ErrPermission}
	}
	if end := st.off + int64(len(p)); end > int64(len(st.data)) {
		grown := make([]byte, end)
		copy(grown, st.data)
		st.data = grown
	}
	n := copy(st.data[st.off:], p)
	st.off += int64(n)
	return n, nil
}

func (st *memStream) Seek(offset int64, whence int) (int64, error) {
	if st.closed {
		return 0, &fs.PathError{Op: "seek", Path: st.path, Err: fs.ErrClosed}
	}
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = st.off
	case io.SeekEnd:
		base = int64(len(st.data))
	default:
		return 0, &fs.PathError{Op: "seek", Path: st.path, Err: fs.ErrInvalid}
	}
	pos := base + offset
	if pos < 0 {
		return 0, &fs.PathError{Op: "seek", Path: st.path, Err: fs.ErrInvalid}
	}
	st.off = pos
	return pos, nil
}

func (st *memStream) Truncate(size int64) error {
	if st.closed {
		return &fs.PathError{Op: "truncate", Path: st.path, Err: fs.ErrClosed}
	}
	if st.mode != ReadWrite {
		return &fs.PathError{Op: "truncate", Path: st.path, Err: fs.ErrPermission}
	}
	if size < 0 {
		return &fs.PathError{Op: "truncate", Path: st.path, Err: fs.ErrInvalid}
	}
	if size <= int64(len(st.data)) {
		st.data = st.data[:size]
		return nil
	}
	grown := make([]byte, size)
	copy(grown, st.data)
	st.data = grown
	return nil
}

func (st *memStream) Close() error {
	if st.closed {
		return &fs.PathError{Op: "close", Path: st.path, Err: fs.ErrClosed}
	}
	st.closed = true
	if st.mode != ReadWrite {
		return nil
	}

	st.store.mu.Lock()
	defer st.store.mu.Unlock()

	// Publish only if the file still exists; closing a stream must not
	// resurrect a deleted entry.
	if e, ok := st.store.entries[st.path]; ok && !e.dir {
		e.data = st.data
	}
	return nil
}

func (st *memStream) CanRead() bool  { return true }
func (st *memStream) CanWrite() bool { return st.mode == ReadWrite }
func (st *memStream) CanSeek() bool  { return true }
