package appstorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/hupe1980/appstorage/rawstore"
	"golang.org/x/sync/errgroup"
)

// copyConcurrency bounds parallel file copies in CopyTo to avoid FD
// exhaustion on wide folders.
const copyConcurrency = 8

// Folder is a handle to a directory at a resolved path. Handles hold
// no live references to parents or children; every navigation
// recombines a path and re-queries the store.
type Folder struct {
	st   rawstore.Store
	log  *Logger
	path string
	name string
}

// Path returns the resolved absolute path of the folder.
func (f *Folder) Path() string { return f.path }

// Name returns the last path segment of the folder.
func (f *Folder) Name() string { return f.name }

// CreateFile creates a file named name in the folder, resolving name
// collisions under policy. The returned handle's path is always
// Combine(folder.Path(), finalName). A create that fails leaves the
// existing entry untouched.
func (f *Folder) CreateFile(ctx context.Context, name string, policy CollisionPolicy) (*File, error) {
	finalName, action, err := f.resolve(ctx, name, policy)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(f.path, finalName)
	switch action {
	case actionCreateNew:
		if err := f.st.CreateFile(ctx, path); err != nil {
			return nil, translateError("create file", path, err)
		}
	case actionTruncate:
		// ReplaceExisting discards the existing entry whatever it is;
		// a folder under the name is removed before the file is created.
		existing, err := f.child(ctx, finalName)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		if err == nil && existing.Dir {
			if err := f.st.DeleteTree(ctx, path); err != nil {
				return nil, translateError("create file", path, err)
			}
		}
		if err := f.st.CreateFile(ctx, path); err != nil {
			return nil, translateError("create file", path, err)
		}
	case actionOpenExisting:
		// Existing content is preserved; the handle simply points at
		// it. A folder under the name cannot be opened as a file.
		existing, err := f.child(ctx, finalName)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		if err == nil && existing.Dir {
			return nil, fmt.Errorf("%w: %s is a folder", ErrAlreadyExists, finalName)
		}
	}

	f.log.Debug("file created",
		slog.String("path", path),
		slog.String("policy", policy.String()))

	return &File{st: f.st, log: f.log, path: path, name: finalName}, nil
}

// CreateFolder creates a subfolder named name, resolving name
// collisions under policy. ReplaceExisting removes the existing folder
// and its contents and recreates it empty.
func (f *Folder) CreateFolder(ctx context.Context, name string, policy CollisionPolicy) (*Folder, error) {
	finalName, action, err := f.resolve(ctx, name, policy)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(f.path, finalName)
	switch action {
	case actionCreateNew:
		if err := f.st.MkDir(ctx, path); err != nil {
			return nil, translateError("create folder", path, err)
		}
	case actionTruncate:
		if err := f.st.DeleteTree(ctx, path); err != nil {
			return nil, translateError("replace folder", path, err)
		}
		if err := f.st.MkDir(ctx, path); err != nil {
			return nil, translateError("replace folder", path, err)
		}
	case actionOpenExisting:
		// A file under the name cannot be opened as a folder.
		existing, err := f.child(ctx, finalName)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		if err == nil && !existing.Dir {
			return nil, fmt.Errorf("%w: %s is a file", ErrAlreadyExists, finalName)
		}
	}

	f.log.Debug("folder created",
		slog.String("path", path),
		slog.String("policy", policy.String()))

	return &Folder{st: f.st, log: f.log, path: path, name: finalName}, nil
}

// resolve validates name and runs the collision protocol, mapping a
// fail verdict onto ErrAlreadyExists.
func (f *Folder) resolve(ctx context.Context, name string, policy CollisionPolicy) (string, collisionAction, error) {
	if err := ValidateSegment(name); err != nil {
		return "", actionFail, err
	}
	finalName, action, err := resolveCollision(ctx, f.st, f.path, name, policy)
	if err != nil {
		return "", actionFail, translateError("resolve", filepath.Join(f.path, name), err)
	}
	if action == actionFail {
		return "", actionFail, fmt.Errorf("%w: %s", ErrAlreadyExists, name)
	}
	return finalName, action, nil
}

// File returns a handle to the existing file named name. Fails with
// ErrNotFound when no file of that name exists; it never creates one.
func (f *Folder) File(ctx context.Context, name string) (*File, error) {
	entry, err := f.child(ctx, name)
	if err != nil {
		return nil, err
	}
	if entry.Dir {
		return nil, fmt.Errorf("%w: %s is a folder", ErrNotFound, name)
	}
	return &File{st: f.st, log: f.log, path: filepath.Join(f.path, name), name: name}, nil
}

// Folder returns a handle to the existing subfolder named name. Fails
// with ErrNotFound when no folder of that name exists.
func (f *Folder) Folder(ctx context.Context, name string) (*Folder, error) {
	entry, err := f.child(ctx, name)
	if err != nil {
		return nil, err
	}
	if !entry.Dir {
		return nil, fmt.Errorf("%w: %s is a file", ErrNotFound, name)
	}
	return &Folder{st: f.st, log: f.log, path: filepath.Join(f.path, name), name: name}, nil
}

func (f *Folder) child(ctx context.Context, name string) (rawstore.Entry, error) {
	if err := ValidateSegment(name); err != nil {
		return rawstore.Entry{}, err
	}
	entries, err := f.st.ListChildren(ctx, f.path)
	if err != nil {
		return rawstore.Entry{}, translateError("lookup", f.path, err)
	}
	for _, e := range entries {
		if e.Name == name {
			return e, nil
		}
	}
	return rawstore.Entry{}, fmt.Errorf("%w: %s", ErrNotFound, filepath.Join(f.path, name))
}

// Files returns handles for the files currently in the folder, sorted
// by name. The result is a point-in-time snapshot, not a live view.
func (f *Folder) Files(ctx context.Context) ([]*File, error) {
	entries, err := f.list(ctx)
	if err != nil {
		return nil, err
	}
	var files []*File
	for _, e := range entries {
		if e.Dir {
			continue
		}
		files = append(files, &File{st: f.st, log: f.log, path: filepath.Join(f.path, e.Name), name: e.Name})
	}
	return files, nil
}

// Folders returns handles for the subfolders currently in the folder,
// sorted by name. A snapshot like Files.
func (f *Folder) Folders(ctx context.Context) ([]*Folder, error) {
	entries, err := f.list(ctx)
	if err != nil {
		return nil, err
	}
	var folders []*Folder
	for _, e := range entries {
		if !e.Dir {
			continue
		}
		folders = append(folders, &Folder{st: f.st, log: f.log, path: filepath.Join(f.path, e.Name), name: e.Name})
	}
	return folders, nil
}

func (f *Folder) list(ctx context.Context) ([]rawstore.Entry, error) {
	entries, err := f.st.ListChildren(ctx, f.path)
	if err != nil {
		return nil, translateError("list", f.path, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Delete removes the folder and everything in it. Deleting an
// already-deleted folder fails with *IOError.
func (f *Folder) Delete(ctx context.Context) error {
	if err := f.st.DeleteTree(ctx, f.path); err != nil {
		return ioError("delete", f.path, err)
	}
	f.log.Debug("folder deleted", slog.String("path", f.path))
	return nil
}

// Rename moves the folder to newName within its parent, resolving name
// collisions under policy. OpenIfExists behaves like FailIfExists.
// Returns the handle at the new path; the receiver is stale afterwards.
func (f *Folder) Rename(ctx context.Context, newName string, policy CollisionPolicy) (*Folder, error) {
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
		// Renaming over a directory does not replace it the way a file
		// rename does; clear the target first.
		if err := f.st.DeleteTree(ctx, filepath.Join(dir, finalName)); err != nil {
			return nil, translateError("rename", f.path, err)
		}
	}

	newPath := filepath.Join(dir, finalName)
	if err := f.st.Move(ctx, f.path, newPath); err != nil {
		return nil, ioError("rename", f.path, err)
	}

	f.log.Debug("folder renamed",
		slog.String("path", f.path),
		slog.String("new_path", newPath),
		slog.String("policy", policy.String()))

	return &Folder{st: f.st, log: f.log, path: newPath, name: finalName}, nil
}

// CopyTo copies the folder's contents into dst: files at this level
// concurrently, subfolders by recursion. Each copied entry is created
// in dst under the same name with policy deciding collisions.
func (f *Folder) CopyTo(ctx context.Context, dst *Folder, policy CollisionPolicy) error {
	files, err := f.Files(ctx)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(copyConcurrency)
	for _, src := range files {
		src := src
		g.Go(func() error {
			return copyFile(gctx, src, dst, policy)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	folders, err := f.Folders(ctx)
	if err != nil {
		return err
	}
	for _, sub := range folders {
		target, err := dst.CreateFolder(ctx, sub.Name(), policy)
		if err != nil {
			return err
		}
		if err := sub.CopyTo(ctx, target, policy); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(ctx context.Context, src *File, dst *Folder, policy CollisionPolicy) error {
	// Under OpenIfExists an existing destination keeps its content, so
	// there is nothing to write.
	if policy == OpenIfExists {
		if _, err := dst.File(ctx, src.Name()); err == nil {
			return nil
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}
	}

	in, err := src.Open(ctx, rawstore.Read)
	if err != nil {
		return err
	}
	defer in.Close()

	target, err := dst.CreateFile(ctx, src.Name(), policy)
	if err != nil {
		return err
	}
	out, err := target.Open(ctx, rawstore.ReadWrite)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := out.Truncate(0); err != nil {
		return ioError("copy", target.Path(), err)
	}
	if _, err := io.Copy(out, in); err != nil {
		return ioError("copy", target.Path(), err)
	}
	return nil
}
