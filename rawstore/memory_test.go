package rawstore

import (
	"context"
	"io"
	"io/fs"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemStore_Lifecycle(t *testing.T) {
	store := NewMemStore("/root")
	ctx := context.Background()

	require.NoError(t, store.CreateFile(ctx, "/root/data.txt"))
	require.NoError(t, store.MkDir(ctx, "/root/sub"))
	require.NoError(t, store.CreateFile(ctx, "/root/sub/inner.txt"))

	entries, err := store.ListChildren(ctx, "/root")
	require.NoError(t, err)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	require.Equal(t, []Entry{{Name: "data.txt"}, {Name: "sub", Dir: true}}, entries)

	require.NoError(t, store.Move(ctx, "/root/sub", "/root/moved"))
	exists, err := store.Exists(ctx, "/root/moved/inner.txt")
	require.NoError(t, err)
	require.True(t, exists)

	require.NoError(t, store.DeleteTree(ctx, "/root/moved"))
	require.ErrorIs(t, store.DeleteTree(ctx, "/root/moved"), fs.ErrNotExist)

	require.NoError(t, store.Delete(ctx, "/root/data.txt"))
	require.ErrorIs(t, store.Delete(ctx, "/root/data.txt"), fs.ErrNotExist)
}

func TestMemStore_MoveRefusesDirectoryTargets(t *testing.T) {
	store := NewMemStore("/root")
	ctx := context.Background()

	require.NoError(t, store.MkDir(ctx, "/root/dir"))
	require.NoError(t, store.CreateFile(ctx, "/root/dir/inner.txt"))
	require.NoError(t, store.CreateFile(ctx, "/root/file.txt"))

	// File over directory and directory over file both fail, like
	// os.Rename.
	require.ErrorIs(t, store.Move(ctx, "/root/file.txt", "/root/dir"), fs.ErrExist)
	require.ErrorIs(t, store.Move(ctx, "/root/dir", "/root/file.txt"), fs.ErrExist)

	// Nothing was disturbed by the refused moves.
	entries, err := store.ListChildren(ctx, "/root/dir")
	require.NoError(t, err)
	require.Equal(t, []Entry{{Name: "inner.txt"}}, entries)
	exists, err := store.Exists(ctx, "/root/file.txt")
	require.NoError(t, err)
	require.True(t, exists)
}

func TestMemStore_ParentMustExist(t *testing.T) {
	store := NewMemStore("/root")
	ctx := context.Background()

	require.ErrorIs(t, store.CreateFile(ctx, "/root/nope/data.txt"), fs.ErrNotExist)
	require.ErrorIs(t, store.MkDir(ctx, "/root/nope/sub"), fs.ErrNotExist)
}

func TestMemStore_DeleteNonEmptyDirFails(t *testing.T) {
	store := NewMemStore("/root")
	ctx := context.Background()

	require.NoError(t, store.MkDir(ctx, "/root/sub"))
	require.NoError(t, store.CreateFile(ctx, "/root/sub/inner.txt"))

	require.Error(t, store.Delete(ctx, "/root/sub"))
	require.NoError(t, store.DeleteTree(ctx, "/root/sub"))
}

func TestMemStore_StreamWriteBackOnClose(t *testing.T) {
	store := NewMemStore("/root")
	ctx := context.Background()

	require.NoError(t, store.CreateFile(ctx, "/root/data.txt"))

	w, err := store.OpenStream(ctx, "/root/data.txt", ReadWrite)
	require.NoError(t, err)
	_, err = w.Write([]byte("published"))
	require.NoError(t, err)

	// Not visible until the stream closes.
	r, err := store.OpenStream(ctx, "/root/data.txt", Read)
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Empty(t, data)
	require.NoError(t, r.Close())

	require.NoError(t, w.Close())

	r, err = store.OpenStream(ctx, "/root/data.txt", Read)
	require.NoError(t, err)
	defer r.Close()
	data, err = io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "published", string(data))
}

func TestMemStore_CloseDoesNotResurrectDeleted(t *testing.T) {
	store := NewMemStore("/root")
	ctx := context.Background()

	require.NoError(t, store.CreateFile(ctx, "/root/data.txt"))

	w, err := store.OpenStream(ctx, "/root/data.txt", ReadWrite)
	require.NoError(t, err)
	_, err = w.Write([]byte("ghost"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "/root/data.txt"))
	require.NoError(t, w.Close())

	exists, err := store.Exists(ctx, "/root/data.txt")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestMemStream_SeekAndTruncate(t *testing.T) {
	store := NewMemStore("/root")
	ctx := context.Background()

	require.NoError(t, store.CreateFile(ctx, "/root/data.txt"))

	s, err := store.OpenStream(ctx, "/root/data.txt", ReadWrite)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Write([]byte("hello world"))
	require.NoError(t, err)

	pos, err := s.Seek(-5, io.SeekEnd)
	require.NoError(t, err)
	require.Equal(t, int64(6), pos)

	rest, err := io.ReadAll(s)
	require.NoError(t, err)
	require.Equal(t, "world", string(rest))

	require.NoError(t, s.Truncate(5))
	_, err = s.Seek(0, io.SeekStart)
	require.NoError(t, err)
	all, err := io.ReadAll(s)
	require.NoError(t, err)
	require.Equal(t, "hello", string(all))

	_, err = s.Seek(-1, io.SeekStart)
	require.ErrorIs(t, err, fs.ErrInvalid)
}

func TestMemStream_RejectsUseAfterClose(t *testing.T) {
	store := NewMemStore("/root")
	ctx := context.Background()

	require.NoError(t, store.CreateFile(ctx, "/root/data.txt"))

	s, err := store.OpenStream(ctx, "/root/data.txt", ReadWrite)
	require.NoError(t, err)
	_, err = s.Write([]byte("kept"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.Read(make([]byte, 1))
	require.ErrorIs(t, err, fs.ErrClosed)
	_, err = s.Write([]byte("lost"))
	require.ErrorIs(t, err, fs.ErrClosed)
	_, err = s.Seek(0, io.SeekStart)
	require.ErrorIs(t, err, fs.ErrClosed)
	require.ErrorIs(t, s.Truncate(0), fs.ErrClosed)
	require.ErrorIs(t, s.Close(), fs.ErrClosed)

	// The rejected write did not reach the store.
	r, err := store.OpenStream(ctx, "/root/data.txt", Read)
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "kept", string(data))
}

func TestMemStore_OpenDirFails(t *testing.T) {
	store := NewMemStore("/root")
	ctx := context.Background()

	require.NoError(t, store.MkDir(ctx, "/root/sub"))
	_, err := store.OpenStream(ctx, "/root/sub", Read)
	require.ErrorIs(t, err, fs.ErrNotExist)
}
