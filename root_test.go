package appstorage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/appstorage/rawstore"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesBaseOnHostFilesystem(t *testing.T) {
	ctx := context.Background()
	base := filepath.Join(t.TempDir(), "vault")

	root, err := Open(ctx, base)
	require.NoError(t, err)
	require.Equal(t, "vault", root.Name())

	info, err := os.Stat(base)
	require.NoError(t, err)
	require.True(t, info.IsDir())

	// Files created through the root land under base.
	file, err := root.CreateFile(ctx, "data.txt", FailIfExists)
	require.NoError(t, err)
	require.NoError(t, file.WriteAllText(ctx, "on disk"))

	data, err := os.ReadFile(filepath.Join(base, "data.txt"))
	require.NoError(t, err)
	require.Equal(t, "on disk", string(data))
}

func TestOpen_CustomStoreRequiresExistingBase(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, "/elsewhere", WithStore(rawstore.NewMemStore("/sandbox")))
	require.ErrorIs(t, err, ErrNotFound)

	root, err := Open(ctx, "/sandbox", WithStore(rawstore.NewMemStore("/sandbox")))
	require.NoError(t, err)
	require.Equal(t, "sandbox", root.Name())
}

func TestOpen_WithLimits(t *testing.T) {
	ctx := context.Background()

	root, err := Open(ctx, "/sandbox",
		WithStore(rawstore.NewMemStore("/sandbox")),
		WithLimits(2, 1000))
	require.NoError(t, err)

	file, err := root.CreateFile(ctx, "data.txt", FailIfExists)
	require.NoError(t, err)
	require.NoError(t, file.WriteAllText(ctx, "throttled"))

	text, err := file.ReadAllText(ctx)
	require.NoError(t, err)
	require.Equal(t, "throttled", text)
}

func TestRoots_RejectInvalidAppName(t *testing.T) {
	ctx := context.Background()

	_, err := AppLocal(ctx, "bad/app")
	require.ErrorIs(t, err, ErrInvalidSegment)
	_, err = Roaming(ctx, "")
	require.ErrorIs(t, err, ErrInvalidSegment)
	_, err = Temp(ctx, "..")
	require.ErrorIs(t, err, ErrInvalidSegment)
}
