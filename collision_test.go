package appstorage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hupe1980/appstorage/rawstore"
	"github.com/stretchr/testify/require"
)

func TestSplitExtension(t *testing.T) {
	tests := []struct {
		name string
		base string
		ext  string
	}{
		{"report.txt", "report", ".txt"},
		{"a.b.txt", "a.b", ".txt"},
		{"foo", "foo", ""},
		{".profile", ".profile", ""},
		{"archive.tar.gz", "archive.tar", ".gz"},
	}
	for _, tt := range tests {
		base, ext := splitExtension(tt.name)
		require.Equal(t, tt.base, base, tt.name)
		require.Equal(t, tt.ext, ext, tt.name)
	}
}

func TestResolveCollision_NoConflictShortCircuits(t *testing.T) {
	ctx := context.Background()
	st := rawstore.NewMemStore("/sandbox")

	// Policy must not matter when the name is free.
	for _, policy := range []CollisionPolicy{FailIfExists, ReplaceExisting, OpenIfExists, GenerateUniqueName} {
		name, action, err := resolveCollision(ctx, st, "/sandbox", "new.txt", policy)
		require.NoError(t, err)
		require.Equal(t, "new.txt", name)
		require.Equal(t, actionCreateNew, action)
	}
}

func TestResolveCollision_PolicyBranches(t *testing.T) {
	ctx := context.Background()
	st := rawstore.NewMemStore("/sandbox")
	require.NoError(t, st.CreateFile(ctx, "/sandbox/taken.txt"))

	name, action, err := resolveCollision(ctx, st, "/sandbox", "taken.txt", FailIfExists)
	require.NoError(t, err)
	require.Equal(t, "taken.txt", name)
	require.Equal(t, actionFail, action)

	name, action, err = resolveCollision(ctx, st, "/sandbox", "taken.txt", ReplaceExisting)
	require.NoError(t, err)
	require.Equal(t, "taken.txt", name)
	require.Equal(t, actionTruncate, action)

	name, action, err = resolveCollision(ctx, st, "/sandbox", "taken.txt", OpenIfExists)
	require.NoError(t, err)
	require.Equal(t, "taken.txt", name)
	require.Equal(t, actionOpenExisting, action)
}

func TestResolveCollision_GenerateUniqueName(t *testing.T) {
	ctx := context.Background()
	st := rawstore.NewMemStore("/sandbox")
	require.NoError(t, st.CreateFile(ctx, "/sandbox/report.txt"))

	name, action, err := resolveCollision(ctx, st, "/sandbox", "report.txt", GenerateUniqueName)
	require.NoError(t, err)
	require.Equal(t, actionCreateNew, action)
	require.Equal(t, "report (2).txt", name)

	// The chosen name must not exist before the call, and the probe
	// must pick the lowest free number.
	require.NoError(t, st.CreateFile(ctx, "/sandbox/report (2).txt"))
	require.NoError(t, st.CreateFile(ctx, "/sandbox/report (3).txt"))

	name, _, err = resolveCollision(ctx, st, "/sandbox", "report.txt", GenerateUniqueName)
	require.NoError(t, err)
	require.Equal(t, "report (4).txt", name)

	exists, err := st.Exists(ctx, filepath.Join("/sandbox", name))
	require.NoError(t, err)
	require.False(t, exists)
}

func TestResolveCollision_GenerateUniqueNameFillsGaps(t *testing.T) {
	ctx := context.Background()
	st := rawstore.NewMemStore("/sandbox")
	require.NoError(t, st.CreateFile(ctx, "/sandbox/report.txt"))
	require.NoError(t, st.CreateFile(ctx, "/sandbox/report (3).txt"))

	name, _, err := resolveCollision(ctx, st, "/sandbox", "report.txt", GenerateUniqueName)
	require.NoError(t, err)
	require.Equal(t, "report (2).txt", name)
}

func TestResolveCollision_GenerateUniqueNameNoExtension(t *testing.T) {
	ctx := context.Background()
	st := rawstore.NewMemStore("/sandbox")
	require.NoError(t, st.CreateFile(ctx, "/sandbox/foo"))

	name, _, err := resolveCollision(ctx, st, "/sandbox", "foo", GenerateUniqueName)
	require.NoError(t, err)
	require.Equal(t, "foo (2)", name)
}

func TestResolveCollision_CancelledProbe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	st := rawstore.NewMemStore("/sandbox")
	require.NoError(t, st.CreateFile(context.Background(), "/sandbox/report.txt"))

	cancel()
	_, _, err := resolveCollision(ctx, st, "/sandbox", "report.txt", GenerateUniqueName)
	require.ErrorIs(t, err, context.Canceled)
}
