package rawstore

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// gateStore counts concurrent operations passing through it.
type gateStore struct {
	Store
	inFlight atomic.Int64
	peak     atomic.Int64
	release  chan struct{}
}

func (g *gateStore) Exists(ctx context.Context, path string) (bool, error) {
	n := g.inFlight.Add(1)
	defer g.inFlight.Add(-1)
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			break
		}
	}
	<-g.release
	return g.Store.Exists(ctx, path)
}

func TestLimitedStore_BoundsConcurrency(t *testing.T) {
	ctx := context.Background()
	gate := &gateStore{Store: NewMemStore("/root"), release: make(chan struct{})}
	limited := NewLimitedStore(gate, 2, 0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = limited.Exists(ctx, "/root")
		}()
	}
	close(gate.release)
	wg.Wait()

	require.LessOrEqual(t, gate.peak.Load(), int64(2))
}

func TestLimitedStore_PassesThrough(t *testing.T) {
	ctx := context.Background()
	limited := NewLimitedStore(NewMemStore("/root"), 4, 1000)

	require.NoError(t, limited.CreateFile(ctx, "/root/data.txt"))
	exists, err := limited.Exists(ctx, "/root/data.txt")
	require.NoError(t, err)
	require.True(t, exists)

	require.NoError(t, limited.MkDir(ctx, "/root/sub"))
	entries, err := limited.ListChildren(ctx, "/root")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.NoError(t, limited.Move(ctx, "/root/data.txt", "/root/sub/data.txt"))
	require.NoError(t, limited.Delete(ctx, "/root/sub/data.txt"))
	require.NoError(t, limited.DeleteTree(ctx, "/root/sub"))
}

func TestLimitedStore_HonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	limited := NewLimitedStore(NewMemStore("/root"), 1, 1)
	_, err := limited.Exists(ctx, "/root")
	require.ErrorIs(t, err, context.Canceled)
}
