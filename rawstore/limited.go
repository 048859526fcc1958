package rawstore

import (
	"context"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// LimitedStore wraps a Store and bounds its resource usage: at most
// maxConcurrent operations run at once, and operations are admitted at
// no more than opsPerSec. Streams returned by the inner store are
// passed through unchanged; limiting applies per operation, not per
// byte.
type LimitedStore struct {
	inner   Store
	sem     *semaphore.Weighted // nil if unlimited
	limiter *rate.Limiter       // nil if unlimited
}

// NewLimitedStore creates a new LimitedStore.
// maxConcurrent <= 0 disables the concurrency bound; opsPerSec <= 0
// disables rate limiting.
func NewLimitedStore(inner Store, maxConcurrent int64, opsPerSec float64) *LimitedStore {
	s := &LimitedStore{inner: inner}
	if maxConcurrent > 0 {
		s.sem = semaphore.NewWeighted(maxConcurrent)
	}
	if opsPerSec > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(opsPerSec), 1)
	}
	return s
}

// acquire admits one operation, honoring context cancellation while
// waiting. The returned release func must be called when the operation
// completes.
func (s *LimitedStore) acquire(ctx context.Context) (func(), error) {
	if s.sem != nil {
		if err := s.sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
	}
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			if s.sem != nil {
				s.sem.Release(1)
			}
			return nil, err
		}
	}
	release := func() {
		if s.sem != nil {
			s.sem.Release(1)
		}
	}
	return release, nil
}

func (s *LimitedStore) Exists(ctx context.Context, path string) (bool, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return false, err
	}
	defer release()
	return s.inner.Exists(ctx, path)
}

func (s *LimitedStore) CreateFile(ctx context.Context, path string) error {
	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	return s.inner.CreateFile(ctx, path)
}

func (s *LimitedStore) MkDir(ctx context.Context, path string) error {
	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	return s.inner.MkDir(ctx, path)
}

func (s *LimitedStore) OpenStream(ctx context.Context, path string, mode AccessMode) (Stream, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	return s.inner.OpenStream(ctx, path, mode)
}

func (s *LimitedStore) Delete(ctx context.Context, path string) error {
	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	return s.inner.Delete(ctx, path)
}

func (s *LimitedStore) DeleteTree(ctx context.Context, path string) error {
	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	return s.inner.DeleteTree(ctx, path)
}

func (s *LimitedStore) ListChildren(ctx context.Context, path string) ([]Entry, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	return s.inner.ListChildren(ctx, path)
}

func (s *LimitedStore) Move(ctx context.Context, oldPath, newPath string) error {
	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	return s.inner.Move(ctx, oldPath, newPath)
}
