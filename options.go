package appstorage

import (
	"github.com/hupe1980/appstorage/rawstore"
)

type options struct {
	store         rawstore.Store
	logger        *Logger
	maxConcurrent int64
	opsPerSec     float64
}

// Option configures root construction.
type Option func(*options)

// WithStore binds the root to a specific raw storage backend instead
// of the host filesystem. Useful for sandboxed tests (rawstore.MemStore)
// or custom backends.
func WithStore(st rawstore.Store) Option {
	return func(o *options) {
		o.store = st
	}
}

// WithLogger configures structured logging for handle operations.
// If nil is passed, logging stays disabled.
//
// Example:
//
//	logger := appstorage.NewJSONLogger(slog.LevelDebug)
//	root, _ := appstorage.AppLocal(ctx, "myapp", appstorage.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithLimits bounds the root's raw storage usage: at most maxConcurrent
// operations in flight and at most opsPerSec operations admitted per
// second. Zero disables the respective bound.
func WithLimits(maxConcurrent int64, opsPerSec float64) Option {
	return func(o *options) {
		o.maxConcurrent = maxConcurrent
		o.opsPerSec = opsPerSec
	}
}

func applyOptions(opts []Option) *options {
	o := &options{
		logger: NoopLogger(),
	}
	for _, fn := range opts {
		fn(o)
	}
	return o
}
