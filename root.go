package appstorage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hupe1980/appstorage/rawstore"
)

// Open returns a root folder over the directory at base. With the
// default host-filesystem store the directory is created if missing,
// so the root always resolves to a stable, existing base path. A
// custom store supplied via WithStore is expected to contain base
// already; Open fails with ErrNotFound otherwise.
func Open(ctx context.Context, base string, opts ...Option) (*Folder, error) {
	o := applyOptions(opts)

	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, ioError("open root", base, err)
	}

	if o.store == nil {
		if err := os.MkdirAll(abs, 0o755); err != nil {
			return nil, ioError("open root", abs, err)
		}
		o.store = rawstore.NewOSStore()
	} else {
		exists, err := o.store.Exists(ctx, abs)
		if err != nil {
			return nil, translateError("open root", abs, err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: root %s", ErrNotFound, abs)
		}
	}

	st := o.store
	if o.maxConcurrent > 0 || o.opsPerSec > 0 {
		st = rawstore.NewLimitedStore(st, o.maxConcurrent, o.opsPerSec)
	}

	return &Folder{st: st, log: o.logger, path: abs, name: filepath.Base(abs)}, nil
}

// AppLocal returns the machine-local storage root for app, under the
// user's cache directory. Created on first use.
func AppLocal(ctx context.Context, app string, opts ...Option) (*Folder, error) {
	base, err := userDir(os.UserCacheDir, app)
	if err != nil {
		return nil, err
	}
	return Open(ctx, base, opts...)
}

// Roaming returns the roaming storage root for app, under the user's
// config directory (the part of the profile that roams with the user
// on platforms that support it). Created on first use.
func Roaming(ctx context.Context, app string, opts ...Option) (*Folder, error) {
	base, err := userDir(os.UserConfigDir, app)
	if err != nil {
		return nil, err
	}
	return Open(ctx, base, opts...)
}

// Temp returns a storage root for app under the system temporary
// directory. Contents may not survive reboots.
func Temp(ctx context.Context, app string, opts ...Option) (*Folder, error) {
	if err := ValidateSegment(app); err != nil {
		return nil, err
	}
	return Open(ctx, filepath.Join(os.TempDir(), app), opts...)
}

func userDir(resolve func() (string, error), app string) (string, error) {
	if err := ValidateSegment(app); err != nil {
		return "", err
	}
	dir, err := resolve()
	if err != nil {
		return "", ioError("resolve root", app, err)
	}
	return filepath.Join(dir, app), nil
}
