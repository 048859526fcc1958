package appstorage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hupe1980/appstorage/rawstore"
)

// collisionAction is the resolver's verdict on how a create proceeds.
type collisionAction int

const (
	// actionCreateNew creates a new empty entry under the final name.
	actionCreateNew collisionAction = iota
	// actionTruncate discards the existing entry and recreates it.
	actionTruncate
	// actionOpenExisting returns a handle to the existing entry as-is.
	actionOpenExisting
	// actionFail aborts with ErrAlreadyExists.
	actionFail
)

// resolveCollision decides the final name and action for creating an
// entry named name inside dir under policy. Absence of a conflict
// short-circuits: no policy branch is taken when the name is free.
//
// GenerateUniqueName probes "base (2).ext", "base (3).ext", … in
// ascending order and settles on the first free candidate. The probe
// has no upper bound; a caller that has numbered collisions without
// end can bail out through ctx.
func resolveCollision(ctx context.Context, st rawstore.Store, dir, name string, policy CollisionPolicy) (string, collisionAction, error) {
	exists, err := st.Exists(ctx, filepath.Join(dir, name))
	if err != nil {
		return "", actionFail, err
	}
	if !exists {
		return name, actionCreateNew, nil
	}

	switch policy {
	case FailIfExists:
		return name, actionFail, nil
	case ReplaceExisting:
		return name, actionTruncate, nil
	case OpenIfExists:
		return name, actionOpenExisting, nil
	case GenerateUniqueName:
		base, ext := splitExtension(name)
		for n := 2; ; n++ {
			if err := ctx.Err(); err != nil {
				return "", actionFail, err
			}
			candidate := fmt.Sprintf("%s (%d)%s", base, n, ext)
			exists, err := st.Exists(ctx, filepath.Join(dir, candidate))
			if err != nil {
				return "", actionFail, err
			}
			if !exists {
				return candidate, actionCreateNew, nil
			}
		}
	default:
		return "", actionFail, fmt.Errorf("unknown collision policy %d", int(policy))
	}
}

// splitExtension splits name at the last dot. A name without a dot, or
// whose only dot leads (".profile"), has no extension: the numeric
// disambiguator goes at the very end.
func splitExtension(name string) (base, ext string) {
	i := strings.LastIndex(name, ".")
	if i <= 0 {
		return name, ""
	}
	return name[:i], name[i:]
}
