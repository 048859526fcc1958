package appstorage

import "fmt"

// CollisionPolicy selects how CreateFile, CreateFolder and Rename
// resolve a name that already exists in the target folder. It is
// supplied per call and never stored on a handle.
type CollisionPolicy int

const (
	// FailIfExists aborts the operation with ErrAlreadyExists.
	FailIfExists CollisionPolicy = iota
	// ReplaceExisting discards the existing entry: files are truncated,
	// folders are removed recursively and recreated empty.
	ReplaceExisting
	// OpenIfExists returns a handle to the existing entry, preserving
	// its content.
	OpenIfExists
	// GenerateUniqueName picks the lowest-numbered free variant of the
	// name, "base (2).ext", "base (3).ext" and so on.
	GenerateUniqueName
)

// String implements fmt.Stringer.
func (p CollisionPolicy) String() string {
	switch p {
	case FailIfExists:
		return "fail-if-exists"
	case ReplaceExisting:
		return "replace-existing"
	case OpenIfExists:
		return "open-if-exists"
	case GenerateUniqueName:
		return "generate-unique-name"
	default:
		return fmt.Sprintf("collision-policy(%d)", int(p))
	}
}

// ParseCollisionPolicy converts a policy name as produced by String
// back into a CollisionPolicy. Used for flag and config parsing.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch s {
	case "fail-if-exists":
		return FailIfExists, nil
	case "replace-existing":
		return ReplaceExisting, nil
	case "open-if-exists":
		return OpenIfExists, nil
	case "generate-unique-name":
		return GenerateUniqueName, nil
	default:
		return 0, fmt.Errorf("unknown collision policy %q", s)
	}
}
