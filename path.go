package appstorage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Combine joins an already-resolved base path with one or more name
// segments using the platform separator. Every segment is validated;
// the base is taken as-is. Pure string work, no I/O.
func Combine(base string, segments ...string) (string, error) {
	for _, seg := range segments {
		if err := ValidateSegment(seg); err != nil {
			return "", err
		}
	}
	return filepath.Join(append([]string{base}, segments...)...), nil
}

// ValidateSegment checks that seg can serve as a single path segment:
// non-empty and free of separator characters. Fails with
// ErrInvalidSegment.
func ValidateSegment(seg string) error {
	err := validation.Validate(seg,
		validation.Required.Error("must not be empty"),
		validation.By(noSeparators),
		validation.By(noDotNames),
	)
	if err != nil {
		return fmt.Errorf("%w: %q: %s", ErrInvalidSegment, seg, err)
	}
	return nil
}

func noSeparators(value interface{}) error {
	s, _ := value.(string)
	if strings.ContainsAny(s, `/\`) {
		return errors.New("must not contain a separator")
	}
	return nil
}

func noDotNames(value interface{}) error {
	s, _ := value.(string)
	if s == "." || s == ".." {
		return errors.New("must not be a relative reference")
	}
	return nil
}
