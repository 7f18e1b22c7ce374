package versioning

import (
	"errors"
	"fmt"
)

// VersionError is returned when a raw version token cannot be reconciled with
// the legacy rewrite rule and therefore cannot be compared at all.
type VersionError struct {
	Version string
	Range   string
	Err     error
}

func (e *VersionError) Error() string {
	if e.Range == "" {
		return fmt.Sprintf("version %q cannot be compared", e.Version)
	}
	return fmt.Sprintf("version %q cannot be compared against %s", e.Version, e.Range)
}

func (e *VersionError) Is(target error) bool {
	var t *VersionError
	if !errors.As(target, &t) {
		return false
	}
	return e.Version == t.Version && e.Range == t.Range
}

func (e *VersionError) Unwrap() error {
	return e.Err
}

type RangeError struct {
	Expression string
	Reason     string
	Err        error
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid version range %q: %s", e.Expression, e.Reason)
}

func (e *RangeError) Unwrap() error {
	return e.Err
}
