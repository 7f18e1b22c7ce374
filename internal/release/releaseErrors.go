package release

import (
	"errors"
	"fmt"
)

// IntegrityError reports a downloaded archive whose SHA-1 differs from the
// checksum the portal declared for it.
type IntegrityError struct {
	FileName string
	Expected string
	Actual   string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity check failed for %s: expected sha1 %s, got %s", e.FileName, e.Expected, e.Actual)
}

func (e *IntegrityError) Is(target error) bool {
	var t *IntegrityError
	if !errors.As(target, &t) {
		return false
	}
	return e.FileName == t.FileName
}
