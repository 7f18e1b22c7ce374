package dependency

import (
	"errors"
	"fmt"
)

type ParseError struct {
	Line   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %q", e.Reason, e.Line)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	var t *ParseError
	if !errors.As(target, &t) {
		return false
	}
	return e.Line == t.Line && e.Reason == t.Reason
}

type InvalidPrefixError struct {
	Marker string
}

func (e *InvalidPrefixError) Error() string {
	return fmt.Sprintf("invalid prefix: %q", e.Marker)
}

func (e *InvalidPrefixError) Is(target error) bool {
	t, ok := target.(*InvalidPrefixError)
	if !ok {
		return false
	}
	return e.Marker == t.Marker
}
