package tui

import (
	"io"

	"github.com/charmbracelet/x/term"
)

type fdWriter interface {
	Fd() uintptr
}

var isTerminalFunc = term.IsTerminal

// SetIsTerminalFuncForTesting overrides terminal detection and returns a
// restore function.
func SetIsTerminalFuncForTesting(fn func(uintptr) bool) func() {
	previous := isTerminalFunc
	isTerminalFunc = fn
	return func() {
		isTerminalFunc = previous
	}
}

// IsTerminalWriter reports whether the writer wraps a file descriptor bound to a terminal.
func IsTerminalWriter(writer io.Writer) bool {
	if w, ok := writer.(fdWriter); ok {
		return isTerminalFunc(w.Fd())
	}
	return false
}

// ShouldColorize decides whether command output gets styles and icons.
func ShouldColorize(quiet bool, out io.Writer) bool {
	return !quiet && IsTerminalWriter(out)
}
