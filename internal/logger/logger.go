// Package logger writes the CLI's user-facing output and its debug trail.
//
// Log and Error print plain lines meant for people. Debug goes through a
// charmbracelet/log logger on the error stream so it never mixes with output
// that scripts may parse.
package logger

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

type Logger struct {
	out   io.Writer
	err   io.Writer
	quiet bool
	debug bool
	diag  *log.Logger
}

func New(out io.Writer, err io.Writer, quiet bool, debug bool) *Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}

	return &Logger{
		out:   out,
		err:   err,
		quiet: quiet,
		debug: debug,
		diag: log.NewWithOptions(err, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// Discard is a Logger that prints nothing, for library callers and tests.
func Discard() *Logger {
	return New(io.Discard, io.Discard, true, false)
}

// Log prints a line unless quiet is set. forceShow and debug both override quiet.
func (logger *Logger) Log(message string, forceShow bool) {
	if logger.quiet && !forceShow && !logger.debug {
		return
	}
	_, _ = fmt.Fprintln(logger.out, message)
}

// Debug records a diagnostic with optional key/value pairs.
func (logger *Logger) Debug(message string, keyvals ...interface{}) {
	if !logger.debug {
		return
	}
	logger.diag.Debug(message, keyvals...)
}

func (logger *Logger) Error(message string) {
	_, _ = fmt.Fprintln(logger.err, message)
}

func (logger *Logger) Errorf(format string, args ...any) {
	_, _ = fmt.Fprintf(logger.err, format, args...)
}

func (logger *Logger) IsQuiet() bool {
	return logger.quiet
}

type ctxKey struct{}

func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger stored by WithLogger, or Discard().
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(ctxKey{}).(*Logger); ok && logger != nil {
		return logger
	}
	return Discard()
}
