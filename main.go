package main

import (
	"context"
	"errors"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/furrctorio/furrctorio/cmd/furr"
	"github.com/furrctorio/furrctorio/internal/lifecycle"
)

type interruptedError struct {
	signal os.Signal
}

func (e *interruptedError) Error() string {
	return "interrupted by " + e.signal.String()
}

type runDeps struct {
	execute    func(context.Context) error
	register   func(lifecycle.Handler) lifecycle.HandlerID
	unregister func(lifecycle.HandlerID)
}

func main() {
	os.Exit(runWithDeps(runDeps{
		execute:    furr.ExecuteContext,
		register:   lifecycle.Register,
		unregister: lifecycle.Unregister,
	}))
}

// runWithDeps runs the CLI with a context that the first interrupt cancels,
// and maps the outcome to an exit code.
func runWithDeps(deps runDeps) int {
	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)

	id := deps.register(func(sig os.Signal) {
		cancel(&interruptedError{signal: sig})
	})
	defer deps.unregister(id)

	err := deps.execute(ctx)

	var interrupted *interruptedError
	if errors.As(context.Cause(ctx), &interrupted) {
		return lifecycle.ExitCode(interrupted.signal)
	}
	if err != nil {
		return 1
	}
	return 0
}
