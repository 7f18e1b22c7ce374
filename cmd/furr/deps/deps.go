package deps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/furrctorio/furrctorio/cmd/furr/cmdutil"
	"github.com/furrctorio/furrctorio/internal/dependency"
	"github.com/furrctorio/furrctorio/internal/i18n"
	"github.com/furrctorio/furrctorio/internal/logger"
	"github.com/furrctorio/furrctorio/internal/perf"
	"github.com/furrctorio/furrctorio/internal/tui"
)

var errInvalidLines = errors.New("one or more dependency lines are invalid")

type depsOptions struct {
	Lines []string
	JSON  bool
	Quiet bool
}

type depsDeps struct {
	out    io.Writer
	logger *logger.Logger
}

type depsRunner func(context.Context, depsOptions, depsDeps) error

// parsedLine is the --json shape of one argument.
type parsedLine struct {
	Line    string `json:"line"`
	Name    string `json:"name,omitempty"`
	Prefix  string `json:"prefix,omitempty"`
	Version string `json:"version,omitempty"`
	Error   string `json:"error,omitempty"`
}

func Command() *cobra.Command {
	return commandWithRunner(runDeps)
}

func commandWithRunner(runner depsRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps <line>...",
		Short: i18n.T("cmd.deps.short"),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, span := perf.StartSpan(cmd.Context(), "app.command.deps", perf.WithAttributes(attribute.Int("lines", len(args))))
			defer span.End()

			global, err := cmdutil.ReadGlobalOptions(cmd)
			if err != nil {
				return err
			}
			asJSON, err := cmd.Flags().GetBool("json")
			if err != nil {
				return err
			}

			err = runner(ctx, depsOptions{Lines: args, JSON: asJSON, Quiet: global.Quiet}, depsDeps{
				out:    cmd.OutOrStdout(),
				logger: logger.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), global.Quiet, global.Debug),
			})
			span.SetAttributes(attribute.Bool("success", err == nil))
			return err
		},
	}

	cmd.Flags().Bool("json", false, i18n.T("cmd.deps.flag.json"))
	return cmd
}

func runDeps(_ context.Context, opts depsOptions, deps depsDeps) error {
	results := make([]parsedLine, 0, len(opts.Lines))
	failed := false

	for _, line := range opts.Lines {
		spec, err := dependency.Parse(line)
		if err != nil {
			failed = true
			results = append(results, parsedLine{Line: line, Error: err.Error()})
			deps.logger.Debug("dependency line rejected", "line", line, "err", err)
			continue
		}
		results = append(results, describe(spec))
	}

	if opts.JSON {
		encoder := json.NewEncoder(deps.out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(results); err != nil {
			return err
		}
	} else {
		colorize := tui.ShouldColorize(opts.Quiet, deps.out)
		for _, result := range results {
			printResult(deps.logger, result, colorize)
		}
	}

	if failed {
		return errInvalidLines
	}
	return nil
}

func describe(spec dependency.Spec) parsedLine {
	result := parsedLine{
		Line:   spec.String(),
		Name:   spec.Name,
		Prefix: spec.Prefix.String(),
	}
	if spec.RequiredVersion != nil {
		result.Version = spec.RequiredVersion.String()
	}
	return result
}

func printResult(log *logger.Logger, result parsedLine, colorize bool) {
	if result.Error != "" {
		log.Error(fmt.Sprintf("%s %s", tui.ErrorIcon(colorize), i18n.T("cmd.deps.invalid", i18n.Tvars{
			Data: &i18n.TData{"line": result.Line, "error": result.Error},
		})))
		return
	}

	version := result.Version
	if version == "" {
		version = i18n.T("cmd.deps.any_version")
	}
	log.Log(fmt.Sprintf("%s %s %s %s",
		tui.SuccessIcon(colorize),
		tui.Paint(tui.NameStyle, result.Name, colorize),
		tui.Paint(tui.VersionStyle, version, colorize),
		tui.Paint(tui.DimStyle, "("+result.Prefix+")", colorize),
	), false)
}
