package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/furrctorio/furrctorio/cmd/furr/cmdutil"
	"github.com/furrctorio/furrctorio/internal/config"
	"github.com/furrctorio/furrctorio/internal/environment"
	"github.com/furrctorio/furrctorio/internal/i18n"
	"github.com/furrctorio/furrctorio/internal/logger"
	"github.com/furrctorio/furrctorio/internal/models"
	"github.com/furrctorio/furrctorio/internal/perf"
	"github.com/furrctorio/furrctorio/internal/resolver"
	"github.com/furrctorio/furrctorio/internal/tui"
)

var errResolveFailures = errors.New("one or more mods could not be resolved")

type resolveOptions struct {
	ConfigPath string
	Quiet      bool
	Debug      bool
	ShowDeps   bool
	DryRun     bool
}

type resolveDeps struct {
	fs          afero.Fs
	logger      *logger.Logger
	portal      resolver.Portal
	concurrency int
	colorize    bool
}

type Result struct {
	Resolved  int
	Unmatched int
	Failed    int
}

type resolveRunner func(context.Context, resolveOptions, resolveDeps) (Result, error)

func Command() *cobra.Command {
	return commandWithRunner(runResolve)
}

func commandWithRunner(runner resolveRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: i18n.T("cmd.resolve.short"),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, span := perf.StartSpan(cmd.Context(), "app.command.resolve")
			defer span.End()

			global, err := cmdutil.ReadGlobalOptions(cmd)
			if err != nil {
				return err
			}
			showDeps, err := cmd.Flags().GetBool("deps")
			if err != nil {
				return err
			}
			dryRun, err := cmd.Flags().GetBool("dry-run")
			if err != nil {
				return err
			}

			settings, err := environment.Load()
			if err != nil {
				return err
			}
			fs := afero.NewOsFs()
			portal, closeCache, err := cmdutil.NewPortalClient(settings, fs)
			if err != nil {
				return err
			}
			defer func() { _ = closeCache() }()

			result, err := runner(ctx, resolveOptions{
				ConfigPath: global.ConfigPath,
				Quiet:      global.Quiet,
				Debug:      global.Debug,
				ShowDeps:   showDeps,
				DryRun:     dryRun,
			}, resolveDeps{
				fs:          fs,
				logger:      logger.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), global.Quiet, global.Debug),
				portal:      portal,
				concurrency: settings.Concurrency,
				colorize:    tui.ShouldColorize(global.Quiet, cmd.OutOrStdout()),
			})
			span.SetAttributes(
				attribute.Bool("success", err == nil),
				attribute.Int("resolved", result.Resolved),
				attribute.Int("failed", result.Failed),
			)
			return err
		},
	}

	cmd.Flags().Bool("deps", false, i18n.T("cmd.resolve.flag.deps"))
	cmd.Flags().BoolP("dry-run", "n", false, i18n.T("cmd.resolve.flag.dry_run"))
	return cmd
}

func runResolve(ctx context.Context, opts resolveOptions, deps resolveDeps) (Result, error) {
	meta := config.NewMetadata(opts.ConfigPath)

	cfg, err := config.ReadConfig(ctx, deps.fs, meta)
	if err != nil {
		return Result{}, err
	}

	lock := []models.LockEntry{}
	if !opts.DryRun {
		lock, err = config.EnsureLock(ctx, deps.fs, meta)
		if err != nil {
			return Result{}, err
		}
	}

	resolutions, err := resolver.Resolve(ctx, deps.portal, cfg.Mods, resolver.Options{Concurrency: deps.concurrency})
	if err != nil {
		return Result{}, err
	}

	colorize := deps.colorize
	result := Result{}
	for _, resolution := range resolutions {
		switch {
		case resolution.Err != nil:
			result.Failed++
			deps.logger.Error(fmt.Sprintf("%s %s", tui.ErrorIcon(colorize), i18n.T("cmd.resolve.failed", i18n.Tvars{
				Data: &i18n.TData{"name": resolution.Entry.Name, "error": resolution.Err.Error()},
			})))
		case resolution.Release == nil:
			result.Unmatched++
			deps.logger.Log(fmt.Sprintf("%s %s", tui.WarningIcon(colorize), i18n.T("cmd.resolve.no_match", i18n.Tvars{
				Data: &i18n.TData{"name": resolution.Entry.Name, "range": rangeText(resolution.Entry)},
			})), false)
		default:
			result.Resolved++
			lock = config.UpsertLock(lock, models.LockEntryFor(resolution.Entry.Name, *resolution.Release))
			deps.logger.Log(fmt.Sprintf("%s %s %s",
				tui.SuccessIcon(colorize),
				tui.Paint(tui.NameStyle, resolution.Entry.Name, colorize),
				tui.Paint(tui.VersionStyle, resolution.Release.Version.String(), colorize),
			), false)
			if opts.ShowDeps {
				printDependencies(deps.logger, resolution, colorize)
			}
		}
	}

	if !opts.DryRun && result.Resolved > 0 {
		if err := config.WriteLock(ctx, deps.fs, meta, lock); err != nil {
			return result, err
		}
	}

	if result.Failed > 0 {
		return result, errResolveFailures
	}
	return result, nil
}

func printDependencies(log *logger.Logger, resolution resolver.Resolution, colorize bool) {
	specs, err := resolution.Dependencies()
	if err != nil {
		log.Error("    " + err.Error())
		return
	}
	for _, spec := range specs {
		log.Log(tui.Paint(tui.DimStyle, "    "+spec.String(), colorize), false)
	}
}

func rangeText(entry models.ModEntry) string {
	if entry.Version == nil {
		return "*"
	}
	return entry.Version.String()
}
