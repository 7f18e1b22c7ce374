package download

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
	"github.com/furrctorio/furrctorio/internal/modfilename"
	"github.com/furrctorio/furrctorio/internal/modpath"
	"github.com/furrctorio/furrctorio/internal/modportal"
	"github.com/furrctorio/furrctorio/internal/models"
	"github.com/furrctorio/furrctorio/internal/perf"
	"github.com/furrctorio/furrctorio/internal/release"
	"github.com/furrctorio/furrctorio/internal/resolver"
	"github.com/furrctorio/furrctorio/internal/tui"
)

var (
	errDownloadFailures = errors.New("one or more mods failed to download")
	errNoCredentials    = errors.New("FACTORIO_USERNAME and FACTORIO_TOKEN must be set, run `furr login` to obtain a token")
)

// Portal is what downloading needs from the mod portal client.
type Portal interface {
	resolver.Portal
	Download(ctx context.Context, release models.Release, creds modportal.Credentials) ([]byte, error)
}

type downloadOptions struct {
	ConfigPath string
	Quiet      bool
	Debug      bool
	FromLock   bool
	Force      bool
}

type downloadDeps struct {
	fs          afero.Fs
	logger      *logger.Logger
	portal      Portal
	credentials modportal.Credentials
	concurrency int
	colorize    bool
}

type Result struct {
	Downloaded int
	Skipped    int
	Failed     int
}

type downloadRunner func(context.Context, downloadOptions, downloadDeps) (Result, error)

func Command() *cobra.Command {
	return commandWithRunner(runDownload)
}

func commandWithRunner(runner downloadRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "download",
		Aliases: []string{"dl"},
		Short:   i18n.T("cmd.download.short"),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, span := perf.StartSpan(cmd.Context(), "app.command.download")
			defer span.End()

			global, err := cmdutil.ReadGlobalOptions(cmd)
			if err != nil {
				return err
			}
			fromLock, err := cmd.Flags().GetBool("locked")
			if err != nil {
				return err
			}
			force, err := cmd.Flags().GetBool("force")
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

			result, err := runner(ctx, downloadOptions{
				ConfigPath: global.ConfigPath,
				Quiet:      global.Quiet,
				Debug:      global.Debug,
				FromLock:   fromLock,
				Force:      force,
			}, downloadDeps{
				fs:          fs,
				logger:      logger.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), global.Quiet, global.Debug),
				portal:      portal,
				credentials: cmdutil.Credentials(settings),
				concurrency: settings.Concurrency,
				colorize:    tui.ShouldColorize(global.Quiet, cmd.OutOrStdout()),
			})
			span.SetAttributes(
				attribute.Bool("success", err == nil),
				attribute.Int("downloaded", result.Downloaded),
			)
			return err
		},
	}

	cmd.Flags().Bool("locked", false, i18n.T("cmd.download.flag.locked"))
	cmd.Flags().BoolP("force", "f", false, i18n.T("cmd.download.flag.force"))
	return cmd
}

func runDownload(ctx context.Context, opts downloadOptions, deps downloadDeps) (Result, error) {
	if deps.credentials.IsZero() {
		return Result{}, errNoCredentials
	}

	meta := config.NewMetadata(opts.ConfigPath)
	cfg, err := config.ReadConfig(ctx, deps.fs, meta)
	if err != nil {
		return Result{}, err
	}

	lock, err := config.EnsureLock(ctx, deps.fs, meta)
	if err != nil {
		return Result{}, err
	}

	result := Result{}
	var wanted []models.LockEntry
	if opts.FromLock {
		wanted = lockedEntries(cfg, lock)
	} else {
		wanted, result.Failed, err = resolveEntries(ctx, cfg, deps)
		if err != nil {
			return result, err
		}
	}

	folder := meta.ModFolderPath(cfg)
	if err := deps.fs.MkdirAll(folder, 0o755); err != nil {
		return result, err
	}

	for _, entry := range wanted {
		downloaded, err := fetchOne(ctx, folder, entry, opts.Force, deps)
		switch {
		case err != nil:
			result.Failed++
			deps.logger.Error(fmt.Sprintf("%s %s", tui.ErrorIcon(deps.colorize), i18n.T("cmd.download.failed", i18n.Tvars{
				Data: &i18n.TData{"name": entry.Name, "error": err.Error()},
			})))
			continue
		case downloaded:
			result.Downloaded++
			deps.logger.Log(fmt.Sprintf("%s %s %s",
				tui.SuccessIcon(deps.colorize),
				tui.Paint(tui.NameStyle, entry.Name, deps.colorize),
				tui.Paint(tui.VersionStyle, entry.Version.String(), deps.colorize),
			), false)
		default:
			result.Skipped++
			deps.logger.Log(fmt.Sprintf("%s %s", tui.SkippedIcon(deps.colorize), i18n.T("cmd.download.up_to_date", i18n.Tvars{
				Data: &i18n.TData{"name": entry.Name, "file": entry.FileName},
			})), false)
		}
		lock = config.UpsertLock(lock, entry)
	}

	if err := config.WriteLock(ctx, deps.fs, meta, lock); err != nil {
		return result, err
	}

	if result.Failed > 0 {
		return result, errDownloadFailures
	}
	return result, nil
}

// resolveEntries picks a release for every enabled mod. Mods without a
// matching release are reported and left out.
func resolveEntries(ctx context.Context, cfg models.ModsConfig, deps downloadDeps) ([]models.LockEntry, int, error) {
	resolutions, err := resolver.Resolve(ctx, deps.portal, cfg.Mods, resolver.Options{Concurrency: deps.concurrency})
	if err != nil {
		return nil, 0, err
	}

	failed := 0
	entries := make([]models.LockEntry, 0, len(resolutions))
	for _, resolution := range resolutions {
		switch {
		case resolution.Err != nil:
			failed++
			deps.logger.Error(fmt.Sprintf("%s %s", tui.ErrorIcon(deps.colorize), i18n.T("cmd.resolve.failed", i18n.Tvars{
				Data: &i18n.TData{"name": resolution.Entry.Name, "error": resolution.Err.Error()},
			})))
		case resolution.Release == nil:
			deps.logger.Log(fmt.Sprintf("%s %s", tui.WarningIcon(deps.colorize), i18n.T("cmd.resolve.no_match", i18n.Tvars{
				Data: &i18n.TData{"name": resolution.Entry.Name, "range": rangeText(resolution.Entry)},
			})), false)
		default:
			entries = append(entries, models.LockEntryFor(resolution.Entry.Name, *resolution.Release))
		}
	}
	return entries, failed, nil
}

// lockedEntries keeps the lock entries of enabled configured mods, in config
// order.
func lockedEntries(cfg models.ModsConfig, lock []models.LockEntry) []models.LockEntry {
	byName := make(map[string]models.LockEntry, len(lock))
	for _, entry := range lock {
		byName[entry.Name] = entry
	}

	entries := make([]models.LockEntry, 0, len(lock))
	for _, mod := range cfg.EnabledMods() {
		if entry, ok := byName[mod.Name]; ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

// fetchOne stores the archive of entry in folder. It reports false when a
// file with the expected checksum is already there.
func fetchOne(ctx context.Context, folder string, entry models.LockEntry, force bool, deps downloadDeps) (bool, error) {
	ctx, span := perf.StartSpan(ctx, "app.download.mod", perf.WithAttributes(attribute.String("mod", entry.Name)))
	defer span.End()

	fileName, err := modfilename.ForMod(entry.Name, entry.FileName)
	if err != nil {
		return false, err
	}
	target, err := modpath.Archive(deps.fs, folder, fileName)
	if err != nil {
		return false, err
	}
	if !force {
		if existing, err := afero.ReadFile(deps.fs, target); err == nil && release.Verify(existing, entry.SHA1) {
			return false, nil
		}
	}

	data, err := deps.portal.Download(ctx, releaseOf(entry), deps.credentials)
	if err != nil {
		span.RecordError(err)
		return false, err
	}
	if err := release.CheckIntegrity(entry.FileName, data, entry.SHA1); err != nil {
		span.RecordError(err)
		return false, err
	}

	deps.logger.Debug("saving archive", "path", target, "bytes", len(data))
	if err := afero.WriteFile(deps.fs, target, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}

func releaseOf(entry models.LockEntry) models.Release {
	return models.Release{
		DownloadURL: entry.DownloadURL,
		FileName:    entry.FileName,
		ReleasedAt:  entry.ReleasedAt,
		Version:     entry.Version,
		SHA1:        entry.SHA1,
	}
}

func rangeText(entry models.ModEntry) string {
	if entry.Version == nil {
		return "*"
	}
	return entry.Version.String()
}
