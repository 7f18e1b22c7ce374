package add

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
	"github.com/furrctorio/furrctorio/internal/versioning"
)

var errBuiltinMod = errors.New("built-in mods ship with the game and cannot be added")

type ModLookup interface {
	GetMod(ctx context.Context, name string) (*models.ModSummary, error)
}

type addOptions struct {
	Name            string
	Range           string
	ConfigPath      string
	FactorioVersion models.FactorioVersion
	ModFolder       string
	Offline         bool
	Disabled        bool
}

type addDeps struct {
	fs       afero.Fs
	logger   *logger.Logger
	portal   ModLookup
	colorize bool
}

type addRunner func(context.Context, addOptions, addDeps) error

func Command() *cobra.Command {
	return commandWithRunner(runAdd)
}

func commandWithRunner(runner addRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add <name> [range]",
		Short:   i18n.T("cmd.add.short"),
		Aliases: []string{"a"},
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, span := perf.StartSpan(cmd.Context(), "app.command.add",
				perf.WithAttributes(attribute.String("name", args[0])),
			)
			defer span.End()

			global, err := cmdutil.ReadGlobalOptions(cmd)
			if err != nil {
				return err
			}
			factorioVersion, err := cmd.Flags().GetString("factorio-version")
			if err != nil {
				return err
			}
			modFolder, err := cmd.Flags().GetString("mod-folder")
			if err != nil {
				return err
			}
			offline, err := cmd.Flags().GetBool("offline")
			if err != nil {
				return err
			}
			disabled, err := cmd.Flags().GetBool("disabled")
			if err != nil {
				return err
			}

			opts := addOptions{
				Name:            args[0],
				ConfigPath:      global.ConfigPath,
				FactorioVersion: models.FactorioVersion(factorioVersion),
				ModFolder:       modFolder,
				Offline:         offline,
				Disabled:        disabled,
			}
			if len(args) == 2 {
				opts.Range = args[1]
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

			err = runner(ctx, opts, addDeps{
				fs:       fs,
				logger:   logger.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), global.Quiet, global.Debug),
				portal:   portal,
				colorize: tui.ShouldColorize(global.Quiet, cmd.OutOrStdout()),
			})
			span.SetAttributes(attribute.Bool("success", err == nil))
			return err
		},
	}

	cmd.Flags().StringP("factorio-version", "g", string(models.Factorio20), i18n.T("cmd.add.flag.factorio_version"))
	cmd.Flags().StringP("mod-folder", "m", "", i18n.T("cmd.add.flag.mod_folder"))
	cmd.Flags().Bool("offline", false, i18n.T("cmd.add.flag.offline"))
	cmd.Flags().Bool("disabled", false, i18n.T("cmd.add.flag.disabled"))
	return cmd
}

func runAdd(ctx context.Context, opts addOptions, deps addDeps) error {
	if resolver.IsBuiltin(opts.Name) {
		return fmt.Errorf("%s: %w", opts.Name, errBuiltinMod)
	}

	entry := models.ModEntry{Name: opts.Name, Enabled: !opts.Disabled}
	if opts.Range != "" {
		versionRange, err := versioning.ParseRange(opts.Range)
		if err != nil {
			return err
		}
		entry.Version = &versionRange
	}

	meta := config.NewMetadata(opts.ConfigPath)
	cfg, err := loadOrInit(ctx, opts, deps, meta)
	if err != nil {
		return err
	}

	if !opts.Offline {
		summary, err := deps.portal.GetMod(ctx, opts.Name)
		if err != nil {
			return err
		}
		if summary.Name != "" {
			entry.Name = summary.Name
		}
	}

	key := "cmd.add.added"
	if cfg.Find(entry.Name) >= 0 {
		key = "cmd.add.updated"
	}
	cfg.Upsert(entry)

	if err := config.WriteConfig(ctx, deps.fs, meta, cfg); err != nil {
		return err
	}

	deps.logger.Log(fmt.Sprintf("%s %s", tui.SuccessIcon(deps.colorize), i18n.T(key, i18n.Tvars{
		Data: &i18n.TData{"name": entry.Name, "range": rangeText(entry.Version)},
	})), false)
	return nil
}

func loadOrInit(ctx context.Context, opts addOptions, deps addDeps, meta config.Metadata) (models.ModsConfig, error) {
	cfg, err := config.ReadConfig(ctx, deps.fs, meta)
	var notFound *config.ConfigFileNotFoundError
	if !errors.As(err, &notFound) {
		return cfg, err
	}

	cfg, err = config.InitConfig(ctx, deps.fs, meta, opts.FactorioVersion, opts.ModFolder)
	if err != nil {
		return models.ModsConfig{}, err
	}
	deps.logger.Log(i18n.T("cmd.add.config_created", i18n.Tvars{
		Data: &i18n.TData{"path": meta.ConfigPath},
	}), false)
	return cfg, nil
}

func rangeText(r *versioning.Range) string {
	if r == nil {
		return i18n.T("cmd.add.any_version")
	}
	return r.String()
}
