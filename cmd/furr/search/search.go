package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/furrctorio/furrctorio/cmd/furr/cmdutil"
	"github.com/furrctorio/furrctorio/internal/environment"
	"github.com/furrctorio/furrctorio/internal/i18n"
	"github.com/furrctorio/furrctorio/internal/logger"
	"github.com/furrctorio/furrctorio/internal/modportal"
	"github.com/furrctorio/furrctorio/internal/models"
	"github.com/furrctorio/furrctorio/internal/perf"
	"github.com/furrctorio/furrctorio/internal/tui"
)

// errLimitReached ends the page walk once enough matches were printed.
var errLimitReached = errors.New("limit reached")

type Portal interface {
	AllMods(ctx context.Context, query modportal.PageQuery, visit func(models.ModSummary) error) error
}

type searchOptions struct {
	Terms           []string
	FactorioVersion models.FactorioVersion
	Limit           int
	PageSize        int
	HideDeprecated  bool
	Quiet           bool
}

type searchDeps struct {
	logger   *logger.Logger
	portal   Portal
	colorize bool
}

type searchRunner func(context.Context, searchOptions, searchDeps) (int, error)

func Command() *cobra.Command {
	return commandWithRunner(runSearch)
}

func commandWithRunner(runner searchRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [terms...]",
		Short: i18n.T("cmd.search.short"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, span := perf.StartSpan(cmd.Context(), "app.command.search")
			defer span.End()

			global, err := cmdutil.ReadGlobalOptions(cmd)
			if err != nil {
				return err
			}
			version, err := cmd.Flags().GetString("factorio-version")
			if err != nil {
				return err
			}
			limit, err := cmd.Flags().GetInt("limit")
			if err != nil {
				return err
			}
			pageSize, err := cmd.Flags().GetInt("page-size")
			if err != nil {
				return err
			}
			hideDeprecated, err := cmd.Flags().GetBool("hide-deprecated")
			if err != nil {
				return err
			}

			settings, err := environment.Load()
			if err != nil {
				return err
			}
			portal, closeCache, err := cmdutil.NewPortalClient(settings, afero.NewOsFs())
			if err != nil {
				return err
			}
			defer func() { _ = closeCache() }()

			found, err := runner(ctx, searchOptions{
				Terms:           args,
				FactorioVersion: models.FactorioVersion(version),
				Limit:           limit,
				PageSize:        pageSize,
				HideDeprecated:  hideDeprecated,
				Quiet:           global.Quiet,
			}, searchDeps{
				logger:   logger.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), global.Quiet, global.Debug),
				portal:   portal,
				colorize: tui.ShouldColorize(global.Quiet, cmd.OutOrStdout()),
			})
			span.SetAttributes(attribute.Bool("success", err == nil), attribute.Int("found", found))
			return err
		},
	}

	cmd.Flags().StringP("factorio-version", "g", "", i18n.T("cmd.search.flag.factorio_version"))
	cmd.Flags().IntP("limit", "l", 20, i18n.T("cmd.search.flag.limit"))
	cmd.Flags().Int("page-size", modportal.MaxPageSize, i18n.T("cmd.search.flag.page_size"))
	cmd.Flags().Bool("hide-deprecated", true, i18n.T("cmd.search.flag.hide_deprecated"))
	return cmd
}

func runSearch(ctx context.Context, opts searchOptions, deps searchDeps) (int, error) {
	query := modportal.PageQuery{
		PageSize:       opts.PageSize,
		Version:        opts.FactorioVersion,
		HideDeprecated: opts.HideDeprecated,
	}
	terms := lowerAll(opts.Terms)

	found := 0
	err := deps.portal.AllMods(ctx, query, func(mod models.ModSummary) error {
		if !matches(mod, terms) {
			return nil
		}
		found++
		deps.logger.Log(formatMod(mod, deps.colorize), true)
		if opts.Limit > 0 && found >= opts.Limit {
			return errLimitReached
		}
		return nil
	})
	if err != nil && !errors.Is(err, errLimitReached) {
		return found, err
	}

	if found == 0 {
		deps.logger.Log(i18n.T("cmd.search.no_results"), false)
	}
	return found, nil
}

// matches reports whether every term appears in the name, title or summary.
func matches(mod models.ModSummary, terms []string) bool {
	haystack := strings.ToLower(mod.Name + "\n" + mod.Title + "\n" + mod.Summary)
	for _, term := range terms {
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}

func formatMod(mod models.ModSummary, colorize bool) string {
	line := tui.Paint(tui.NameStyle, mod.Name, colorize)
	if mod.LatestRelease != nil {
		line += " " + tui.Paint(tui.VersionStyle, mod.LatestRelease.Version.String(), colorize)
	}
	if mod.Title != "" && mod.Title != mod.Name {
		line += " " + tui.Paint(tui.DimStyle, fmt.Sprintf("(%s)", mod.Title), colorize)
	}
	return line
}

func lowerAll(values []string) []string {
	lowered := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			lowered = append(lowered, strings.ToLower(trimmed))
		}
	}
	return lowered
}
