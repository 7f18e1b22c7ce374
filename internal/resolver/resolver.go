// Package resolver picks a release for every mod of a mod list.
package resolver

import (
	"context"
	"runtime"

	"github.com/furrctorio/furrctorio/internal/dependency"
	"github.com/furrctorio/furrctorio/internal/models"
	"github.com/furrctorio/furrctorio/internal/perf"
	"github.com/furrctorio/furrctorio/internal/release"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// Portal is the part of the mod portal client the resolver needs.
type Portal interface {
	GetMod(ctx context.Context, name string) (*models.ModSummary, error)
	GetModFull(ctx context.Context, name string) (*models.ModDetail, error)
}

type Options struct {
	// Concurrency bounds the number of mods fetched at once. Zero means
	// one per CPU.
	Concurrency int
}

// Resolution is the outcome for one entry. Release is nil with a nil Err
// when the portal has no release matching the entry's range.
type Resolution struct {
	Entry   models.ModEntry
	Release *models.Release
	Err     error
}

func (r Resolution) Resolved() bool {
	return r.Err == nil && r.Release != nil
}

func (r Resolution) Dependencies() ([]dependency.Spec, error) {
	if r.Release == nil {
		return nil, nil
	}
	return r.Release.Dependencies()
}

// builtinMods ship with the game and are never on the portal.
var builtinMods = map[string]bool{
	"base":           true,
	"elevated-rails": true,
	"quality":        true,
	"space-age":      true,
}

func IsBuiltin(name string) bool {
	return builtinMods[name]
}

// Resolve fetches every enabled, non built-in entry concurrently. Failures
// are kept on the entry's Resolution; the returned error is only set when ctx
// ends before all entries are done. Results follow the order of entries.
func Resolve(ctx context.Context, portal Portal, entries []models.ModEntry, opts Options) ([]Resolution, error) {
	wanted := make([]models.ModEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Enabled && !IsBuiltin(entry.Name) {
			wanted = append(wanted, entry)
		}
	}

	ctx, span := perf.StartSpan(ctx, "resolver.resolve", perf.WithAttributes(attribute.Int("mods", len(wanted))))
	defer span.End()

	out := make([]Resolution, len(wanted))

	group, groupCtx := errgroup.WithContext(ctx)
	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	group.SetLimit(limit)

	for i := range wanted {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			chosen, err := resolveOne(groupCtx, portal, wanted[i])
			out[i] = Resolution{Entry: wanted[i], Release: chosen, Err: err}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func resolveOne(ctx context.Context, portal Portal, entry models.ModEntry) (*models.Release, error) {
	ctx, span := perf.StartSpan(ctx, "resolver.mod", perf.WithAttributes(attribute.String("mod", entry.Name)))
	defer span.End()

	if entry.Version == nil || entry.Version.IsZero() {
		summary, err := portal.GetMod(ctx, entry.Name)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		if summary.LatestRelease != nil || len(summary.Releases) > 0 {
			return release.SelectBest(summary.Releases, summary.LatestRelease, nil)
		}
	}

	detail, err := portal.GetModFull(ctx, entry.Name)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	constraint := entry.Version
	if constraint != nil && constraint.IsZero() {
		constraint = nil
	}
	chosen, err := release.SelectBest(detail.Releases, detail.LatestRelease, constraint)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if chosen != nil {
		span.SetAttributes(attribute.String("version", chosen.Version.String()))
	}
	return chosen, nil
}
