package resolver

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/furrctorio/furrctorio/internal/globalerrors"
	"github.com/furrctorio/furrctorio/internal/models"
	"github.com/furrctorio/furrctorio/internal/versioning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePortal struct {
	mu        sync.Mutex
	summaries map[string]*models.ModSummary
	details   map[string]*models.ModDetail
	calls     []string
	delay     time.Duration
	inFlight  atomic.Int32
	maxFlight atomic.Int32
}

func (p *fakePortal) record(call string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, call)
}

func (p *fakePortal) enter() func() {
	current := p.inFlight.Add(1)
	for {
		seen := p.maxFlight.Load()
		if current <= seen || p.maxFlight.CompareAndSwap(seen, current) {
			break
		}
	}
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	return func() { p.inFlight.Add(-1) }
}

func (p *fakePortal) GetMod(_ context.Context, name string) (*models.ModSummary, error) {
	defer p.enter()()
	p.record("mod:" + name)
	summary, ok := p.summaries[name]
	if !ok {
		return nil, &globalerrors.ModNotFoundError{Name: name}
	}
	return summary, nil
}

func (p *fakePortal) GetModFull(_ context.Context, name string) (*models.ModDetail, error) {
	defer p.enter()()
	p.record("full:" + name)
	detail, ok := p.details[name]
	if !ok {
		return nil, &globalerrors.ModNotFoundError{Name: name}
	}
	return detail, nil
}

func rel(version string) models.Release {
	return models.Release{
		Version:  versioning.ParseToken(version),
		FileName: "mod_" + version + ".zip",
		InfoJSON: models.InfoJSON{Dependencies: []string{"base >= 1.1.0", "? flib"}},
	}
}

func rangeOf(t *testing.T, expr string) *versioning.Range {
	t.Helper()
	r, err := versioning.ParseRange(expr)
	require.NoError(t, err)
	return &r
}

func newFakePortal() *fakePortal {
	latest := rel("0.14.2")
	return &fakePortal{
		summaries: map[string]*models.ModSummary{
			"flib":    {Name: "flib", LatestRelease: &latest},
			"nothing": {Name: "nothing"},
		},
		details: map[string]*models.ModDetail{
			"flib": {ModSummary: models.ModSummary{
				Name:     "flib",
				Releases: []models.Release{rel("0.12.0"), rel("0.13.1"), rel("0.14.2")},
			}},
			"nothing": {ModSummary: models.ModSummary{
				Name:     "nothing",
				Releases: []models.Release{rel("1.0.0"), rel("1.2.0")},
			}},
			"legacy": {ModSummary: models.ModSummary{
				Name:     "legacy",
				Releases: []models.Release{rel("0.0.5"), rel("0.0.07")},
			}},
			"broken": {ModSummary: models.ModSummary{
				Name:     "broken",
				Releases: []models.Release{rel("latest")},
			}},
		},
	}
}

func TestResolveWithoutRangeUsesLatest(t *testing.T) {
	portal := newFakePortal()

	results, err := Resolve(context.Background(), portal, []models.ModEntry{{Name: "flib", Enabled: true}}, Options{})
	require.NoError(t, err)

	require.Len(t, results, 1)
	require.True(t, results[0].Resolved())
	assert.Equal(t, "0.14.2", results[0].Release.Version.String())
	assert.Equal(t, []string{"mod:flib"}, portal.calls)
}

func TestResolveWithoutLatestFallsBackToFull(t *testing.T) {
	portal := newFakePortal()

	results, err := Resolve(context.Background(), portal, []models.ModEntry{{Name: "nothing", Enabled: true}}, Options{})
	require.NoError(t, err)

	require.True(t, results[0].Resolved())
	assert.Equal(t, "1.2.0", results[0].Release.Version.String())
	assert.Equal(t, []string{"mod:nothing", "full:nothing"}, portal.calls)
}

func TestResolveWithRange(t *testing.T) {
	portal := newFakePortal()

	results, err := Resolve(context.Background(), portal, []models.ModEntry{
		{Name: "flib", Enabled: true, Version: rangeOf(t, "<0.14.0")},
	}, Options{})
	require.NoError(t, err)

	require.True(t, results[0].Resolved())
	assert.Equal(t, "0.13.1", results[0].Release.Version.String())
	assert.Equal(t, []string{"full:flib"}, portal.calls)
}

func TestResolveLegacyVersions(t *testing.T) {
	portal := newFakePortal()

	results, err := Resolve(context.Background(), portal, []models.ModEntry{
		{Name: "legacy", Enabled: true, Version: rangeOf(t, ">=0.0.6")},
	}, Options{})
	require.NoError(t, err)

	require.NoError(t, results[0].Err)
	require.NotNil(t, results[0].Release)
	assert.Equal(t, "0.0.07", results[0].Release.Version.String())
}

func TestResolveNoMatchIsNotAnError(t *testing.T) {
	portal := newFakePortal()

	results, err := Resolve(context.Background(), portal, []models.ModEntry{
		{Name: "flib", Enabled: true, Version: rangeOf(t, ">=2.0.0")},
	}, Options{})
	require.NoError(t, err)

	assert.NoError(t, results[0].Err)
	assert.Nil(t, results[0].Release)
	assert.False(t, results[0].Resolved())
}

func TestResolveKeepsOrderAndIsolatesFailures(t *testing.T) {
	portal := newFakePortal()
	entries := []models.ModEntry{
		{Name: "nothing", Enabled: true},
		{Name: "missing", Enabled: true},
		{Name: "disabled", Enabled: false},
		{Name: "base", Enabled: true},
		{Name: "broken", Enabled: true, Version: rangeOf(t, ">=1.0.0")},
		{Name: "flib", Enabled: true},
	}

	results, err := Resolve(context.Background(), portal, entries, Options{Concurrency: 3})
	require.NoError(t, err)

	require.Len(t, results, 4)
	assert.Equal(t, "nothing", results[0].Entry.Name)
	assert.True(t, results[0].Resolved())

	assert.Equal(t, "missing", results[1].Entry.Name)
	assert.ErrorIs(t, results[1].Err, &globalerrors.ModNotFoundError{Name: "missing"})

	assert.Equal(t, "broken", results[2].Entry.Name)
	var versionErr *versioning.VersionError
	assert.ErrorAs(t, results[2].Err, &versionErr)

	assert.Equal(t, "flib", results[3].Entry.Name)
	assert.True(t, results[3].Resolved())
}

func TestResolveRespectsConcurrency(t *testing.T) {
	portal := newFakePortal()
	portal.delay = 10 * time.Millisecond
	entries := make([]models.ModEntry, 0, 8)
	for range 8 {
		entries = append(entries, models.ModEntry{Name: "flib", Enabled: true})
	}

	_, err := Resolve(context.Background(), portal, entries, Options{Concurrency: 2})
	require.NoError(t, err)
	assert.LessOrEqual(t, portal.maxFlight.Load(), int32(2))
}

func TestResolveDoesNotMutateDetail(t *testing.T) {
	portal := newFakePortal()
	before := append([]models.Release(nil), portal.details["flib"].Releases...)

	results, err := Resolve(context.Background(), portal, []models.ModEntry{
		{Name: "flib", Enabled: true, Version: rangeOf(t, ">=0.12.0")},
	}, Options{})
	require.NoError(t, err)

	results[0].Release.FileName = "changed.zip"
	assert.Equal(t, before, portal.details["flib"].Releases)
}

func TestResolveCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Resolve(ctx, newFakePortal(), []models.ModEntry{{Name: "flib", Enabled: true}}, Options{})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestResolutionDependencies(t *testing.T) {
	release := rel("1.0.0")
	deps, err := Resolution{Release: &release}.Dependencies()
	require.NoError(t, err)
	require.Len(t, deps, 2)
	assert.Equal(t, "base", deps[0].Name)
	assert.Equal(t, "? flib", deps[1].String())

	deps, err = Resolution{}.Dependencies()
	assert.NoError(t, err)
	assert.Nil(t, deps)
}

func TestIsBuiltin(t *testing.T) {
	assert.True(t, IsBuiltin("base"))
	assert.True(t, IsBuiltin("space-age"))
	assert.False(t, IsBuiltin("flib"))
}
