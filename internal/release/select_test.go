package release

import (
	"errors"
	"testing"
	"time"

	"github.com/furrctorio/furrctorio/internal/models"
	"github.com/furrctorio/furrctorio/internal/versioning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2020, 5, 24, 19, 15, 48, 0, time.UTC)

func rel(version string, day int) models.Release {
	return models.Release{
		Version:    versioning.ParseToken(version),
		FileName:   "mod_" + version + ".zip",
		ReleasedAt: baseTime.AddDate(0, 0, day),
	}
}

func rangePtr(expression string) *versioning.Range {
	r := versioning.MustParseRange(expression)
	return &r
}

func TestSelectBestWithConstraint(t *testing.T) {
	releases := []models.Release{rel("1.0.0", 0), rel("1.2.0", 1), rel("2.0.0", 2)}

	chosen, err := SelectBest(releases, nil, rangePtr("<2.0.0"))
	require.NoError(t, err)
	require.NotNil(t, chosen)
	assert.Equal(t, "1.2.0", chosen.Version.String())
}

func TestSelectBestNoMatch(t *testing.T) {
	releases := []models.Release{rel("1.0.0", 0), rel("1.2.0", 1)}

	chosen, err := SelectBest(releases, nil, rangePtr(">=3.0.0"))
	assert.NoError(t, err)
	assert.Nil(t, chosen)
}

func TestSelectBestEmptyList(t *testing.T) {
	chosen, err := SelectBest(nil, nil, rangePtr(">=1.0.0"))
	assert.NoError(t, err)
	assert.Nil(t, chosen)

	chosen, err = SelectBest(nil, nil, nil)
	assert.NoError(t, err)
	assert.Nil(t, chosen)
}

func TestSelectBestPrefersLatestWithoutConstraint(t *testing.T) {
	releases := []models.Release{rel("1.0.0", 0), rel("2.0.0", 1)}
	latest := rel("1.5.0", 5)

	chosen, err := SelectBest(releases, &latest, nil)
	require.NoError(t, err)
	assert.Equal(t, "1.5.0", chosen.Version.String())

	chosen.FileName = "changed"
	assert.Equal(t, "mod_1.5.0.zip", latest.FileName)
}

func TestSelectBestHighestWithoutLatest(t *testing.T) {
	releases := []models.Release{rel("1.0.0", 0), rel("2.0.0", 1), rel("1.9.9", 2)}

	chosen, err := SelectBest(releases, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", chosen.Version.String())
}

func TestSelectBestIgnoresLatestWithConstraint(t *testing.T) {
	releases := []models.Release{rel("1.0.0", 0), rel("2.0.0", 1)}
	latest := rel("2.0.0", 1)

	chosen, err := SelectBest(releases, &latest, rangePtr("<2.0.0"))
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", chosen.Version.String())
}

func TestSelectBestTieBreaks(t *testing.T) {
	older := rel("1.0.0", 0)
	newer := rel("1.0.0", 3)
	newer.FileName = "newer.zip"

	chosen, err := SelectBest([]models.Release{newer, older}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "newer.zip", chosen.FileName)

	chosen, err = SelectBest([]models.Release{older, newer}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "newer.zip", chosen.FileName)

	first := rel("1.0.0", 0)
	first.FileName = "first.zip"
	second := rel("1.0.0", 0)
	second.FileName = "second.zip"

	chosen, err = SelectBest([]models.Release{first, second}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "first.zip", chosen.FileName)
}

func TestSelectBestLegacyRawVersions(t *testing.T) {
	releases := []models.Release{rel("0.0.07", 0), rel("0.0.12", 1), rel("0.1.3", 2)}
	assert.Equal(t, versioning.Raw, releases[0].Version.Kind())

	chosen, err := SelectBest(releases, nil, rangePtr("<0.0.10"))
	require.NoError(t, err)
	require.NotNil(t, chosen)
	assert.Equal(t, "0.0.07", chosen.Version.Raw())

	// 0.0.07 orders as 0.1.7, above the parsed 0.1.3.
	chosen, err = SelectBest(releases, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "0.0.07", chosen.Version.String())
}

func TestSelectBestUncomparableRaw(t *testing.T) {
	releases := []models.Release{rel("1.0.0", 0), rel("1.1", 1)}
	assert.Equal(t, versioning.Raw, releases[1].Version.Kind())

	_, err := SelectBest(releases, nil, rangePtr(">=1.0.0"))
	var versionErr *versioning.VersionError
	assert.True(t, errors.As(err, &versionErr))
	assert.Equal(t, "1.1", versionErr.Version)

	_, err = SelectBest(releases, nil, nil)
	assert.True(t, errors.As(err, &versionErr))

	_, err = SelectBest(releases[1:], nil, nil)
	assert.True(t, errors.As(err, &versionErr))
}

func TestSelectBestDoesNotMutateInput(t *testing.T) {
	releases := []models.Release{rel("2.0.0", 0), rel("1.0.0", 1)}

	_, err := SelectBest(releases, nil, rangePtr(">=1.0.0"))
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", releases[0].Version.String())
	assert.Equal(t, "1.0.0", releases[1].Version.String())
}

func TestSort(t *testing.T) {
	releases := []models.Release{rel("2.0.0", 0), rel("0.0.07", 1), rel("1.0.0", 5), rel("1.0.0", 2)}

	sorted, err := Sort(releases)
	require.NoError(t, err)

	versions := make([]string, 0, len(sorted))
	for _, release := range sorted {
		versions = append(versions, release.Version.String())
	}
	assert.Equal(t, []string{"0.0.07", "1.0.0", "1.0.0", "2.0.0"}, versions)
	assert.True(t, sorted[1].ReleasedAt.Before(sorted[2].ReleasedAt))
	assert.Equal(t, "2.0.0", releases[0].Version.String())
}

func TestSortRejectsUncomparable(t *testing.T) {
	_, err := Sort([]models.Release{rel("banana", 0)})
	var versionErr *versioning.VersionError
	assert.ErrorAs(t, err, &versionErr)
}
