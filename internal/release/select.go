// Package release picks the release to install from a mod's release list and
// checks downloaded archives against the declared checksum.
package release

import (
	"slices"

	"github.com/furrctorio/furrctorio/internal/models"
	"github.com/furrctorio/furrctorio/internal/versioning"
)

// SelectBest returns the best release for the constraint.
//
// Without a constraint the portal's latest release wins when it is known,
// otherwise the highest version in the list. With a constraint only matching
// releases are considered and the highest one is returned; no match yields
// (nil, nil). Equal versions are broken by the later ReleasedAt, then by list
// order. The input is never modified and the result is a copy.
func SelectBest(releases []models.Release, latest *models.Release, constraint *versioning.Range) (*models.Release, error) {
	if constraint == nil {
		if latest != nil {
			chosen := *latest
			return &chosen, nil
		}
		return highest(releases)
	}

	candidates := make([]models.Release, 0, len(releases))
	for _, release := range releases {
		ok, err := versioning.Matches(*constraint, release.Version)
		if err != nil {
			return nil, err
		}
		if ok {
			candidates = append(candidates, release)
		}
	}

	return highest(candidates)
}

func highest(releases []models.Release) (*models.Release, error) {
	if len(releases) == 0 {
		return nil, nil
	}
	if err := checkComparable(releases); err != nil {
		return nil, err
	}

	best := 0
	for i := 1; i < len(releases); i++ {
		if compareReleases(releases[i], releases[best]) > 0 {
			best = i
		}
	}

	chosen := releases[best]
	return &chosen, nil
}

// Sort returns an ascending copy of the releases using the selector's
// ordering. Equal releases keep their relative order.
func Sort(releases []models.Release) ([]models.Release, error) {
	if err := checkComparable(releases); err != nil {
		return nil, err
	}

	sorted := slices.Clone(releases)
	slices.SortStableFunc(sorted, compareReleases)
	return sorted, nil
}

func checkComparable(releases []models.Release) error {
	for _, release := range releases {
		if _, err := versioning.Compare(release.Version, release.Version); err != nil {
			return err
		}
	}
	return nil
}

// compareReleases must only see releases that passed checkComparable.
func compareReleases(a, b models.Release) int {
	cmp, _ := versioning.Compare(a.Version, b.Version)
	if cmp != 0 {
		return cmp
	}
	return a.ReleasedAt.Compare(b.ReleasedAt)
}
