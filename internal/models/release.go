package models

import (
	"time"

	"github.com/furrctorio/furrctorio/internal/dependency"
	"github.com/furrctorio/furrctorio/internal/versioning"
)

// Release is one downloadable version of a mod as the portal reports it.
type Release struct {
	DownloadURL string           `json:"download_url"`
	FileName    string           `json:"file_name"`
	InfoJSON    InfoJSON         `json:"info_json"`
	ReleasedAt  time.Time        `json:"released_at"`
	Version     versioning.Token `json:"version"`
	SHA1        string           `json:"sha1"`
}

// InfoJSON is the subset of a release's info.json the portal exposes.
type InfoJSON struct {
	Name            string          `json:"name,omitempty"`
	Version         string          `json:"version,omitempty"`
	Title           string          `json:"title,omitempty"`
	Author          string          `json:"author,omitempty"`
	FactorioVersion FactorioVersion `json:"factorio_version"`
	Dependencies    []string        `json:"dependencies,omitempty"`
}

// ParsedDependencies parses every dependency line. The first malformed line
// aborts the parse.
func (i InfoJSON) ParsedDependencies() ([]dependency.Spec, error) {
	specs := make([]dependency.Spec, 0, len(i.Dependencies))
	for _, line := range i.Dependencies {
		spec, err := dependency.Parse(line)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func (r Release) Dependencies() ([]dependency.Spec, error) {
	return r.InfoJSON.ParsedDependencies()
}
