package models

import (
	"time"

	"github.com/furrctorio/furrctorio/internal/versioning"
)

// LockEntry pins the release chosen for one mod (furr-lock.yaml).
type LockEntry struct {
	Name        string           `yaml:"name"`
	Version     versioning.Token `yaml:"version"`
	FileName    string           `yaml:"fileName"`
	SHA1        string           `yaml:"sha1"`
	DownloadURL string           `yaml:"downloadUrl"`
	ReleasedAt  time.Time        `yaml:"releasedAt"`
}

func LockEntryFor(name string, release Release) LockEntry {
	return LockEntry{
		Name:        name,
		Version:     release.Version,
		FileName:    release.FileName,
		SHA1:        release.SHA1,
		DownloadURL: release.DownloadURL,
		ReleasedAt:  release.ReleasedAt,
	}
}
