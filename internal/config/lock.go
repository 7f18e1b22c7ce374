package config

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/furrctorio/furrctorio/internal/models"
	"github.com/furrctorio/furrctorio/internal/perf"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// EnsureLock reads the lock file, creating an empty one first if needed.
func EnsureLock(ctx context.Context, fs afero.Fs, meta Metadata) ([]models.LockEntry, error) {
	ctx, span := perf.StartSpan(ctx, "io.config.lock.ensure")
	defer span.End()

	exists, _ := afero.Exists(fs, meta.LockPath())
	if !exists {
		empty := make([]models.LockEntry, 0)
		if err := WriteLock(ctx, fs, meta, empty); err != nil {
			return nil, err
		}
		return empty, nil
	}

	return ReadLock(ctx, fs, meta)
}

func ReadLock(ctx context.Context, fs afero.Fs, meta Metadata) ([]models.LockEntry, error) {
	_, span := perf.StartSpan(ctx, "io.config.lock.read")
	defer span.End()

	data, err := afero.ReadFile(fs, meta.LockPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read lock file: %w", err)
	}

	var lock []models.LockEntry
	if err := yaml.Unmarshal(data, &lock); err != nil {
		return nil, &ConfigFileInvalidError{Path: meta.LockPath(), Err: err}
	}
	if lock == nil {
		lock = []models.LockEntry{}
	}
	return lock, nil
}

// WriteLock stores the entries sorted by mod name.
func WriteLock(ctx context.Context, fs afero.Fs, meta Metadata, lock []models.LockEntry) error {
	_, span := perf.StartSpan(ctx, "io.config.lock.write")
	defer span.End()

	sorted := slices.Clone(lock)
	slices.SortStableFunc(sorted, func(a, b models.LockEntry) int {
		return strings.Compare(a.Name, b.Name)
	})

	data, err := marshalYAML(sorted)
	if err != nil {
		return err
	}
	if err := fs.MkdirAll(meta.Dir(), 0o755); err != nil {
		return err
	}
	return writeAtomic(fs, meta.LockPath(), data)
}

// UpsertLock replaces the entry with the same name or appends it.
func UpsertLock(lock []models.LockEntry, entry models.LockEntry) []models.LockEntry {
	for i := range lock {
		if lock[i].Name == entry.Name {
			lock[i] = entry
			return lock
		}
	}
	return append(lock, entry)
}
