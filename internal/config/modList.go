package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/furrctorio/furrctorio/internal/models"
	"github.com/furrctorio/furrctorio/internal/perf"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/attribute"
)

// ReadModList reads the game's mod-list.json.
func ReadModList(ctx context.Context, fs afero.Fs, path string) (models.ModList, error) {
	_, span := perf.StartSpan(ctx, "io.modlist.read", perf.WithAttributes(attribute.String("path", path)))
	defer span.End()

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return models.ModList{}, err
	}

	var list models.ModList
	if err := json.Unmarshal(data, &list); err != nil {
		return models.ModList{}, &ConfigFileInvalidError{Path: path, Err: err}
	}
	return list, nil
}

func WriteModList(ctx context.Context, fs afero.Fs, path string, list models.ModList) error {
	_, span := perf.StartSpan(ctx, "io.modlist.write", perf.WithAttributes(attribute.String("path", path)))
	defer span.End()

	if list.Mods == nil {
		list.Mods = []models.ModListEntry{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create mod folder: %w", err)
	}
	return writeAtomic(fs, path, append(data, '\n'))
}

// ModsFromModList turns every mod-list.json entry into a config entry that
// accepts any release.
func ModsFromModList(list models.ModList) []models.ModEntry {
	entries := make([]models.ModEntry, 0, len(list.Mods))
	for _, mod := range list.Mods {
		entries = append(entries, models.ModEntry{Name: mod.Name, Enabled: mod.Enabled})
	}
	return entries
}

func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
