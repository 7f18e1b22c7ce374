// Package config reads and writes the furr.yaml mod list, its lock file and
// the game's own mod-list.json.
package config

import (
	"bytes"
	"context"
	"fmt"

	"github.com/furrctorio/furrctorio/internal/models"
	"github.com/furrctorio/furrctorio/internal/perf"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/attribute"
	"gopkg.in/yaml.v3"
)

func ReadConfig(ctx context.Context, fs afero.Fs, meta Metadata) (models.ModsConfig, error) {
	_, span := perf.StartSpan(ctx, "io.config.read", perf.WithAttributes(attribute.String("config_path", meta.ConfigPath)))
	defer span.End()

	exists, _ := afero.Exists(fs, meta.ConfigPath)
	if !exists {
		return models.ModsConfig{}, &ConfigFileNotFoundError{Path: meta.ConfigPath}
	}

	data, err := afero.ReadFile(fs, meta.ConfigPath)
	if err != nil {
		return models.ModsConfig{}, fmt.Errorf("failed to read configuration file: %w", err)
	}

	var cfg models.ModsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		span.RecordError(err)
		return models.ModsConfig{}, &ConfigFileInvalidError{Path: meta.ConfigPath, Err: err}
	}
	if cfg.Mods == nil {
		cfg.Mods = []models.ModEntry{}
	}

	span.SetAttributes(attribute.Int("mods", len(cfg.Mods)))
	return cfg, nil
}

func WriteConfig(ctx context.Context, fs afero.Fs, meta Metadata, cfg models.ModsConfig) error {
	_, span := perf.StartSpan(ctx, "io.config.write", perf.WithAttributes(attribute.String("config_path", meta.ConfigPath)))
	defer span.End()

	if cfg.Metadata.SchemaVersion == 0 {
		cfg.Metadata.SchemaVersion = models.ConfigSchemaVersion
	}

	data, err := marshalYAML(cfg)
	if err != nil {
		return err
	}
	if err := fs.MkdirAll(meta.Dir(), 0o755); err != nil {
		return err
	}
	return writeAtomic(fs, meta.ConfigPath, data)
}

// InitConfig writes a new config. When the mod folder already holds a
// mod-list.json its mods become the initial entries.
func InitConfig(ctx context.Context, fs afero.Fs, meta Metadata, factorioVersion models.FactorioVersion, modFolder string) (models.ModsConfig, error) {
	ctx, span := perf.StartSpan(ctx, "io.config.init")
	defer span.End()

	if exists, _ := afero.Exists(fs, meta.ConfigPath); exists {
		return models.ModsConfig{}, &ConfigFileExistsError{Path: meta.ConfigPath}
	}

	if modFolder == "" {
		modFolder = DefaultModFolder()
	}

	cfg := models.ModsConfig{
		Metadata: models.Metadata{
			SchemaVersion:     models.ConfigSchemaVersion,
			FactorioVersion:   factorioVersion,
			FactorioModFolder: modFolder,
		},
		Mods: []models.ModEntry{},
	}

	list, err := ReadModList(ctx, fs, meta.ModListPath(cfg))
	switch {
	case err == nil:
		cfg.Mods = ModsFromModList(list)
	case !isNotExist(err):
		return models.ModsConfig{}, err
	}

	if err := WriteConfig(ctx, fs, meta, cfg); err != nil {
		return models.ModsConfig{}, err
	}
	return cfg, nil
}

func marshalYAML(value any) ([]byte, error) {
	buffer := &bytes.Buffer{}
	encoder := yaml.NewEncoder(buffer)
	encoder.SetIndent(2)
	if err := encoder.Encode(value); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
