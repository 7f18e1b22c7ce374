package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/furrctorio/furrctorio/internal/constants"
	"github.com/furrctorio/furrctorio/internal/models"
)

// Metadata locates the config file and the files derived from it.
type Metadata struct {
	ConfigPath string
}

func NewMetadata(configPath string) Metadata {
	return Metadata{ConfigPath: configPath}
}

func (m Metadata) Dir() string {
	return filepath.Dir(filepath.FromSlash(m.ConfigPath))
}

// LockPath is furr-lock.yaml for furr.yaml.
func (m Metadata) LockPath() string {
	base := filepath.Base(m.ConfigPath)
	ext := filepath.Ext(base)
	if ext == "" {
		ext = ".yaml"
	}
	return filepath.Join(m.Dir(), strings.TrimSuffix(base, filepath.Ext(base))+"-lock"+ext)
}

// ModFolderPath resolves the configured mod folder relative to the config
// file.
func (m Metadata) ModFolderPath(cfg models.ModsConfig) string {
	folder := cfg.Metadata.FactorioModFolder
	if folder == "" {
		return m.Dir()
	}
	if filepath.IsAbs(folder) || strings.HasPrefix(folder, "/") || strings.HasPrefix(folder, "\\") {
		return folder
	}
	return filepath.Join(m.Dir(), folder)
}

func (m Metadata) ModListPath(cfg models.ModsConfig) string {
	return filepath.Join(m.ModFolderPath(cfg), constants.ModListFile)
}

// DefaultModFolder is where the game keeps mods on Linux, or "mods" when the
// home directory is unknown.
func DefaultModFolder() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "mods"
	}
	return filepath.Join(home, ".factorio", "mods")
}
