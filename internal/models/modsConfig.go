package models

import "github.com/furrctorio/furrctorio/internal/versioning"

const ConfigSchemaVersion = 1

// ModsConfig is the user-maintained list of wanted mods (furr.yaml).
type ModsConfig struct {
	Metadata Metadata   `yaml:"Metadata"`
	Mods     []ModEntry `yaml:"Mods"`
}

type Metadata struct {
	SchemaVersion     int             `yaml:"_v"`
	FactorioVersion   FactorioVersion `yaml:"FactorioVersion"`
	FactorioModFolder string          `yaml:"FactorioModFolder"`
}

// ModEntry names one wanted mod. A nil Version accepts any release.
type ModEntry struct {
	Name    string            `yaml:"name"`
	Version *versioning.Range `yaml:"version,omitempty"`
	Enabled bool              `yaml:"enabled"`
}

// Find returns the index of the entry with the given name, or -1.
func (c ModsConfig) Find(name string) int {
	for i, mod := range c.Mods {
		if mod.Name == name {
			return i
		}
	}
	return -1
}

// Upsert replaces an entry with the same name or appends a new one.
func (c *ModsConfig) Upsert(entry ModEntry) {
	if i := c.Find(entry.Name); i >= 0 {
		c.Mods[i] = entry
		return
	}
	c.Mods = append(c.Mods, entry)
}

func (c ModsConfig) EnabledMods() []ModEntry {
	enabled := make([]ModEntry, 0, len(c.Mods))
	for _, mod := range c.Mods {
		if mod.Enabled {
			enabled = append(enabled, mod)
		}
	}
	return enabled
}
