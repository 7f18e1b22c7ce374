package config

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/furrctorio/furrctorio/internal/models"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModListRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := filepath.FromSlash("/factorio/mods/mod-list.json")
	list := models.ModList{Mods: []models.ModListEntry{
		{Name: "base", Enabled: true},
		{Name: "flib", Enabled: false},
	}}

	require.NoError(t, WriteModList(context.Background(), fs, path, list))

	raw, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "{\n  \"mods\": ["))

	read, err := ReadModList(context.Background(), fs, path)
	require.NoError(t, err)
	assert.Equal(t, list, read)
}

func TestWriteModListEmpty(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := filepath.FromSlash("/mods/mod-list.json")

	require.NoError(t, WriteModList(context.Background(), fs, path, models.ModList{}))

	raw, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"mods": []}`, string(raw))
}

func TestReadModListMissing(t *testing.T) {
	_, err := ReadModList(context.Background(), afero.NewMemMapFs(), "/nope/mod-list.json")
	assert.True(t, isNotExist(err))
}

func TestModsFromModList(t *testing.T) {
	entries := ModsFromModList(models.ModList{Mods: []models.ModListEntry{
		{Name: "base", Enabled: true},
		{Name: "helmod", Enabled: false},
	}})

	assert.Equal(t, []models.ModEntry{
		{Name: "base", Enabled: true},
		{Name: "helmod", Enabled: false},
	}, entries)
}
