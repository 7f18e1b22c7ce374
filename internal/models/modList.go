package models

// ModList mirrors the game's own mod-list.json.
type ModList struct {
	Mods []ModListEntry `json:"mods"`
}

type ModListEntry struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}
