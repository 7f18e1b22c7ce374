// Package constants defines shared constant values.
package constants

// AppName is the project identifier used in logs and metadata.
const AppName = "furrctorio"

// CommandName is the primary CLI command name.
const CommandName = "furr"

// UserAgent is sent with every portal request.
const UserAgent = AppName + " (+https://github.com/furrctorio/furrctorio)"

const (
	DefaultConfigFile = "furr.yaml"
	ModListFile       = "mod-list.json"
	CacheDirName      = "cache"
)
