// Package environment reads runtime configuration from environment variables.
// A .env file in the working directory is loaded by main before this runs.
package environment

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultPortalURL = "https://mods.factorio.com"
	DefaultAuthURL   = "https://auth.factorio.com"
	DefaultCacheTTL  = time.Hour
	DefaultRateLimit = 10.0
)

type Settings struct {
	Username      string
	Token         string
	PortalURL     string
	AuthURL       string
	CacheLocation string
	CacheTTL      time.Duration
	Concurrency   int
	RateLimit     float64
}

var bindings = map[string]string{
	"username":       "FACTORIO_USERNAME",
	"token":          "FACTORIO_TOKEN",
	"portal_url":     "FURR_PORTAL_URL",
	"auth_url":       "FURR_AUTH_URL",
	"cache_location": "FURR_CACHE_URL",
	"cache_ttl":      "FURR_CACHE_TTL",
	"concurrency":    "FURR_CONCURRENCY",
	"rate_limit":     "FURR_RATE_LIMIT",
}

// Load reads the current environment. Unset variables fall back to the
// defaults above; a Concurrency of zero means one worker per CPU.
func Load() (Settings, error) {
	v := viper.New()
	v.SetDefault("portal_url", DefaultPortalURL)
	v.SetDefault("auth_url", DefaultAuthURL)
	v.SetDefault("cache_ttl", DefaultCacheTTL)
	v.SetDefault("concurrency", 0)
	v.SetDefault("rate_limit", DefaultRateLimit)

	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return Settings{}, err
		}
	}

	return Settings{
		Username:      v.GetString("username"),
		Token:         v.GetString("token"),
		PortalURL:     v.GetString("portal_url"),
		AuthURL:       v.GetString("auth_url"),
		CacheLocation: v.GetString("cache_location"),
		CacheTTL:      v.GetDuration("cache_ttl"),
		Concurrency:   v.GetInt("concurrency"),
		RateLimit:     v.GetFloat64("rate_limit"),
	}, nil
}

// HasCredentials reports whether downloads can be authenticated.
func (s Settings) HasCredentials() bool {
	return s.Username != "" && s.Token != ""
}

func AppVersion() string {
	return "REPL_VERSION"
}

func HelpURL() string {
	return "REPL_HELP_URL"
}
