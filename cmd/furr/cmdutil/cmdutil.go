// Package cmdutil holds the wiring shared by the furr subcommands.
package cmdutil

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/furrctorio/furrctorio/internal/cache"
	"github.com/furrctorio/furrctorio/internal/constants"
	"github.com/furrctorio/furrctorio/internal/environment"
	"github.com/furrctorio/furrctorio/internal/httpclient"
	"github.com/furrctorio/furrctorio/internal/modportal"
)

// GlobalOptions are the persistent flags of the root command.
type GlobalOptions struct {
	ConfigPath string
	Quiet      bool
	Debug      bool
}

func ReadGlobalOptions(cmd *cobra.Command) (GlobalOptions, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return GlobalOptions{}, err
	}
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return GlobalOptions{}, err
	}
	debug, err := cmd.Flags().GetBool("debug")
	if err != nil {
		return GlobalOptions{}, err
	}
	return GlobalOptions{ConfigPath: configPath, Quiet: quiet, Debug: debug}, nil
}

// CacheDir is the default location of the file cache.
func CacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil || base == "" {
		base = os.TempDir()
	}
	return filepath.Join(base, constants.AppName, constants.CacheDirName)
}

// NewPortalClient builds a rate-limited portal client with the cache the
// settings ask for. The returned closer releases the cache.
func NewPortalClient(settings environment.Settings, fs afero.Fs) (*modportal.Client, func() error, error) {
	store, err := cache.Open(settings.CacheLocation, fs, CacheDir())
	if err != nil {
		return nil, nil, err
	}

	limit := rate.Inf
	if settings.RateLimit > 0 {
		limit = rate.Limit(settings.RateLimit)
	}
	doer := httpclient.NewRLClient(rate.NewLimiter(limit, 1))

	client := modportal.NewClient(doer,
		modportal.WithPortalURL(settings.PortalURL),
		modportal.WithAuthURL(settings.AuthURL),
		modportal.WithCache(store, settings.CacheTTL),
	)
	return client, store.Close, nil
}

func Credentials(settings environment.Settings) modportal.Credentials {
	return modportal.Credentials{Username: settings.Username, Token: settings.Token}
}
