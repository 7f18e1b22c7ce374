// Package cache stores portal responses between runs. Entries are opaque
// bytes with an optional time to live.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/spf13/afero"
)

type Cache interface {
	// Get returns the cached value and whether it was found. Expired entries
	// are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value. A ttl of zero keeps it until deleted.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Disabled is the location value that turns caching off.
const Disabled = "none"

// Open picks the backend from location: "" uses a file cache in defaultDir,
// "none" disables caching, a redis:// or rediss:// URL uses Redis and any
// other value is taken as a directory for the file cache.
func Open(location string, fs afero.Fs, defaultDir string) (Cache, error) {
	switch {
	case location == "":
		return NewFileCache(fs, defaultDir)
	case location == Disabled:
		return NewNullCache(), nil
	case strings.HasPrefix(location, "redis://"), strings.HasPrefix(location, "rediss://"):
		return NewRedisCache(location)
	default:
		return NewFileCache(fs, location)
	}
}

// Hash is the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
