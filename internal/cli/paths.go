package cli

import (
	"os"
	"path/filepath"

	"github.com/dotfill/dotfill/pkg/cache"
)

// appName is the directory name used for dotfill's on-disk state.
const appName = "dotfill"

// cacheDir returns the cache directory using XDG standard (~/.cache/dotfill/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// openCache builds the cache backend selected by the flags: disabled, a
// shared Redis server, or the default on-disk cache.
func openCache(noCache bool, redisAddr string) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisAddr != "" {
		return cache.NewRedisCache(redisAddr)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}
