package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// metaSuffix marks the sidecar file holding an entry's expiry.
const metaSuffix = ".meta"

// FileCache stores entries under a directory, one file per entry. Payloads
// are written raw so large PNG artifacts are not base64-inflated; an
// optional sidecar file carries the expiry time.
type FileCache struct {
	dir string
}

// NewFileCache creates a file-based cache in the given directory.
// The directory will be created if it doesn't exist.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Get retrieves a value from the cache. Expired or corrupt entries are
// removed and reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if meta, err := os.ReadFile(path + metaSuffix); err == nil {
		expires, perr := time.Parse(time.RFC3339Nano, strings.TrimSpace(string(meta)))
		if perr != nil || time.Now().After(expires) {
			_ = os.Remove(path)
			_ = os.Remove(path + metaSuffix)
			return nil, false, nil
		}
	}

	return data, true, nil
}

// Set stores a value in the cache.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}

	if ttl > 0 {
		expires := time.Now().Add(ttl).Format(time.RFC3339Nano)
		return os.WriteFile(path+metaSuffix, []byte(expires), 0o644)
	}
	// Overwriting an expiring entry with a permanent one drops the sidecar.
	_ = os.Remove(path + metaSuffix)
	return nil
}

// Delete removes a value from the cache.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	path := c.path(key)
	_ = os.Remove(path + metaSuffix)
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close does nothing for file cache.
func (c *FileCache) Close() error {
	return nil
}

// path converts a cache key to a file path.
// Uses a hash-based directory structure to avoid too many files in one dir.
func (c *FileCache) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(c.dir, hash[:2], hash[2:])
}

// Ensure FileCache implements Cache.
var _ Cache = (*FileCache)(nil)
