// Package cache provides content-addressed caching for pipeline stages.
// Decoded masks, packing results, and rendered artifacts are all keyed by
// the hash of their inputs, so a repeated run with the same mask and
// options never re-packs.
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry kind. Masks and packings derive deterministically
// from their keys, so long TTLs are safe; they exist to bound disk usage.
const (
	TTLMask     = 30 * 24 * time.Hour
	TTLPack     = 30 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented cache with optional per-entry TTL.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was found; an absent key is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// PackKeyOpts holds every packing option that affects the result.
type PackKeyOpts struct {
	MinRatio float64
	MaxRatio float64
	Radii    []float64
	N        int
	Margin   float64
	Greedy   bool
	Seed     uint64
	Bias     string
}

// ArtifactKeyOpts holds every render option that affects the artifact.
type ArtifactKeyOpts struct {
	Format     string
	Palette    []string
	Background string
	Stroke     string
	Scale      float64
}

// Keyer derives cache keys for the pipeline's stages.
type Keyer interface {
	// MaskKey keys a decoded mask by the hash of its source bytes.
	MaskKey(sourceHash string) string

	// PackKey keys a packing result by mask hash and packing options.
	PackKey(maskHash string, opts PackKeyOpts) string

	// ArtifactKey keys a rendered artifact by packing hash and render
	// options.
	ArtifactKey(packHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key derivation.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// MaskKey generates a key for a decoded mask.
func (k *DefaultKeyer) MaskKey(sourceHash string) string {
	return "mask:" + sourceHash
}

// PackKey generates a key for a packing result.
func (k *DefaultKeyer) PackKey(maskHash string, opts PackKeyOpts) string {
	return hashKey("pack", maskHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(packHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", packHash, opts)
}
