package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dotfill/dotfill/pkg/cache"
	"github.com/dotfill/dotfill/pkg/observability"
	"github.com/dotfill/dotfill/pkg/pack"
	"github.com/dotfill/dotfill/pkg/raster"
)

// cachedPacking is the serialized form of a packing result. The free-radius
// field is deliberately excluded: it is only meaningful to callers who asked
// for it on a live run.
type cachedPacking struct {
	Circles []pack.Circle `json:"circles"`
	Notices []pack.Notice `json:"notices,omitempty"`
}

// PackWithCacheInfo fills the mask with circles, with caching.
// Runs with an Observer bypass the cache: the observer wants live placement
// events, and a replayed result has none.
func (r *Runner) PackWithCacheInfo(ctx context.Context, m *raster.Mask, maskHash string, opts Options) (*pack.Result, bool, error) {
	r.applyLogger(&opts)

	cacheKey := r.Keyer.PackKey(maskHash, opts.packKeyOpts())
	useCache := !opts.Refresh && opts.Observer == nil

	// Try cache first
	if useCache {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached cachedPacking
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "pack")
				return &pack.Result{Circles: cached.Circles, Notices: cached.Notices}, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "pack")
	}

	// Pack
	greedy := opts.Greedy == nil || *opts.Greedy
	start := time.Now()
	observability.Pipeline().OnPackStart(ctx, opts.Source, greedy)
	res, err := pack.Pack(m, opts.packOptions()...)
	observability.Pipeline().OnPackComplete(ctx, opts.Source, circleCount(res), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if useCache {
		if data, err := json.Marshal(cachedPacking{Circles: res.Circles, Notices: res.Notices}); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLPack); err == nil {
				observability.Cache().OnCacheSet(ctx, "pack", len(data))
			}
		}
	}

	return res, false, nil
}

// Pack is a convenience wrapper that discards the cache hit info.
func (r *Runner) Pack(ctx context.Context, m *raster.Mask, maskHash string, opts Options) (*pack.Result, error) {
	res, _, err := r.PackWithCacheInfo(ctx, m, maskHash, opts)
	return res, err
}

func circleCount(res *pack.Result) int {
	if res == nil {
		return 0
	}
	return len(res.Circles)
}
