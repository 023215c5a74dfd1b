package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/disintegration/imaging"

	"github.com/dotfill/dotfill/pkg/cache"
	"github.com/dotfill/dotfill/pkg/errors"
	"github.com/dotfill/dotfill/pkg/observability"
	"github.com/dotfill/dotfill/pkg/raster"
)

// LoadMaskWithCacheInfo decodes the input image into a mask, with caching.
// The returned hash identifies the decoded mask: it covers the source bytes
// and every decode option, so it doubles as the pack stage's cache input.
func (r *Runner) LoadMaskWithCacheInfo(ctx context.Context, opts Options) (*raster.Mask, string, bool, error) {
	if err := opts.ValidateForMask(); err != nil {
		return nil, "", false, err
	}
	r.applyLogger(&opts)

	data := opts.ImageData
	if len(data) == 0 {
		var err error
		data, err = os.ReadFile(opts.Source)
		if os.IsNotExist(err) {
			return nil, "", false, errors.Wrap(errors.ErrCodeFileNotFound, err, "image %s", opts.Source)
		}
		if err != nil {
			return nil, "", false, errors.Wrap(errors.ErrCodeMaskLoad, err, "read image %s", opts.Source)
		}
	}

	threshold := raster.DefaultThreshold
	if opts.Threshold != nil {
		threshold = *opts.Threshold
	}
	maskHash := cache.Hash([]byte(fmt.Sprintf("%s:%d:%t:%t",
		cache.Hash(data), threshold, opts.Invert, opts.Indexed)))
	cacheKey := r.Keyer.MaskKey(maskHash)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if cached, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var m raster.Mask
			if err := json.Unmarshal(cached, &m); err == nil {
				observability.Cache().OnCacheHit(ctx, "mask")
				return &m, maskHash, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "mask")
	}

	// Decode
	start := time.Now()
	observability.Pipeline().OnMaskStart(ctx, opts.Source)
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		err = errors.Wrap(errors.ErrCodeMaskLoad, err, "decode image %s", opts.Source)
		observability.Pipeline().OnMaskComplete(ctx, opts.Source, 0, 0, time.Since(start), err)
		return nil, "", false, err
	}

	var m *raster.Mask
	if opts.Indexed {
		m = raster.Indexed(img)
	} else {
		m = raster.Silhouette(img, threshold, opts.Invert)
	}
	h, w := m.Dims()
	observability.Pipeline().OnMaskComplete(ctx, opts.Source, w, h, time.Since(start), nil)

	// Cache the result
	if data, err := json.Marshal(m); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLMask); err == nil {
			observability.Cache().OnCacheSet(ctx, "mask", len(data))
		}
	}

	return m, maskHash, false, nil
}

// LoadMask is a convenience wrapper that discards the cache hit info.
func (r *Runner) LoadMask(ctx context.Context, opts Options) (*raster.Mask, string, error) {
	m, hash, _, err := r.LoadMaskWithCacheInfo(ctx, opts)
	return m, hash, err
}
