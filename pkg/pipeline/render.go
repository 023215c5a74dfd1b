package pipeline

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/dotfill/dotfill/pkg/cache"
	"github.com/dotfill/dotfill/pkg/errors"
	"github.com/dotfill/dotfill/pkg/observability"
	"github.com/dotfill/dotfill/pkg/pack"
	"github.com/dotfill/dotfill/pkg/palette"
	"github.com/dotfill/dotfill/pkg/raster"
	"github.com/dotfill/dotfill/pkg/render"
)

// RenderWithCacheInfo generates artifacts for every requested format, with
// caching. Returns true when all artifacts came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *pack.Result, m *raster.Mask, maskHash string, opts Options) (map[string][]byte, bool, error) {
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	pal, err := opts.buildPalette(m.Labels())
	if err != nil {
		return nil, false, err
	}

	// Compute cache key from the packed circles
	circleData, err := json.Marshal(res.Circles)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeRender, err, "serialize circles for cache key")
	}
	packHash := cache.Hash(append(circleData, []byte(maskHash)...))

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(packHash, opts.artifactKeyOpts(format, pal.Colors()))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
			} else {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	// Render all formats
	colored := assignColors(res.Circles, pal, opts.Seed)
	h, w := m.Dims()
	rendered := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		start := time.Now()
		observability.Pipeline().OnRenderStart(ctx, format)
		data, err := r.renderFormat(format, res, colored, w, h, pal, opts)
		observability.Pipeline().OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, false, err
		}
		rendered[format] = data
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(packHash, opts.artifactKeyOpts(format, pal.Colors()))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, res *pack.Result, m *raster.Mask, maskHash string, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, res, m, maskHash, opts)
	return artifacts, err
}

// renderFormat produces a single artifact.
func (r *Runner) renderFormat(format string, res *pack.Result, colored []pack.Circle, w, h int, pal *palette.Palette, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		var svgOpts []render.SVGOption
		if opts.Background != "" {
			svgOpts = append(svgOpts, render.WithBackground(opts.Background))
		}
		if opts.Stroke != "" {
			svgOpts = append(svgOpts, render.WithStroke(opts.Stroke))
		}
		return render.SVG(colored, w, h, pal.Colors(), svgOpts...), nil
	case FormatPNG:
		var pngOpts []render.PNGOption
		if opts.Background != "" {
			pngOpts = append(pngOpts, render.WithPNGBackground(opts.Background))
		}
		if opts.Scale != 0 {
			pngOpts = append(pngOpts, render.WithPNGScale(opts.Scale))
		}
		return render.PNG(colored, w, h, pal.Colors(), pngOpts...)
	case FormatJSON:
		return render.JSON(res.Circles, w, h, pal.Colors(),
			render.WithJSONSeed(opts.Seed),
			render.WithJSONNotices(res.Notices))
	case FormatDOT:
		return []byte(render.ContactDOT(res.Circles, opts.margin())), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q", format)
	}
}

// assignColors maps each circle's region label to a palette colour index,
// picking uniformly among the label's colour group. Circles whose label has
// no group get index -1, which renderers skip.
func assignColors(circles []pack.Circle, pal *palette.Palette, seed uint64) []pack.Circle {
	rng := rand.New(rand.NewSource(int64(seed)))
	out := make([]pack.Circle, len(circles))
	for i, c := range circles {
		idx, ok := pal.Pick(c.Label, rng)
		if !ok {
			idx = -1
		}
		c.Label = idx
		out[i] = c
	}
	return out
}
