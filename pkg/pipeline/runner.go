package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dotfill/dotfill/pkg/cache"
	"github.com/dotfill/dotfill/pkg/store"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, store, and logger - it
// doesn't hold pipeline results. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  store.Store
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache, keyer, and store.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
// If st is nil, runs are not persisted.
func NewRunner(c cache.Cache, keyer cache.Keyer, st store.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Store:  st,
		Logger: logger,
	}
}

// Execute runs the complete mask → pack → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Mask
	maskStart := time.Now()
	m, maskHash, maskHit, err := r.LoadMaskWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Mask = m
	result.MaskHash = maskHash
	result.Stats.MaskTime = time.Since(maskStart)
	result.CacheInfo.MaskHit = maskHit

	h, w := m.Dims()
	opts.Logger.Info("decoded mask",
		"source", opts.Source,
		"width", w,
		"height", h,
		"labels", len(m.Labels()),
		"duration", result.Stats.MaskTime)

	// Stage 2: Pack
	packStart := time.Now()
	packing, packHit, err := r.PackWithCacheInfo(ctx, m, maskHash, opts)
	if err != nil {
		return nil, err
	}
	result.Packing = packing
	result.Stats.PackTime = time.Since(packStart)
	result.Stats.CircleCount = len(packing.Circles)
	result.CacheInfo.PackHit = packHit

	for _, n := range packing.Notices {
		opts.Logger.Warn(n.Message, "code", n.Code)
	}
	opts.Logger.Info("packed circles",
		"circles", len(packing.Circles),
		"duration", result.Stats.PackTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, packing, m, maskHash, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	// Persist the run
	if r.Store != nil {
		run := store.NewRun(opts.Source, maskHash, w, h, opts.Seed, packing)
		if err := r.Store.Put(ctx, run); err != nil {
			return nil, err
		}
		result.Run = run
		opts.Logger.Debug("stored run", "id", run.ID)
	}

	return result, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
