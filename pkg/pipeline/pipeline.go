// Package pipeline provides the core packing pipeline for dotfill.
//
// This package implements the complete mask → pack → render pipeline that
// can be used by CLI and API components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Mask: Decode an input image into a region mask
//  2. Pack: Fill the mask's allowed regions with non-overlapping circles
//  3. Render: Generate output in various formats (SVG, PNG, JSON, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, store, logger)
//	opts := pipeline.Options{
//	    Source:  "shape.png",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/dotfill/dotfill/pkg/cache"
	"github.com/dotfill/dotfill/pkg/errors"
	"github.com/dotfill/dotfill/pkg/pack"
	"github.com/dotfill/dotfill/pkg/palette"
	"github.com/dotfill/dotfill/pkg/raster"
	"github.com/dotfill/dotfill/pkg/store"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultScale is the default PNG resolution multiplier.
	DefaultScale = 1.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the packing pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Mask options
	Source    string `json:"source,omitempty"`     // image path
	ImageData []byte `json:"image_data,omitempty"` // raw image bytes, overrides Source
	Threshold *uint8 `json:"threshold,omitempty"`  // silhouette luminance cutoff, nil for the default
	Invert    bool   `json:"invert,omitempty"`     // fill the background instead of the shape
	Indexed   bool   `json:"indexed,omitempty"`    // multi-region mask from distinct luminances
	Refresh   bool   `json:"refresh,omitempty"`    // bypass cached results

	// Pack options
	MinRatio float64   `json:"min_ratio,omitempty"`
	MaxRatio float64   `json:"max_ratio,omitempty"`
	Radii    []float64 `json:"radii,omitempty"`
	N        int       `json:"n,omitempty"`
	Margin   *float64  `json:"margin,omitempty"`
	Greedy   *bool     `json:"greedy,omitempty"`
	Seed     uint64    `json:"seed,omitempty"`
	Bias     string    `json:"bias,omitempty"`

	// Render options
	Formats    []string       `json:"formats,omitempty"`
	Palette    []string       `json:"palette,omitempty"` // flat colour list for every label
	Groups     palette.Groups `json:"groups,omitempty"`  // per-label colour groups, overrides Palette
	Background string         `json:"background,omitempty"`
	Stroke     string         `json:"stroke,omitempty"`
	Scale      float64        `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger       `json:"-"`
	Observer func(pack.Circle) `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Mask is the decoded region mask.
	Mask *raster.Mask

	// MaskHash identifies the decoded mask (source bytes + decode options).
	MaskHash string

	// Packing is the raw packing result.
	Packing *pack.Result

	// Run is the persisted run record, nil when the runner has no store.
	Run *store.Run

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	CircleCount int
	MaskTime    time.Duration
	PackTime    time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	MaskHit   bool // Whether the decoded mask came from cache
	PackHit   bool // Whether the packing came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForMask(); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Bias != "" {
		if _, err := pack.ParseBias(o.Bias); err != nil {
			return err
		}
	}

	if o.Threshold == nil {
		t := raster.DefaultThreshold
		o.Threshold = &t
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	o.validated = true
	return nil
}

// ValidateForMask checks the options needed by the mask stage.
func (o *Options) ValidateForMask() error {
	if o.Source == "" && len(o.ImageData) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "either source path or image data is required")
	}
	return nil
}

// packOptions converts pipeline options into engine options.
func (o *Options) packOptions() []pack.Option {
	var opts []pack.Option
	if o.MinRatio != 0 || o.MaxRatio != 0 {
		opts = append(opts, pack.WithRadiusRange(o.MinRatio, o.MaxRatio))
	}
	if len(o.Radii) > 0 {
		opts = append(opts, pack.WithRadii(o.Radii...))
	}
	if o.N > 0 {
		opts = append(opts, pack.WithCount(o.N))
	}
	if o.Margin != nil {
		opts = append(opts, pack.WithMargin(*o.Margin))
	}
	if o.Greedy != nil {
		opts = append(opts, pack.WithGreedy(*o.Greedy))
	}
	opts = append(opts, pack.WithSeed(o.Seed))
	if o.Bias != "" {
		// Validated earlier; ParseBias cannot fail here.
		bias, _ := pack.ParseBias(o.Bias)
		opts = append(opts, pack.WithBias(bias))
	}
	if o.Observer != nil {
		opts = append(opts, pack.WithObserver(o.Observer))
	}
	return opts
}

// packKeyOpts maps the options that affect packing onto a cache key.
func (o *Options) packKeyOpts() cache.PackKeyOpts {
	margin := -1.0
	if o.Margin != nil {
		margin = *o.Margin
	}
	greedy := true
	if o.Greedy != nil {
		greedy = *o.Greedy
	}
	return cache.PackKeyOpts{
		MinRatio: o.MinRatio,
		MaxRatio: o.MaxRatio,
		Radii:    o.Radii,
		N:        o.N,
		Margin:   margin,
		Greedy:   greedy,
		Seed:     o.Seed,
		Bias:     o.Bias,
	}
}

// artifactKeyOpts maps the options that affect one rendered format onto a
// cache key.
func (o *Options) artifactKeyOpts(format string, colors []string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Palette:    colors,
		Background: o.Background,
		Stroke:     o.Stroke,
		Scale:      o.Scale,
	}
}

// buildPalette constructs the palette for the given mask labels.
func (o *Options) buildPalette(labels []int) (*palette.Palette, error) {
	if len(o.Groups) > 0 {
		return palette.Build(o.Groups)
	}
	colors := o.Palette
	if len(colors) == 0 {
		colors = palette.Default
	}
	return palette.Uniform(colors, labels)
}

// margin returns the effective margin for contact diagrams.
func (o *Options) margin() float64 {
	if o.Margin != nil {
		return *o.Margin
	}
	return pack.DefaultConfig().Margin
}
