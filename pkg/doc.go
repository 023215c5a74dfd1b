// Package pkg provides the core libraries for dotfill circle packing.
//
// # Overview
//
// Dotfill fills arbitrary image masks with non-overlapping circles, producing
// dotted posters, stippled silhouettes, and Ishihara-style test plates. The pkg
// directory is organized into four main areas:
//
//  1. [raster] - Mask decoding (silhouette thresholding, indexed label maps)
//  2. [pack] - The packing engine (distance field, carving, placement modes)
//  3. [render] - Output formats (SVG, PNG, JSON, Graphviz contact graphs)
//  4. [pipeline] - Orchestration (mask → pack → render) with caching
//
// # Architecture
//
// The typical data flow through dotfill:
//
//	PNG/JPEG/GIF input image
//	         ↓
//	    [raster] package (threshold or index into a label mask)
//	         ↓
//	    [pack] package (distance field + greedy or fixed placement)
//	         ↓
//	    [render] package (colorize + serialize)
//	         ↓
//	    SVG/PNG/JSON/DOT output
//
// # Quick Start
//
// Pack a silhouette and render it to SVG:
//
//	import (
//	    "github.com/dotfill/dotfill/pkg/pack"
//	    "github.com/dotfill/dotfill/pkg/palette"
//	    "github.com/dotfill/dotfill/pkg/raster"
//	    "github.com/dotfill/dotfill/pkg/render"
//	)
//
//	// 1. Decode the mask
//	m, _ := raster.LoadSilhouette("shape.png", raster.DefaultThreshold, false)
//
//	// 2. Pack circles
//	res, _ := pack.Pack(m,
//	    pack.WithRadiusRange(0.005, 0.05),
//	    pack.WithSeed(42),
//	)
//
//	// 3. Render
//	h, w := m.Dims()
//	svg := render.SVG(res.Circles, w, h, palette.Default)
//
// # Main Packages
//
// ## Core Domain Logic
//
// [raster] - Image decoding into label masks. Silhouette mode thresholds
// luminance into inside/outside; indexed mode maps distinct colors to integer
// labels for multi-region plates.
//
// [pack] - The packing engine. Maintains a Euclidean distance field over the
// mask interior, carves it after each placement, and supports greedy
// (largest-first) and fixed-radii placement with deterministic seeded
// tie-breaking and center-bias modes.
//
// [render] - Serialization of packed circles: standalone SVG documents,
// anti-aliased PNG rasters, JSON exports, and Graphviz DOT contact graphs.
//
// [palette] - Color assignment. Uniform palettes cycle colors over all
// circles; grouped palettes map mask labels to color pools (the Ishihara
// plate generator builds on this).
//
// ## Infrastructure
//
// [pipeline] - Complete packing pipeline (mask → pack → render) used by the
// CLI and the HTTP server. Each stage is cached independently with
// content-addressed keys.
//
// [cache] - Cache interface with filesystem, Redis, and null backends plus
// the key derivation scheme used by the pipeline stages.
//
// [store] - Run persistence. Every pipeline execution can be recorded as a
// Run document in memory or MongoDB and queried back by ID.
//
// [config] - TOML profile and palette files for reusable packing presets.
//
// [errors] - Structured error codes shared across packages, with user-facing
// messages for the CLI and HTTP layers.
//
// [observability] - Pluggable hook interfaces for pipeline, cache, and HTTP
// instrumentation. All hooks default to no-ops.
//
// [buildinfo] - Build-time version metadata injected via ldflags.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/pack/...     # Specific package
//	go test -run Example       # Examples only
//
// [raster]: https://pkg.go.dev/github.com/dotfill/dotfill/pkg/raster
// [pack]: https://pkg.go.dev/github.com/dotfill/dotfill/pkg/pack
// [render]: https://pkg.go.dev/github.com/dotfill/dotfill/pkg/render
// [palette]: https://pkg.go.dev/github.com/dotfill/dotfill/pkg/palette
// [pipeline]: https://pkg.go.dev/github.com/dotfill/dotfill/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/dotfill/dotfill/pkg/cache
// [store]: https://pkg.go.dev/github.com/dotfill/dotfill/pkg/store
// [config]: https://pkg.go.dev/github.com/dotfill/dotfill/pkg/config
// [errors]: https://pkg.go.dev/github.com/dotfill/dotfill/pkg/errors
// [observability]: https://pkg.go.dev/github.com/dotfill/dotfill/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/dotfill/dotfill/pkg/buildinfo
package pkg
