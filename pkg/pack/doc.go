// Package pack implements the circle packing engine.
//
// # Overview
//
// The engine fills the allowed region of a [raster.Mask] with non-overlapping
// circles, keeping a minimum gap (margin) between every pair of circle edges
// and between circles and forbidden pixels. Each placed circle is labelled
// with the mask value under its centre, which downstream renderers use to
// pick colours.
//
// The core data structure is the free-radius field: a per-pixel upper bound
// on the radius of a circle that could still be centred there. It starts as
// the Euclidean distance transform of the allowed region (clipped to the
// radius ceiling) and is repaired after every placement by an elementwise
// minimum over a bounded local window — never by a full rescan.
//
// # Modes
//
//   - Greedy: repeatedly place the largest circle that still fits, shrinking
//     the target size as space runs out, until even the smallest permitted
//     circle has no room (or an optional count cap is reached).
//   - Fixed: place a caller-supplied multiset of radii, largest first. When
//     no explicit radii are given, a seeded, small-biased random multiset is
//     sampled (see [SizeBias]).
//
// Packing is best-effort and randomized, not optimal: the candidate pixel
// for each circle is chosen uniformly over feasible pixels, which favours
// sparse and irregular regions over a physically uniform spread. Placed
// circles are never moved or removed.
//
// # Usage
//
//	m := raster.Ones(100, 100)
//	res, err := pack.Pack(m,
//	    pack.WithRadiusRange(0.05, 0.2),
//	    pack.WithMargin(1),
//	    pack.WithCount(50),
//	)
//	if err != nil {
//	    return err
//	}
//	for _, c := range res.Circles {
//	    // c.Row, c.Col, c.R, c.Label
//	}
//
// The run is strictly sequential: every placement depends on the cumulative
// field state left by all prior placements. An [Engine] must not be shared
// across goroutines.
package pack
