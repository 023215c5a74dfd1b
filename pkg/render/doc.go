// Package render turns packed circle lists into output documents.
//
// # Sinks
//
//   - [SVG]: vector document with a CSS class per palette colour; circles
//     reference their colour through their label index
//   - [PNG]: direct rasterization via fogleman/gg
//   - [JSON]: machine-readable layout for caching and APIs
//   - [ContactDOT] / [ContactSVG]: a Graphviz diagram of the packing's
//     tangency graph, useful for debugging margin behaviour
//
// All sinks tolerate an empty circle list — "nothing fit" is a valid
// packing outcome and renders as an empty canvas.
//
// The circle-list contract is the one the packing engine guarantees: every
// label is a value present in the input mask. Callers remapping labels to
// palette indices (see the palette package) must keep indices within the
// colour table; the SVG sink emits whatever class the label names and
// leaves dangling classes unstyled, the PNG sink skips circles whose label
// does not index the colour table.
package render
