// Package raster provides the grid types and array-geometry primitives that
// the packing engine builds on.
//
// # Core Types
//
//   - [Mask]: a 2D integer grid marking where circles may be centred.
//     Zero (or negative) pixels are forbidden; positive values double as
//     region labels that end up on the packed circles.
//
// # Distance Transforms
//
// [EDT] computes the exact Euclidean distance from every interior pixel to
// the nearest non-interior pixel using the Felzenszwalb–Huttenlocher
// two-pass algorithm. This is the primitive behind the packer's initial
// free-radius field.
//
// # Mask Acquisition
//
// Masks come from three places:
//
//   - Synthetic builders ([Ones], [Disc]) for demos and tests
//   - [LoadSilhouette]: thresholded luminance of an image file, for filling
//     black-on-white shapes
//   - [LoadIndexed]: distinct pixel values mapped to sorted indices, for
//     multi-region patterns such as colour-vision test plates
package raster
