package raster

import "math"

// edtInf is a finite stand-in for infinity in the squared-distance passes.
// Using a finite constant keeps the parabola intersection arithmetic free of
// NaNs. Any value far above the largest possible squared distance works.
const edtInf = 1e20

// EDT computes the exact Euclidean distance transform of an h×w grid: for
// every pixel where inside reports true, the distance to the nearest pixel
// where it reports false. Pixels outside get distance 0.
//
// The result is row-major. The algorithm is the Felzenszwalb–Huttenlocher
// two-pass lower-envelope transform on squared distances: one 1D pass along
// every column, one along every row, then a square root. Runs in O(h*w).
func EDT(h, w int, inside func(row, col int) bool) []float64 {
	d := make([]float64, h*w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if inside(y, x) {
				d[y*w+x] = edtInf
			}
		}
	}

	n := max(h, w)
	f := make([]float64, n)
	out := make([]float64, n)
	v := make([]int, n)
	z := make([]float64, n+1)

	// Columns first, then rows. The order is irrelevant for correctness.
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			f[y] = d[y*w+x]
		}
		dt1d(f[:h], out[:h], v[:h], z[:h+1])
		for y := 0; y < h; y++ {
			d[y*w+x] = out[y]
		}
	}
	for y := 0; y < h; y++ {
		row := d[y*w : y*w+w]
		copy(f[:w], row)
		dt1d(f[:w], out[:w], v[:w], z[:w+1])
		copy(row, out[:w])
	}

	for i, sq := range d {
		if sq >= edtInf {
			// No boundary pixel anywhere in the grid.
			d[i] = math.Inf(1)
			continue
		}
		d[i] = math.Sqrt(sq)
	}
	return d
}

// dt1d computes the 1D squared-distance transform of sample function f into
// out. v and z are scratch space for the lower envelope of parabolas: v holds
// the sample index of each parabola, z the boundaries between them.
func dt1d(f, out []float64, v []int, z []float64) {
	n := len(f)
	k := 0
	v[0] = 0
	z[0] = -edtInf
	z[1] = edtInf
	for q := 1; q < n; q++ {
		var s float64
		for {
			p := v[k]
			s = ((f[q] + float64(q*q)) - (f[p] + float64(p*p))) / float64(2*(q-p))
			if s > z[k] {
				break
			}
			k--
		}
		k++
		v[k] = q
		z[k] = s
		z[k+1] = edtInf
	}
	k = 0
	for q := 0; q < n; q++ {
		for z[k+1] < float64(q) {
			k++
		}
		p := v[k]
		out[q] = float64((q-p)*(q-p)) + f[p]
	}
}
