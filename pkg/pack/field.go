package pack

import (
	"math"

	"github.com/dotfill/dotfill/pkg/raster"
)

// Field is the live free-radius field: for every pixel, an upper bound on
// the radius of a circle that could still be centred there without crossing
// the forbidden region or any circle placed so far. Values only ever
// decrease over a packing run. Pixels inside placed circles go negative
// (distance to the circle's centre minus its radius).
type Field struct {
	h, w int
	data []float64
}

// newField builds the initial field for a mask: the exact Euclidean
// distance from every interior pixel to the nearest forbidden pixel,
// with the outermost ring of the image always counted as forbidden.
func newField(m *raster.Mask) *Field {
	h, w := m.Dims()
	return &Field{h: h, w: w, data: raster.EDT(h, w, m.Interior)}
}

// Dims returns the field's height and width.
func (f *Field) Dims() (h, w int) { return f.h, f.w }

// At returns the field value at (row, col).
func (f *Field) At(row, col int) float64 { return f.data[row*f.w+col] }

// Max returns the current maximum field value, or 0 for an empty field.
func (f *Field) Max() float64 {
	m := 0.0
	for i, v := range f.data {
		if i == 0 || v > m {
			m = v
		}
	}
	return m
}

// Clip lowers every value above ceiling to ceiling. This bounds the size of
// every later repair window: a circle can never be asked to exceed the
// ceiling, so larger bounds carry no information.
func (f *Field) Clip(ceiling float64) {
	for i, v := range f.data {
		if v > ceiling {
			f.data[i] = ceiling
		}
	}
}

// candidates appends to buf the flat indices of all pixels whose field value
// is at least min, and returns the extended slice.
func (f *Field) candidates(min float64, buf []int) []int {
	for i, v := range f.data {
		if v >= min {
			buf = append(buf, i)
		}
	}
	return buf
}

// carve repairs the field after placing a circle of radius r at (row, col).
// Only pixels within r+ceiling of the centre can have their bound tightened:
// farther away, distance minus r already exceeds the ceiling every field
// value respects. The repair is an elementwise minimum with the new
// constraint over that clipped square window, O(window area).
func (f *Field) carve(row, col int, r, ceiling float64) {
	m := int(math.Ceil(r + ceiling))
	y0, y1 := row-m, row+m
	x0, x1 := col-m, col+m
	if y0 < 0 {
		y0 = 0
	}
	if x0 < 0 {
		x0 = 0
	}
	if y1 > f.h-1 {
		y1 = f.h - 1
	}
	if x1 > f.w-1 {
		x1 = f.w - 1
	}
	for y := y0; y <= y1; y++ {
		dy := float64(y - row)
		base := y * f.w
		for x := x0; x <= x1; x++ {
			d := math.Hypot(dy, float64(x-col)) - r
			if d < f.data[base+x] {
				f.data[base+x] = d
			}
		}
	}
}

// clone returns a deep copy of the field, used for the optional field
// snapshot on results.
func (f *Field) clone() *Field {
	data := make([]float64, len(f.data))
	copy(data, f.data)
	return &Field{h: f.h, w: f.w, data: data}
}
