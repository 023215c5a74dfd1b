package raster

import (
	"math"
	"slices"
)

// Mask is a 2D integer grid. Pixels with value <= 0 are forbidden; positive
// values mark allowed regions and double as region labels. The grid is
// row-major with (row, col) addressing.
type Mask struct {
	h, w int
	data []int
}

// NewMask creates an all-zero mask with the given dimensions.
func NewMask(h, w int) *Mask {
	return &Mask{h: h, w: w, data: make([]int, h*w)}
}

// Dims returns the mask's height and width.
func (m *Mask) Dims() (h, w int) { return m.h, m.w }

// MinDim returns the shorter of the mask's two dimensions.
func (m *Mask) MinDim() int {
	if m.h < m.w {
		return m.h
	}
	return m.w
}

// At returns the value at (row, col).
func (m *Mask) At(row, col int) int { return m.data[row*m.w+col] }

// Set assigns the value at (row, col).
func (m *Mask) Set(row, col, v int) { m.data[row*m.w+col] = v }

// Fill assigns v to every pixel.
func (m *Mask) Fill(v int) {
	for i := range m.data {
		m.data[i] = v
	}
}

// Labels returns the distinct positive values present in the mask, sorted
// ascending.
func (m *Mask) Labels() []int {
	seen := map[int]bool{}
	for _, v := range m.data {
		if v > 0 {
			seen[v] = true
		}
	}
	labels := make([]int, 0, len(seen))
	for v := range seen {
		labels = append(labels, v)
	}
	slices.Sort(labels)
	return labels
}

// Interior reports whether (row, col) is a pixel where a circle centre is
// admissible at all: the mask value is positive and the pixel is not on the
// outermost ring. Circles may never touch the image edge, so the border is
// always treated as forbidden.
func (m *Mask) Interior(row, col int) bool {
	if row <= 0 || col <= 0 || row >= m.h-1 || col >= m.w-1 {
		return false
	}
	return m.data[row*m.w+col] > 0
}

// Ones creates a mask filled with label 1.
func Ones(h, w int) *Mask {
	m := NewMask(h, w)
	m.Fill(1)
	return m
}

// Disc creates a mask whose pixels inside the circle of radius r centred at
// (cy, cx) carry the given label, everything else zero.
func Disc(h, w int, cy, cx, r float64, label int) *Mask {
	m := NewMask(h, w)
	r2 := r * r
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dy, dx := float64(y)-cy, float64(x)-cx
			if dy*dy+dx*dx <= r2 {
				m.Set(y, x, label)
			}
		}
	}
	return m
}

// CenteredDisc creates a disc mask centred in the grid whose radius is the
// given fraction of the shorter dimension.
func CenteredDisc(h, w int, fraction float64, label int) *Mask {
	r := fraction * math.Min(float64(h), float64(w))
	return Disc(h, w, float64(h-1)/2, float64(w-1)/2, r, label)
}
