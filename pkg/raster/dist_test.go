package raster

import (
	"math"
	"math/rand"
	"testing"
)

// bruteEDT is the O(n^2) reference implementation used to validate the
// two-pass transform.
func bruteEDT(h, w int, inside func(row, col int) bool) []float64 {
	d := make([]float64, h*w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !inside(y, x) {
				continue
			}
			best := math.Inf(1)
			for yy := 0; yy < h; yy++ {
				for xx := 0; xx < w; xx++ {
					if inside(yy, xx) {
						continue
					}
					dist := math.Hypot(float64(y-yy), float64(x-xx))
					if dist < best {
						best = dist
					}
				}
			}
			d[y*w+x] = best
		}
	}
	return d
}

func TestEDTMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	tests := []struct {
		name string
		h, w int
		fill float64 // probability a pixel is inside
	}{
		{"small sparse", 8, 11, 0.3},
		{"small dense", 11, 8, 0.8},
		{"single row", 1, 20, 0.5},
		{"single col", 20, 1, 0.5},
		{"medium", 25, 25, 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := make([]bool, tt.h*tt.w)
			for i := range grid {
				grid[i] = rng.Float64() < tt.fill
			}
			inside := func(y, x int) bool { return grid[y*tt.w+x] }

			got := EDT(tt.h, tt.w, inside)
			want := bruteEDT(tt.h, tt.w, inside)

			for i := range want {
				if math.Abs(got[i]-want[i]) > 1e-9 {
					t.Fatalf("pixel %d: EDT = %v, want %v", i, got[i], want[i])
				}
			}
		})
	}
}

func TestEDTAllOutside(t *testing.T) {
	d := EDT(5, 5, func(y, x int) bool { return false })
	for i, v := range d {
		if v != 0 {
			t.Errorf("pixel %d: EDT = %v, want 0", i, v)
		}
	}
}

func TestEDTAllInside(t *testing.T) {
	d := EDT(3, 3, func(y, x int) bool { return true })
	for i, v := range d {
		if !math.IsInf(v, 1) {
			t.Errorf("pixel %d: EDT = %v, want +Inf", i, v)
		}
	}
}

func TestEDTCenterOfSquare(t *testing.T) {
	// 7x7 interior surrounded by a forbidden ring: centre pixel is 3 away
	// from the nearest ring pixel.
	m := Ones(9, 9)
	d := EDT(9, 9, m.Interior)
	if got := d[4*9+4]; math.Abs(got-4) > 1e-9 {
		t.Errorf("centre distance = %v, want 4", got)
	}
	if got := d[1*9+1]; math.Abs(got-1) > 1e-9 {
		t.Errorf("corner interior distance = %v, want 1", got)
	}
}
