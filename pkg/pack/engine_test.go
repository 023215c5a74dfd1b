package pack

import (
	"math"
	"slices"
	"testing"

	"github.com/dotfill/dotfill/pkg/errors"
	"github.com/dotfill/dotfill/pkg/raster"
)

// checkPacking asserts the core geometric guarantees on a result: pairwise
// separation, clearance from forbidden pixels and image edges, and correct
// labels.
func checkPacking(t *testing.T, m *raster.Mask, circles []Circle, margin float64) {
	t.Helper()

	h, w := m.Dims()
	free := raster.EDT(h, w, m.Interior)

	for i, c := range circles {
		if got := free[c.Row*w+c.Col]; got+1e-9 < c.R+margin {
			t.Errorf("circle %d at (%d,%d) r=%v: clearance %v < r+margin", i, c.Row, c.Col, c.R, got)
		}
		if c.Label != m.At(c.Row, c.Col) {
			t.Errorf("circle %d: label = %d, want mask value %d", i, c.Label, m.At(c.Row, c.Col))
		}
		for j := i + 1; j < len(circles); j++ {
			o := circles[j]
			if d := c.Dist(o); d+1e-9 < c.R+o.R+margin {
				t.Errorf("circles %d and %d overlap: dist %v < %v", i, j, d, c.R+o.R+margin)
			}
		}
	}
}

func TestNewEngineValidation(t *testing.T) {
	tests := []struct {
		name string
		mask *raster.Mask
		opts []Option
		code errors.Code
	}{
		{
			name: "nil mask",
			mask: nil,
			code: errors.ErrCodeInvalidMask,
		},
		{
			name: "empty mask",
			mask: raster.NewMask(0, 0),
			code: errors.ErrCodeInvalidMask,
		},
		{
			name: "non-greedy without radii or count",
			mask: raster.Ones(50, 50),
			opts: []Option{WithGreedy(false)},
			code: errors.ErrCodeInvalidConfig,
		},
		{
			name: "negative margin",
			mask: raster.Ones(50, 50),
			opts: []Option{WithMargin(-1)},
			code: errors.ErrCodeInvalidConfig,
		},
		{
			name: "non-positive radius",
			mask: raster.Ones(50, 50),
			opts: []Option{WithRadii(10, 0)},
			code: errors.ErrCodeInvalidConfig,
		},
		{
			name: "inverted radius range",
			mask: raster.Ones(50, 50),
			opts: []Option{WithRadiusRange(0.2, 0.1)},
			code: errors.ErrCodeInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine(tt.mask, tt.opts...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), tt.code)
			}
		})
	}
}

func TestPackAllZeroMask(t *testing.T) {
	res, err := Pack(raster.NewMask(64, 64))
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if len(res.Circles) != 0 {
		t.Errorf("got %d circles, want 0", len(res.Circles))
	}
	found := false
	for _, n := range res.Notices {
		if n.Code == NoticeNoRoom {
			found = true
		}
	}
	if !found {
		t.Errorf("notices = %v, want NO_ROOM", res.Notices)
	}
}

func TestPackGreedyEndToEnd(t *testing.T) {
	m := raster.Ones(100, 100)
	res, err := Pack(m,
		WithRadiusRange(0.05, 0.2),
		WithMargin(1),
		WithCount(50),
		WithSeed(7),
	)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}

	if len(res.Circles) == 0 {
		t.Fatal("expected a non-empty packing")
	}
	if len(res.Circles) > 50 {
		t.Errorf("got %d circles, want <= 50", len(res.Circles))
	}

	checkPacking(t, m, res.Circles, 1)

	rmin, rmax := 0.05*100.0, 0.2*100.0
	for i, c := range res.Circles {
		if c.R < rmin-1e-9 || c.R > rmax+1e-9 {
			t.Errorf("circle %d: r = %v outside [%v, %v]", i, c.R, rmin, rmax)
		}
		if i > 0 && c.R > res.Circles[i-1].R+1e-9 {
			t.Errorf("circle %d: radius %v increased after %v", i, c.R, res.Circles[i-1].R)
		}
	}
}

func TestPackFixedRadii(t *testing.T) {
	m := raster.Ones(100, 100)
	requested := []float64{20, 15, 15, 10, 5, 5, 5}

	res, err := Pack(m, WithRadii(requested...), WithMargin(1), WithSeed(3))
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if len(res.Circles) == 0 {
		t.Fatal("expected a non-empty packing")
	}

	checkPacking(t, m, res.Circles, 1)

	// Output radii must be a subsequence of the requested list sorted
	// descending, and non-increasing in insertion order.
	sorted := slices.Clone(requested)
	slices.Sort(sorted)
	slices.Reverse(sorted)

	j := 0
	for i, c := range res.Circles {
		if i > 0 && c.R > res.Circles[i-1].R {
			t.Errorf("circle %d: radius %v increased after %v", i, c.R, res.Circles[i-1].R)
		}
		for j < len(sorted) && sorted[j] != c.R {
			j++
		}
		if j == len(sorted) {
			t.Fatalf("placed radius %v is not a subsequence match of %v", c.R, sorted)
		}
		j++
	}
}

func TestPackCeilingLoweredNotice(t *testing.T) {
	// A 20x20 mask has max span 10 from centre to edge; ratio 0.9 asks for
	// radius 18, so the ceiling must drop.
	res, err := Pack(raster.Ones(20, 20), WithRadiusRange(0.05, 0.9), WithSeed(1))
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	found := false
	for _, n := range res.Notices {
		if n.Code == NoticeCeilingLowered {
			found = true
		}
	}
	if !found {
		t.Errorf("notices = %v, want CEILING_LOWERED", res.Notices)
	}
}

func TestPackMinRadiusClamped(t *testing.T) {
	res, err := Pack(raster.Ones(50, 50), WithRadiusRange(0.001, 0.1))
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	found := false
	for _, n := range res.Notices {
		if n.Code == NoticeMinRadiusClamped {
			found = true
		}
	}
	if !found {
		t.Errorf("notices = %v, want MIN_RADIUS_CLAMPED", res.Notices)
	}
	for i, c := range res.Circles {
		if c.R < 1 {
			t.Errorf("circle %d: r = %v below one pixel", i, c.R)
		}
	}
}

func TestPackTightMaskAtMostOne(t *testing.T) {
	// Interior free span equals the minimum radius: at most one circle fits.
	m := raster.Ones(9, 9) // max free span 4
	res, err := Pack(m, WithRadii(4), WithMargin(0))
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if len(res.Circles) > 1 {
		t.Errorf("got %d circles, want at most 1", len(res.Circles))
	}
	checkPacking(t, m, res.Circles, 0)
}

func TestFieldMonotoneAcrossPlacements(t *testing.T) {
	e, err := NewEngine(raster.Ones(60, 60), WithRadiusRange(0.05, 0.2), WithSeed(9))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	prev := e.field.clone()
	for _, r := range []float64{8, 6, 5, 4, 3, 3, 2} {
		if _, ok := e.TryPlace(r); !ok {
			continue
		}
		for i := range e.field.data {
			if e.field.data[i] > prev.data[i]+1e-12 {
				t.Fatalf("field increased at pixel %d after r=%v placement", i, r)
			}
		}
		prev = e.field.clone()
	}
}

func TestPackReturnField(t *testing.T) {
	res, err := Pack(raster.Ones(60, 60),
		WithRadiusRange(0.1, 0.2),
		WithCount(3),
		WithReturnField(),
	)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if res.Field == nil {
		t.Fatal("expected final field on result")
	}

	// Every circle centre must sit on a negative field value (occupied).
	for i, c := range res.Circles {
		if res.Field.At(c.Row, c.Col) >= 0 {
			t.Errorf("circle %d: field at centre = %v, want negative", i, res.Field.At(c.Row, c.Col))
		}
	}

	// Without the flag, no field is attached.
	res2, err := Pack(raster.Ones(60, 60), WithCount(3))
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if res2.Field != nil {
		t.Error("field attached without WithReturnField")
	}
}

func TestPackDeterministicBySeed(t *testing.T) {
	m := raster.Ones(80, 80)
	opts := func(seed uint64) []Option {
		return []Option{WithRadiusRange(0.05, 0.15), WithCount(20), WithSeed(seed)}
	}

	a, err := Pack(m, opts(11)...)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	b, err := Pack(m, opts(11)...)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if !slices.Equal(a.Circles, b.Circles) {
		t.Error("same seed produced different packings")
	}

	c, err := Pack(m, opts(12)...)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if slices.Equal(a.Circles, c.Circles) {
		t.Error("different seeds produced identical packings")
	}
}

func TestPackDiscLabels(t *testing.T) {
	m := raster.CenteredDisc(100, 100, 0.4, 3)
	res, err := Pack(m, WithRadiusRange(0.02, 0.1), WithMargin(1), WithSeed(5))
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if len(res.Circles) == 0 {
		t.Fatal("expected circles inside the disc")
	}
	checkPacking(t, m, res.Circles, 1)
	for i, c := range res.Circles {
		if c.Label != 3 {
			t.Errorf("circle %d: label = %d, want 3", i, c.Label)
		}
	}
}

func TestPackObserver(t *testing.T) {
	var seen []Circle
	res, err := Pack(raster.Ones(80, 80),
		WithRadiusRange(0.05, 0.15),
		WithCount(10),
		WithObserver(func(c Circle) { seen = append(seen, c) }),
	)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if !slices.Equal(seen, res.Circles) {
		t.Errorf("observer saw %d circles, result has %d", len(seen), len(res.Circles))
	}
}

func TestCoveredArea(t *testing.T) {
	res := &Result{Circles: []Circle{{R: 1}, {R: 2}}}
	want := math.Pi * (1 + 4)
	if got := res.CoveredArea(); math.Abs(got-want) > 1e-9 {
		t.Errorf("CoveredArea() = %v, want %v", got, want)
	}
}
