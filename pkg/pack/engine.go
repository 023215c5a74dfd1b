package pack

import (
	"fmt"
	"math/rand"
	"slices"

	"github.com/dotfill/dotfill/pkg/errors"
	"github.com/dotfill/dotfill/pkg/raster"
)

// NoticeCode identifies a non-fatal configuration downgrade.
type NoticeCode string

// Notice codes. Notices are warnings, not errors: the run continues with
// degraded parameters and still returns whatever circles fit.
const (
	// NoticeMinRadiusClamped: the derived minimum radius was below one
	// pixel and has been raised to one.
	NoticeMinRadiusClamped NoticeCode = "MIN_RADIUS_CLAMPED"

	// NoticeNoRoom: the mask's largest free span is below the minimum
	// radius; nothing can be placed and the result is empty.
	NoticeNoRoom NoticeCode = "NO_ROOM"

	// NoticeCeilingLowered: the mask's largest free span is below the
	// requested maximum radius; the ceiling was lowered to fit.
	NoticeCeilingLowered NoticeCode = "CEILING_LOWERED"
)

// Notice is a non-fatal warning raised during engine construction.
type Notice struct {
	Code    NoticeCode `json:"code" bson:"code"`
	Message string     `json:"message" bson:"message"`
}

// Result is the outcome of a packing run.
type Result struct {
	// Circles in insertion order, which is also descending radius order.
	Circles []Circle

	// Field is the final free-radius field, present only when requested.
	// Pixels inside placed circles carry negative values.
	Field *Field

	// Notices raised during the run.
	Notices []Notice
}

// CoveredArea returns the total area of all placed circles in square pixels.
func (r *Result) CoveredArea() float64 {
	var a float64
	for _, c := range r.Circles {
		a += c.Area()
	}
	return a
}

// Engine owns the free-radius field for one packing run. It is not safe for
// concurrent use: placements are strictly sequential by construction, since
// each outcome depends on the field state left by all prior placements.
type Engine struct {
	mask *raster.Mask
	cfg  Config

	field      *Field
	rmin, rmax float64
	radii      []float64 // fixed-mode targets, descending; nil in greedy mode
	noRoom     bool

	rng     *rand.Rand
	circles []Circle
	notices []Notice
	scratch []int
}

// NewEngine validates the mask and configuration, builds the initial
// free-radius field, and derives the working radius bounds. Fatal problems
// (empty mask, contradictory config) return an error before any work;
// infeasible-but-recoverable situations become notices on the result.
func NewEngine(mask *raster.Mask, opts ...Option) (*Engine, error) {
	if mask == nil {
		return nil, errors.New(errors.ErrCodeInvalidMask, "mask must not be nil")
	}
	h, w := mask.Dims()
	if h == 0 || w == 0 {
		return nil, errors.New(errors.ErrCodeInvalidMask, "mask must be non-empty, got %dx%d", h, w)
	}

	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		mask: mask,
		cfg:  cfg,
		rng:  rand.New(rand.NewSource(int64(cfg.Seed))),
	}

	// Explicit radii always win over the greedy flag.
	if cfg.Greedy && len(cfg.Radii) == 0 {
		e.rmin = cfg.MinRatio * float64(mask.MinDim())
		e.rmax = cfg.MaxRatio * float64(mask.MinDim())
	} else {
		radii := cfg.Radii
		if len(radii) == 0 {
			rmin := cfg.MinRatio * float64(mask.MinDim())
			rmax := cfg.MaxRatio * float64(mask.MinDim())
			radii = SampleRadii(cfg.N, rmin, rmax, cfg.Bias, cfg.Seed)
		}
		e.radii = slices.Clone(radii)
		slices.Sort(e.radii)
		slices.Reverse(e.radii)
		e.rmax = e.radii[0]
		e.rmin = e.radii[len(e.radii)-1]
	}

	// Sub-pixel circles are meaningless on a pixel grid.
	if e.rmin < 1 {
		e.notice(NoticeMinRadiusClamped, "minimum circle radius %.3g is less than 1 pixel, clamping to 1", e.rmin)
		e.rmin = 1
	}

	e.field = newField(mask)
	switch fieldMax := e.field.Max(); {
	case fieldMax < e.rmin:
		e.notice(NoticeNoRoom, "mask max span %.3g is less than min radius %.3g: impossible to place any circles", fieldMax, e.rmin)
		e.noRoom = true
	case fieldMax < e.rmax:
		e.notice(NoticeCeilingLowered, "mask max span %.3g is less than max radius %.3g: reducing ceiling", fieldMax, e.rmax)
		e.rmax = fieldMax
	default:
		// Bounds every later repair window.
		e.field.Clip(e.rmax)
	}

	return e, nil
}

// TryPlace attempts to place one circle of radius r. It finds every pixel
// whose free radius still admits r plus the margin, picks one uniformly at
// random (uniform over pixels, not area — a deliberate bias toward sparse
// regions), records the circle, and repairs the field locally. Returns
// false when no pixel qualifies; that is a normal exhaustion signal, not an
// error, and is final for this radius at this moment.
func (e *Engine) TryPlace(r float64) (Circle, bool) {
	e.scratch = e.field.candidates(r+e.cfg.Margin, e.scratch[:0])
	if len(e.scratch) == 0 {
		return Circle{}, false
	}

	_, w := e.mask.Dims()
	idx := e.scratch[e.rng.Intn(len(e.scratch))]
	row, col := idx/w, idx%w

	c := Circle{Row: row, Col: col, R: r, Label: e.mask.At(row, col)}
	e.circles = append(e.circles, c)
	e.field.carve(row, col, r, e.rmax)

	if e.cfg.Observer != nil {
		e.cfg.Observer(c)
	}
	return c, true
}

// Run executes the configured packing policy and assembles the result.
// The engine is spent afterwards; create a new one for another run.
func (e *Engine) Run() *Result {
	if !e.noRoom {
		if e.radii == nil {
			e.runGreedy()
		} else {
			e.runFixed()
		}
	}

	res := &Result{Circles: e.circles, Notices: e.notices}
	if e.cfg.ReturnField {
		res.Field = e.field.clone()
	}
	return res
}

// runGreedy keeps placing circles at the largest size that still fits.
// When a size is exhausted, the ceiling drops to the field's true maximum
// (strictly below the failed threshold, so the loop always progresses) and
// the target shrinks with it, until even the minimum radius has no room.
func (e *Engine) runGreedy() {
	for e.rmin+e.cfg.Margin <= e.rmax {
		for {
			if e.cfg.N > 0 && len(e.circles) >= e.cfg.N {
				return
			}
			if _, ok := e.TryPlace(e.rmax - e.cfg.Margin); !ok {
				break
			}
		}
		e.rmax = e.field.Max()
	}
}

// runFixed walks the target radii in descending order. A radius that cannot
// fit under the current ceiling is skipped, unless even the smallest target
// cannot fit, which ends the run. A failed attempt refreshes the ceiling
// (the cached value may be stale after several insertions) and moves on —
// failed sizes are never retried.
func (e *Engine) runFixed() {
	smallest := e.radii[len(e.radii)-1]
	for _, r := range e.radii {
		if e.rmin+e.cfg.Margin > e.rmax {
			break
		}
		if r+e.cfg.Margin > e.rmax {
			if smallest+e.cfg.Margin > e.rmax {
				break
			}
			continue
		}
		if _, ok := e.TryPlace(r); !ok {
			e.rmax = e.field.Max()
		}
	}
}

// Circles returns the circles placed so far, in insertion order.
func (e *Engine) Circles() []Circle { return e.circles }

// Notices returns the notices raised so far.
func (e *Engine) Notices() []Notice { return e.notices }

func (e *Engine) notice(code NoticeCode, format string, args ...any) {
	e.notices = append(e.notices, Notice{Code: code, Message: fmt.Sprintf(format, args...)})
}

// Pack is the one-shot entry point: build an engine, run it, return the
// result. See the package documentation for the option surface.
func Pack(mask *raster.Mask, opts ...Option) (*Result, error) {
	e, err := NewEngine(mask, opts...)
	if err != nil {
		return nil, err
	}
	return e.Run(), nil
}
