package pack

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/dotfill/dotfill/pkg/errors"
)

// SizeBias selects the distribution used when fixed mode has to sample its
// own radius multiset. All of them favour small circles except BiasUniform;
// which bias fits best is an aesthetic choice, so it is configuration, not
// a fixed law.
type SizeBias int

const (
	// BiasBeta draws from Beta(0.5, 1), concentrating mass near the small
	// end. This is the default.
	BiasBeta SizeBias = iota

	// BiasProduct multiplies two independent uniforms, a cheaper skew
	// toward small radii.
	BiasProduct

	// BiasUniform draws uniformly over the radius range.
	BiasUniform
)

// String returns the bias name as used in config files and CLI flags.
func (b SizeBias) String() string {
	switch b {
	case BiasBeta:
		return "beta"
	case BiasProduct:
		return "product"
	case BiasUniform:
		return "uniform"
	default:
		return fmt.Sprintf("SizeBias(%d)", int(b))
	}
}

// ParseBias converts a bias name to its SizeBias value.
func ParseBias(s string) (SizeBias, error) {
	switch s {
	case "beta", "":
		return BiasBeta, nil
	case "product":
		return BiasProduct, nil
	case "uniform":
		return BiasUniform, nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidConfig, "unknown size bias %q (want beta, product, or uniform)", s)
	}
}

// SampleRadii draws n radii in [rmin, rmax] under the given bias, seeded for
// reproducibility. The result is unsorted; the engine orders it descending
// before placement.
func SampleRadii(n int, rmin, rmax float64, bias SizeBias, seed uint64) []float64 {
	src := rand.NewSource(seed)
	span := rmax - rmin

	var draw func() float64
	switch bias {
	case BiasProduct:
		rng := rand.New(src)
		draw = func() float64 { return rng.Float64() * rng.Float64() }
	case BiasUniform:
		rng := rand.New(src)
		draw = rng.Float64
	default:
		beta := distuv.Beta{Alpha: 0.5, Beta: 1, Src: src}
		draw = beta.Rand
	}

	radii := make([]float64, n)
	for i := range radii {
		radii[i] = rmin + span*draw()
	}
	return radii
}
