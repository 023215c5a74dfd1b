package pack

import (
	"slices"
	"testing"

	"github.com/dotfill/dotfill/pkg/raster"
)

func TestSampleRadiiBounds(t *testing.T) {
	for _, bias := range []SizeBias{BiasBeta, BiasProduct, BiasUniform} {
		t.Run(bias.String(), func(t *testing.T) {
			radii := SampleRadii(500, 2, 10, bias, 1)
			if len(radii) != 500 {
				t.Fatalf("got %d radii, want 500", len(radii))
			}
			for _, r := range radii {
				if r < 2 || r > 10 {
					t.Fatalf("radius %v outside [2, 10]", r)
				}
			}
		})
	}
}

func TestSampleRadiiDeterministic(t *testing.T) {
	a := SampleRadii(50, 1, 5, BiasBeta, 42)
	b := SampleRadii(50, 1, 5, BiasBeta, 42)
	if !slices.Equal(a, b) {
		t.Error("same seed produced different samples")
	}
	c := SampleRadii(50, 1, 5, BiasBeta, 43)
	if slices.Equal(a, c) {
		t.Error("different seeds produced identical samples")
	}
}

func TestSampleRadiiBiasedSmall(t *testing.T) {
	// Both small-biased laws should land well below the midpoint on
	// average; uniform should straddle it.
	mean := func(radii []float64) float64 {
		var s float64
		for _, r := range radii {
			s += r
		}
		return s / float64(len(radii))
	}

	beta := mean(SampleRadii(5000, 0, 1, BiasBeta, 7))
	product := mean(SampleRadii(5000, 0, 1, BiasProduct, 7))
	uniform := mean(SampleRadii(5000, 0, 1, BiasUniform, 7))

	if beta >= 0.45 {
		t.Errorf("beta mean = %v, want < 0.45", beta)
	}
	if product >= 0.35 {
		t.Errorf("product mean = %v, want < 0.35", product)
	}
	if uniform < 0.45 || uniform > 0.55 {
		t.Errorf("uniform mean = %v, want about 0.5", uniform)
	}
}

func TestParseBias(t *testing.T) {
	tests := []struct {
		in      string
		want    SizeBias
		wantErr bool
	}{
		{"beta", BiasBeta, false},
		{"", BiasBeta, false},
		{"product", BiasProduct, false},
		{"uniform", BiasUniform, false},
		{"gaussian", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseBias(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBias(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseBias(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPackSampledFixedMode(t *testing.T) {
	// Fixed mode without explicit radii samples its own multiset: the run
	// must succeed and produce non-increasing radii within the ratio bounds.
	m := raster.Ones(100, 100)
	res, err := Pack(m,
		WithGreedy(false),
		WithCount(30),
		WithRadiusRange(0.02, 0.1),
		WithBias(BiasProduct),
		WithSeed(4),
	)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if len(res.Circles) == 0 {
		t.Fatal("expected circles from sampled fixed mode")
	}
	if len(res.Circles) > 30 {
		t.Errorf("got %d circles, want <= 30", len(res.Circles))
	}
	for i, c := range res.Circles {
		if c.R < 1 || c.R > 0.1*100+1e-9 {
			t.Errorf("circle %d: r = %v outside bounds", i, c.R)
		}
		if i > 0 && c.R > res.Circles[i-1].R {
			t.Errorf("circle %d: radius increased", i)
		}
	}
}
