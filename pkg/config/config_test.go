package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dotfill/dotfill/pkg/errors"
)

const sampleConfig = `
[profiles.poster]
min_ratio = 0.01
max_ratio = 0.08
margin = 2.0
seed = 7
bias = "product"
palette = "autumn"

[profiles.stamps]
radii = [20.0, 15.0, 10.0]
greedy = false

[palettes.autumn]
colors = ["#993300", "#a5c916", "#00AA66", "#FF9900"]

[palettes.plate]
[palettes.plate.groups]
1 = ["#669f6c", "#2a8263"]
2 = ["#cf5826", "#fca961"]
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(sampleConfig))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	p, err := f.Profile("poster")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if p.MinRatio != 0.01 || p.MaxRatio != 0.08 {
		t.Errorf("radius range = %v..%v", p.MinRatio, p.MaxRatio)
	}
	if p.Margin == nil || *p.Margin != 2.0 {
		t.Errorf("margin = %v, want 2.0", p.Margin)
	}
	if p.Seed == nil || *p.Seed != 7 {
		t.Errorf("seed = %v, want 7", p.Seed)
	}
	if p.Palette != "autumn" {
		t.Errorf("palette = %q", p.Palette)
	}

	opts, err := p.Options()
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if len(opts) != 4 {
		t.Errorf("got %d options, want 4 (range, margin, seed, bias)", len(opts))
	}
}

func TestProfileRadii(t *testing.T) {
	f, err := Parse([]byte(sampleConfig))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p, err := f.Profile("stamps")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if len(p.Radii) != 3 {
		t.Fatalf("radii = %v", p.Radii)
	}
	if p.Greedy == nil || *p.Greedy {
		t.Error("greedy should parse as explicit false")
	}
	if _, err := p.Options(); err != nil {
		t.Errorf("Options: %v", err)
	}
}

func TestProfileNotDefined(t *testing.T) {
	f, err := Parse([]byte(sampleConfig))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := f.Profile("nope"); !errors.Is(err, errors.ErrCodeInvalidProfile) {
		t.Errorf("expected invalid profile error, got %v", err)
	}
}

func TestProfileBadBias(t *testing.T) {
	f, err := Parse([]byte("[profiles.p]\nbias = \"cubic\"\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p, _ := f.Profile("p")
	if _, err := p.Options(); err == nil {
		t.Error("unknown bias should fail option conversion")
	}
}

func TestPaletteUniform(t *testing.T) {
	f, err := Parse([]byte(sampleConfig))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p, err := f.Palette("autumn", []int{1, 2})
	if err != nil {
		t.Fatalf("Palette: %v", err)
	}
	if len(p.Colors()) != 4 {
		t.Errorf("got %d colours, want 4", len(p.Colors()))
	}
	if got := p.Labels(); len(got) != 2 {
		t.Errorf("labels = %v, want [1 2]", got)
	}
}

func TestPaletteGroups(t *testing.T) {
	f, err := Parse([]byte(sampleConfig))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p, err := f.Palette("plate", nil)
	if err != nil {
		t.Fatalf("Palette: %v", err)
	}
	if got := p.Labels(); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("labels = %v, want [1 2]", got)
	}
}

func TestPaletteEmptyDefinition(t *testing.T) {
	f, err := Parse([]byte("[palettes.empty]\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := f.Palette("empty", []int{0}); !errors.Is(err, errors.ErrCodeInvalidPalette) {
		t.Errorf("expected invalid palette error, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFilename)
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(f.Profiles) != 2 {
		t.Errorf("got %d profiles, want 2", len(f.Profiles))
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file should map to file-not-found, got %v", err)
	}
}
