// Package config loads dotfill.toml files: named packing profiles plus
// palette definitions, so recurring jobs don't need a wall of flags.
//
// Example:
//
//	[profiles.poster]
//	min_ratio = 0.01
//	max_ratio = 0.08
//	margin = 2.0
//	seed = 7
//	bias = "product"
//	palette = "autumn"
//
//	[palettes.autumn]
//	colors = ["#993300", "#a5c916", "#00AA66", "#FF9900"]
package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/dotfill/dotfill/pkg/errors"
	"github.com/dotfill/dotfill/pkg/pack"
	"github.com/dotfill/dotfill/pkg/palette"
)

// DefaultFilename is the file Load looks for in the working directory.
const DefaultFilename = "dotfill.toml"

// File is a parsed dotfill.toml.
type File struct {
	Profiles map[string]Profile    `toml:"profiles"`
	Palettes map[string]PaletteDef `toml:"palettes"`
}

// Profile is a named set of packing options. Zero-valued fields fall back
// to the engine defaults; pointer fields distinguish "unset" from a real
// zero.
type Profile struct {
	MinRatio float64   `toml:"min_ratio"`
	MaxRatio float64   `toml:"max_ratio"`
	Radii    []float64 `toml:"radii"`
	N        int       `toml:"n"`
	Margin   *float64  `toml:"margin"`
	Greedy   *bool     `toml:"greedy"`
	Seed     *uint64   `toml:"seed"`
	Bias     string    `toml:"bias"`
	Palette  string    `toml:"palette"`
}

// PaletteDef defines a palette: either a flat colour list applied to every
// label, or per-label groups keyed by the label number.
type PaletteDef struct {
	Colors []string            `toml:"colors"`
	Groups map[string][]string `toml:"groups"`
}

// Load parses a dotfill.toml file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return Parse(data)
}

// Parse parses dotfill.toml contents.
func Parse(data []byte) (*File, error) {
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	return &f, nil
}

// Profile looks up a named profile.
func (f *File) Profile(name string) (Profile, error) {
	p, ok := f.Profiles[name]
	if !ok {
		return Profile{}, errors.New(errors.ErrCodeInvalidProfile, "profile %q not defined", name)
	}
	return p, nil
}

// Options converts the profile into packing options.
func (p Profile) Options() ([]pack.Option, error) {
	var opts []pack.Option

	if p.MinRatio != 0 || p.MaxRatio != 0 {
		opts = append(opts, pack.WithRadiusRange(p.MinRatio, p.MaxRatio))
	}
	if len(p.Radii) > 0 {
		opts = append(opts, pack.WithRadii(p.Radii...))
	}
	if p.N > 0 {
		opts = append(opts, pack.WithCount(p.N))
	}
	if p.Margin != nil {
		opts = append(opts, pack.WithMargin(*p.Margin))
	}
	if p.Greedy != nil {
		opts = append(opts, pack.WithGreedy(*p.Greedy))
	}
	if p.Seed != nil {
		opts = append(opts, pack.WithSeed(*p.Seed))
	}
	if p.Bias != "" {
		bias, err := pack.ParseBias(p.Bias)
		if err != nil {
			return nil, err
		}
		opts = append(opts, pack.WithBias(bias))
	}
	return opts, nil
}

// Palette looks up a named palette definition and builds it for the given
// mask labels. Flat colour lists apply to every label; group definitions
// bind labels explicitly.
func (f *File) Palette(name string, labels []int) (*palette.Palette, error) {
	def, ok := f.Palettes[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidPalette, "palette %q not defined", name)
	}
	return def.Build(labels)
}

// Resolve converts the definition into either a flat colour list or
// per-label groups, whichever the file specifies.
func (d PaletteDef) Resolve() ([]string, palette.Groups, error) {
	if len(d.Groups) > 0 {
		groups := make(palette.Groups, len(d.Groups))
		for key, colors := range d.Groups {
			label, err := strconv.Atoi(key)
			if err != nil {
				return nil, nil, errors.New(errors.ErrCodeInvalidPalette, "group key %q is not a label number", key)
			}
			groups[label] = colors
		}
		return nil, groups, nil
	}
	if len(d.Colors) == 0 {
		return nil, nil, errors.New(errors.ErrCodeInvalidPalette, "palette defines neither colors nor groups")
	}
	return d.Colors, nil, nil
}

// Build constructs the palette for the given mask labels.
func (d PaletteDef) Build(labels []int) (*palette.Palette, error) {
	colors, groups, err := d.Resolve()
	if err != nil {
		return nil, err
	}
	if groups != nil {
		return palette.Build(groups)
	}
	return palette.Uniform(colors, labels)
}
