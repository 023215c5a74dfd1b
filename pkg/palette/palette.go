// Package palette maps mask labels to SVG colours.
//
// A [Palette] holds a deduplicated list of colours plus, per mask label, the
// set of colour indices that label may use. Renderers consume the colour
// list as a CSS class table; the per-label groups drive the random
// colour-per-circle selection used by multi-region patterns, where every
// circle in a region picks one of the region's colours at random.
package palette

import (
	"fmt"
	"math/rand"
	"regexp"
	"slices"

	"github.com/dotfill/dotfill/pkg/errors"
)

var hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateColor checks that a colour is a 3- or 6-digit hex specifier.
func ValidateColor(c string) error {
	if !hexColorRe.MatchString(c) {
		return errors.New(errors.ErrCodeInvalidPalette, "invalid colour %q (want #rgb or #rrggbb)", c)
	}
	return nil
}

// Groups maps a mask label to the colours circles in that region may use.
type Groups map[int][]string

// Palette is a deduplicated colour table with per-label colour groups.
type Palette struct {
	colors []string
	groups map[int][]int
}

// Build constructs a palette from label groups. Colours are validated,
// deduplicated, and sorted for a stable class table.
func Build(groups Groups) (*Palette, error) {
	seen := map[string]bool{}
	for label, colors := range groups {
		if len(colors) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidPalette, "label %d has no colours", label)
		}
		for _, c := range colors {
			if err := ValidateColor(c); err != nil {
				return nil, err
			}
			seen[c] = true
		}
	}

	colors := make([]string, 0, len(seen))
	for c := range seen {
		colors = append(colors, c)
	}
	slices.Sort(colors)

	index := make(map[string]int, len(colors))
	for i, c := range colors {
		index[c] = i
	}

	p := &Palette{colors: colors, groups: make(map[int][]int, len(groups))}
	for label, cs := range groups {
		idxs := make([]int, len(cs))
		for i, c := range cs {
			idxs[i] = index[c]
		}
		p.groups[label] = idxs
	}
	return p, nil
}

// Uniform builds a palette where every listed label may use every colour.
func Uniform(colors []string, labels []int) (*Palette, error) {
	groups := make(Groups, len(labels))
	for _, l := range labels {
		groups[l] = colors
	}
	return Build(groups)
}

// Colors returns the deduplicated colour table, indexable by the values
// [Pick] returns.
func (p *Palette) Colors() []string { return p.colors }

// Pick chooses a random colour index for the given label. Returns false
// when the label has no colour group.
func (p *Palette) Pick(label int, rng *rand.Rand) (int, bool) {
	idxs, ok := p.groups[label]
	if !ok {
		return 0, false
	}
	return idxs[rng.Intn(len(idxs))], true
}

// Labels returns the labels the palette covers, sorted ascending.
func (p *Palette) Labels() []int {
	labels := make([]int, 0, len(p.groups))
	for l := range p.groups {
		labels = append(labels, l)
	}
	slices.Sort(labels)
	return labels
}

// String summarizes the palette for logs.
func (p *Palette) String() string {
	return fmt.Sprintf("palette(%d colours, %d labels)", len(p.colors), len(p.groups))
}

// Default is the stock four-colour palette used when the caller supplies
// nothing else.
var Default = []string{"#993300", "#a5c916", "#00AA66", "#FF9900"}

// Ishihara test plate palettes: the digit region uses green tones, the
// distractor field orange tones, so the figure disappears for red-green
// deficient observers.
var (
	IshiharaDigit      = []string{"#669f6c", "#2a8263", "#6a742e", "#a0a352"}
	IshiharaDistractor = []string{"#cf5826", "#fca961", "#fb8544"}
)

// Ishihara builds the standard two-region test plate palette: label 1 is
// the digit, label 2 the distractor field.
func Ishihara() *Palette {
	p, err := Build(Groups{1: IshiharaDigit, 2: IshiharaDistractor})
	if err != nil {
		// Static colour tables; cannot fail.
		panic(err)
	}
	return p
}
