package raster

import (
	"image"
	"image/color"
	"slices"

	"github.com/disintegration/imaging"

	"github.com/dotfill/dotfill/pkg/errors"
)

// DefaultThreshold is the luminance cutoff for silhouette masks. Pixels at or
// below it (dark ink) become label 1.
const DefaultThreshold uint8 = 128

// LoadSilhouette reads an image file and converts it to a binary mask: dark
// pixels (luminance <= threshold) become label 1, light pixels 0. With invert
// set, the roles swap, which fills the background instead of the shape.
func LoadSilhouette(path string, threshold uint8, invert bool) (*Mask, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMaskLoad, err, "open image %s", path)
	}
	return Silhouette(img, threshold, invert), nil
}

// Silhouette converts an in-memory image to a binary silhouette mask.
// See [LoadSilhouette].
func Silhouette(img image.Image, threshold uint8, invert bool) *Mask {
	gray := imaging.Grayscale(img)
	b := gray.Bounds()
	m := NewMask(b.Dy(), b.Dx())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			lum := color.GrayModel.Convert(gray.At(b.Min.X+x, b.Min.Y+y)).(color.Gray).Y
			dark := lum <= threshold
			if dark != invert {
				m.Set(y, x, 1)
			}
		}
	}
	return m
}

// LoadIndexed reads an image file and converts it to a multi-region mask:
// each distinct luminance value becomes its index in the sorted list of
// values present. The darkest value maps to 0 (forbidden), so typical
// region patterns drawn on a black background work out of the box.
func LoadIndexed(path string) (*Mask, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMaskLoad, err, "open image %s", path)
	}
	return Indexed(img), nil
}

// Indexed converts an in-memory image to a region mask. See [LoadIndexed].
func Indexed(img image.Image) *Mask {
	gray := imaging.Grayscale(img)
	b := gray.Bounds()

	present := map[uint8]bool{}
	lum := make([]uint8, b.Dy()*b.Dx())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			v := color.GrayModel.Convert(gray.At(b.Min.X+x, b.Min.Y+y)).(color.Gray).Y
			lum[y*b.Dx()+x] = v
			present[v] = true
		}
	}

	values := make([]uint8, 0, len(present))
	for v := range present {
		values = append(values, v)
	}
	slices.Sort(values)
	index := make(map[uint8]int, len(values))
	for i, v := range values {
		index[v] = i
	}

	m := NewMask(b.Dy(), b.Dx())
	for i, v := range lum {
		m.data[i] = index[v]
	}
	return m
}
