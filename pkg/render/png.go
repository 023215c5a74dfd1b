package render

import (
	"bytes"

	"github.com/fogleman/gg"

	"github.com/dotfill/dotfill/pkg/errors"
	"github.com/dotfill/dotfill/pkg/pack"
)

// PNGOption configures PNG rendering via [PNG].
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	background string
	scale      float64
}

// WithPNGBackground fills the canvas with the given colour before drawing.
// Without it the background stays transparent.
func WithPNGBackground(color string) PNGOption {
	return func(r *pngRenderer) { r.background = color }
}

// WithPNGScale renders at the given multiple of the canvas size. A scale of
// 2 produces a 2x resolution image suitable for high-DPI displays.
func WithPNGScale(scale float64) PNGOption {
	return func(r *pngRenderer) { r.scale = scale }
}

// PNG rasterizes circles to a PNG image. Circles whose label does not index
// the palette are skipped.
func PNG(circles []pack.Circle, width, height int, palette []string, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 1}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		return nil, errors.New(errors.ErrCodeRender, "scale must be positive, got %v", r.scale)
	}

	dc := gg.NewContext(int(float64(width)*r.scale), int(float64(height)*r.scale))
	dc.Scale(r.scale, r.scale)

	if r.background != "" {
		dc.SetHexColor(r.background)
		dc.Clear()
	}

	for _, c := range circles {
		if c.Label < 0 || c.Label >= len(palette) {
			continue
		}
		dc.SetHexColor(palette[c.Label])
		dc.DrawCircle(float64(c.Col), float64(c.Row), c.R)
		dc.Fill()
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "encode png")
	}
	return buf.Bytes(), nil
}
