package render

import (
	"bytes"
	"fmt"

	"github.com/dotfill/dotfill/pkg/pack"
)

// SVGOption configures SVG rendering via [SVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background string
	stroke     string
}

// WithBackground fills the canvas with the given colour before drawing.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// WithStroke outlines every circle with the given colour instead of the
// default stroke-free fill.
func WithStroke(color string) SVGOption {
	return func(r *svgRenderer) { r.stroke = color }
}

// SVG renders circles as an SVG document. Each palette entry becomes a CSS
// class .c<i>; every circle joins the class named by its label, so callers
// wanting per-circle colours remap labels to palette indices first. Circles
// whose label does not index the palette are skipped, as in [PNG].
func SVG(circles []pack.Circle, width, height int, palette []string, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	buf.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n")
	fmt.Fprintf(&buf, "<svg xmlns=\"http://www.w3.org/2000/svg\" xmlns:xlink=\"http://www.w3.org/1999/xlink\"\n    width=\"%d\" height=\"%d\" >\n", width, height)

	buf.WriteString("<defs>\n<style type=\"text/css\"><![CDATA[\n")
	if r.stroke != "" {
		fmt.Fprintf(&buf, "    circle {stroke: %s; }\n", r.stroke)
	} else {
		buf.WriteString("    circle {stroke: none; }\n")
	}
	for i, c := range palette {
		fmt.Fprintf(&buf, "    .c%d {fill: %s;}\n", i, c)
	}
	buf.WriteString("]]></style>\n</defs>\n")

	if r.background != "" {
		fmt.Fprintf(&buf, "<rect width=\"100%%\" height=\"100%%\" fill=\"%s\" />\n", r.background)
	}

	for _, c := range circles {
		if c.Label < 0 || c.Label >= len(palette) {
			continue
		}
		fmt.Fprintf(&buf, "<circle cx=\"%d\" cy=\"%d\" r=\"%.4g\" class=\"c%d\" />\n", c.Col, c.Row, c.R, c.Label)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
