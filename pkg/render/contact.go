package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/dotfill/dotfill/pkg/errors"
	"github.com/dotfill/dotfill/pkg/pack"
)

// contactSlack is the extra distance, in pixels, within which two circles
// still count as touching. It absorbs grid discretization: centres sit on
// integer pixels, so exact tangency is rare.
const contactSlack = 0.5

// ContactDOT converts a packing to Graphviz DOT format: one node per
// circle, an edge wherever two circles sit within margin (+ slack) of each
// other. The diagram makes margin violations and isolated circles easy to
// spot.
func ContactDOT(circles []pack.Circle, margin float64) string {
	var buf bytes.Buffer
	buf.WriteString("graph contacts {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=10];\n")
	buf.WriteString("\n")

	for i, c := range circles {
		// Pin nodes at the packed positions so the diagram mirrors the
		// geometry. Graphviz y grows upward, image rows downward.
		fmt.Fprintf(&buf, "  c%d [label=\"%d\\nr=%.1f\", pos=\"%d,%d!\", width=%.2f];\n",
			i, i, c.R, c.Col, -c.Row, c.R/36)
	}

	buf.WriteString("\n")
	for i, c := range circles {
		for j := i + 1; j < len(circles); j++ {
			o := circles[j]
			if c.Dist(o) <= c.R+o.R+margin+contactSlack {
				fmt.Fprintf(&buf, "  c%d -- c%d;\n", i, j)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ContactSVG renders a contact diagram to SVG using Graphviz.
func ContactSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "render contact diagram")
	}
	return buf.Bytes(), nil
}
