package render

import (
	"encoding/json"

	"github.com/dotfill/dotfill/pkg/pack"
)

// JSONOption configures JSON rendering via [JSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	seed     uint64
	withSeed bool
	notices  []pack.Notice
}

// WithJSONSeed records the packing seed in the output, enabling
// reproducible re-packing.
func WithJSONSeed(seed uint64) JSONOption {
	return func(r *jsonRenderer) { r.seed = seed; r.withSeed = true }
}

// WithJSONNotices includes the run's notices in the output.
func WithJSONNotices(notices []pack.Notice) JSONOption {
	return func(r *jsonRenderer) { r.notices = notices }
}

type jsonOutput struct {
	Width   int           `json:"width"`
	Height  int           `json:"height"`
	Seed    *uint64       `json:"seed,omitempty"`
	Palette []string      `json:"palette,omitempty"`
	Circles []pack.Circle `json:"circles"`
	Notices []pack.Notice `json:"notices,omitempty"`
}

// JSON renders circles as an indented JSON layout document.
func JSON(circles []pack.Circle, width, height int, palette []string, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:   width,
		Height:  height,
		Palette: palette,
		Circles: circles,
		Notices: r.notices,
	}
	if out.Circles == nil {
		out.Circles = []pack.Circle{}
	}
	if r.withSeed {
		out.Seed = &r.seed
	}
	return json.MarshalIndent(out, "", "  ")
}
