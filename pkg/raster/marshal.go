package raster

import (
	"encoding/json"

	"github.com/dotfill/dotfill/pkg/errors"
)

// maskJSON is the serialized form used when caching decoded masks.
type maskJSON struct {
	H    int   `json:"h"`
	W    int   `json:"w"`
	Data []int `json:"data"`
}

// MarshalJSON serializes the mask grid.
func (m *Mask) MarshalJSON() ([]byte, error) {
	return json.Marshal(maskJSON{H: m.h, W: m.w, Data: m.data})
}

// UnmarshalJSON restores a mask serialized by [Mask.MarshalJSON].
func (m *Mask) UnmarshalJSON(data []byte) error {
	var j maskJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidMask, err, "decode mask")
	}
	if j.H < 0 || j.W < 0 || len(j.Data) != j.H*j.W {
		return errors.New(errors.ErrCodeInvalidMask, "mask dims %dx%d do not match %d pixels", j.H, j.W, len(j.Data))
	}
	m.h, m.w, m.data = j.H, j.W, j.Data
	return nil
}
