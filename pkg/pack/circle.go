package pack

import "math"

// Circle is a single placed circle. Row and Col are grid coordinates of the
// centre pixel, R the radius in pixel units, and Label the mask value under
// the centre at the moment of placement. Circles are immutable once placed;
// their identity is their index in the result sequence.
type Circle struct {
	Row   int     `json:"row" bson:"row"`
	Col   int     `json:"col" bson:"col"`
	R     float64 `json:"r" bson:"r"`
	Label int     `json:"label" bson:"label"`
}

// Dist returns the Euclidean distance between the centres of c and o.
func (c Circle) Dist(o Circle) float64 {
	return math.Hypot(float64(c.Row-o.Row), float64(c.Col-o.Col))
}

// Overlaps reports whether c and o are closer than the sum of their radii
// plus the given margin.
func (c Circle) Overlaps(o Circle, margin float64) bool {
	return c.Dist(o) < c.R+o.R+margin
}

// Area returns the circle's area in square pixels.
func (c Circle) Area() float64 { return math.Pi * c.R * c.R }
