package entities

import "time"

// DefaultClickInterval is used when no usable delay was configured
const DefaultClickInterval = 500 * time.Millisecond

// Point is a recorded viewport coordinate to click
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ClickConfiguration holds the points to click and their delays.
// Delays are aligned by index with Points, but only the first one is used
// to set the loop interval; the interval does not vary per point.
type ClickConfiguration struct {
	Points []Point `json:"points"`
	Delays []int   `json:"delays,omitempty"` // milliseconds
}

// Interval returns the loop interval derived from the first delay
func (c ClickConfiguration) Interval() time.Duration {
	if len(c.Delays) == 0 || c.Delays[0] <= 0 {
		return DefaultClickInterval
	}
	return time.Duration(c.Delays[0]) * time.Millisecond
}

// WithDelay returns a copy of the configuration with one delay per point
func (c ClickConfiguration) WithDelay(delayMs int) ClickConfiguration {
	delays := make([]int, len(c.Points))
	for i := range delays {
		delays[i] = delayMs
	}
	return ClickConfiguration{
		Points: ClonePoints(c.Points),
		Delays: delays,
	}
}

// ClonePoints copies a point slice so callers can't share backing arrays
func ClonePoints(points []Point) []Point {
	if points == nil {
		return nil
	}
	out := make([]Point, len(points))
	copy(out, points)
	return out
}
