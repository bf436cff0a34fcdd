// Package crop implements the geometry behind an interactive crop box: unit
// conversion, aspect locking, containment inside image bounds and the largest
// extent reachable from a resize handle.
//
// Every function takes and returns Crop values. Nothing is shared between
// calls and the caller's value is never modified.
//
// Fields left at zero are treated as unset. A zero or NaN coordinate behaves
// exactly like a missing one, so partially filled crops coming from a UI can be
// passed straight in.
package crop

import "math"

// Unit is the coordinate space of a Crop
type Unit string

const (
	// Pixels means absolute image pixels
	Pixels Unit = "px"
	// Percent means a percentage of the image width (x, width) or height (y, height)
	Percent Unit = "%"
)

// Crop is a rectangle over an image
type Crop struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
	Unit   Unit    `json:"unit,omitempty" yaml:"unit,omitempty"`
	// Aspect is width/height. Zero leaves the crop free-form.
	Aspect float64 `json:"aspect,omitempty" yaml:"aspect,omitempty"`
}

// Default returns the zero crop in pixels
func Default() Crop {
	return Crop{Unit: Pixels}
}

// Clamp restricts value to [min, max]. The result is undefined when min > max.
func Clamp(value, min, max float64) float64 {
	return math.Min(math.Max(value, min), max)
}

// IsValid reports whether the crop has a usable size. A zero width or height
// is never valid.
func IsValid(c Crop) bool {
	return truthy(c.Width) && truthy(c.Height)
}

// AreEqual compares every field exactly, without tolerance
func AreEqual(a, b Crop) bool {
	return a.Width == b.Width &&
		a.Height == b.Height &&
		a.X == b.X &&
		a.Y == b.Y &&
		a.Aspect == b.Aspect &&
		a.Unit == b.Unit
}

// withDefaults fills the fields a partial crop may leave out.
func withDefaults(c Crop) Crop {
	if c.Unit == "" {
		c.Unit = Pixels
	}
	return c
}

// truthy reports whether v counts as set: non-zero and not NaN.
func truthy(v float64) bool {
	return v != 0 && !math.IsNaN(v)
}

// orZero returns v when it is set and 0 otherwise.
func orZero(v float64) float64 {
	if truthy(v) {
		return v
	}
	return 0
}
