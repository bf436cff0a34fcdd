package crop

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrInvalidAspect is returned by ValidateAspect when a crop has no usable aspect
var ErrInvalidAspect = errors.New("crop aspect should be a number")

// ValidateAspect checks that c carries a non-zero, non-NaN aspect
func ValidateAspect(c Crop) error {
	if !truthy(c.Aspect) {
		return fmt.Errorf("%w: got %v", ErrInvalidAspect, c.Aspect)
	}
	return nil
}

// MakeAspect completes an aspect-locked crop in pixels from whichever of
// width or height is set, then shrinks it to fit the image. Vertical overflow
// is resolved before horizontal overflow.
//
// A crop without a valid aspect is logged and returned with defaults filled
// in and no aspect applied.
func MakeAspect(c Crop, imageWidth, imageHeight float64) Crop {
	if err := ValidateAspect(c); err != nil {
		slog.Error("MakeAspect: cannot apply aspect", "error", err, "crop", c)
		return withDefaults(c)
	}

	out := Crop{
		Unit:   Pixels,
		X:      orZero(c.X),
		Y:      orZero(c.Y),
		Width:  orZero(c.Width),
		Height: orZero(c.Height),
		Aspect: c.Aspect,
	}

	// Both checks read the input, not out.
	if truthy(c.Width) {
		out.Height = out.Width / c.Aspect
	}
	if truthy(c.Height) {
		out.Width = out.Height * c.Aspect
	}

	if out.Y+out.Height > imageHeight {
		out.Height = imageHeight - out.Y
		out.Width = out.Height * c.Aspect
	}
	if out.X+out.Width > imageWidth {
		out.Width = imageWidth - out.X
		out.Height = out.Width / c.Aspect
	}

	return out
}

// Resolve returns a complete crop. Aspect-locked crops missing a width or
// height go through MakeAspect, anything else is returned as is.
func Resolve(c Crop, imageWidth, imageHeight float64) Crop {
	if truthy(c.Aspect) && (!truthy(c.Width) || !truthy(c.Height)) {
		return MakeAspect(c, imageWidth, imageHeight)
	}
	return c
}
