package aspect

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidRatio is returned when a ratio string cannot be turned into a positive number
var ErrInvalidRatio = errors.New("invalid aspect ratio")

// Ratio represents a named width:height ratio
type Ratio struct {
	Width  int
	Height int
	Name   string
}

// Common aspect ratios
var (
	Square     = Ratio{1, 1, "square"}
	Portrait   = Ratio{3, 4, "portrait"}
	Landscape  = Ratio{4, 3, "landscape"}
	Widescreen = Ratio{16, 9, "widescreen"}
	Instagram  = Ratio{4, 5, "instagram"}
	Story      = Ratio{9, 16, "story"}
)

// Common returns a list of commonly used aspect ratios
func Common() []Ratio {
	return []Ratio{Square, Portrait, Landscape, Widescreen, Instagram, Story}
}

// Value returns width/height
func (r Ratio) Value() float64 {
	return float64(r.Width) / float64(r.Height)
}

func (r Ratio) String() string {
	return fmt.Sprintf("%d:%d", r.Width, r.Height)
}

// Lookup finds a preset by name
func Lookup(name string) (Ratio, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, r := range Common() {
		if r.Name == name {
			return r, true
		}
	}
	return Ratio{}, false
}

// Parse reads an aspect ratio given as a preset name ("square"), a "w:h" or
// "w/h" pair, or a plain number ("1.5"). The result is width/height.
func Parse(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if r, ok := Lookup(s); ok {
		return r.Value(), nil
	}

	sep := strings.IndexAny(s, ":/")
	if sep < 0 {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidRatio, s)
		}
		return checkPositive(s, v)
	}

	w, errW := strconv.ParseFloat(strings.TrimSpace(s[:sep]), 64)
	h, errH := strconv.ParseFloat(strings.TrimSpace(s[sep+1:]), 64)
	if errW != nil || errH != nil || !(w > 0) || !(h > 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRatio, s)
	}
	return checkPositive(s, w/h)
}

func checkPositive(s string, v float64) (float64, error) {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRatio, s)
	}
	return v, nil
}
