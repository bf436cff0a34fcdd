package crop

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Ordinal names a resize handle by compass direction
type Ordinal string

// Resize handles, clockwise from the top edge
const (
	N  Ordinal = "n"
	NE Ordinal = "ne"
	E  Ordinal = "e"
	SE Ordinal = "se"
	S  Ordinal = "s"
	SW Ordinal = "sw"
	W  Ordinal = "w"
	NW Ordinal = "nw"
)

// ErrUnknownOrdinal is returned by ParseOrdinal for anything but the eight handles
var ErrUnknownOrdinal = errors.New("unknown ordinal")

// Ordinals lists every handle
func Ordinals() []Ordinal {
	return []Ordinal{N, NE, E, SE, S, SW, W, NW}
}

// ParseOrdinal reads a handle name such as "se" or "NW"
func ParseOrdinal(s string) (Ordinal, error) {
	ord := Ordinal(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Ordinals() {
		if ord == known {
			return ord, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOrdinal, s)
}

// IsCorner reports whether the handle sits on a corner of the box
func (o Ordinal) IsCorner() bool {
	switch o {
	case NE, SE, SW, NW:
		return true
	}
	return false
}

// MaxCrop returns the largest pixel crop reachable by dragging handle ord out
// to the container edges while the opposite side or corner stays put.
//
// With an aspect lock only corner handles are supported. Edge handles have no
// opposite corner to measure from and collapse to a zero (or NaN) size.
func MaxCrop(c Crop, ord Ordinal, containerWidth, containerHeight float64) Crop {
	m := c

	if !truthy(m.Aspect) {
		switch ord {
		case N:
			m.Height = m.Y + m.Height
			m.Y = 0
		case NE:
			m.Height = m.Y + m.Height
			m.Width = containerWidth - m.X
			m.Y = 0
		case E:
			m.Width = containerWidth - m.X
		case SE:
			m.Width = containerWidth - m.X
			m.Height = containerHeight - m.Y
		case S:
			m.Height = containerHeight - m.Y
		case SW:
			m.Width = m.X + m.Width
			m.Height = m.Y + m.Height
			m.X = 0
		case W:
			m.Width = m.X + m.Width
			m.X = 0
		case NW:
			m.Width = m.X + m.Width
			m.Height = m.Y + m.Height
			m.X = 0
			m.Y = 0
		}
		return m
	}

	var longestWidth, longestHeight float64
	switch ord {
	case NE:
		// anchored at SW
		longestWidth = containerWidth - m.X
		longestHeight = m.Y + m.Height
	case SE:
		// anchored at NW
		longestWidth = containerWidth - m.X
		longestHeight = containerHeight - m.Y
	case SW:
		// anchored at NE
		longestWidth = m.X + m.Width
		longestHeight = containerHeight - m.Y
	case NW:
		// anchored at SE
		longestWidth = m.X + m.Width
		longestHeight = m.Y + m.Height
	}

	ratio := math.Min(longestWidth/m.Width, longestHeight/m.Height)
	width := m.Width * ratio
	height := width / m.Aspect

	switch ord {
	case NE:
		m.Y += c.Height - height
	case SW:
		m.X += c.Width - width
	case NW:
		m.X += c.Width - width
		m.Y += c.Height - height
	}

	m.Width = width
	m.Height = height
	return m
}
