package crop

// Contain pulls current back inside the image. Both crops are converted to
// pixels first; previous is the crop before the drag and is only read.
//
// Free-form crops are trimmed per axis. Aspect-locked crops are trimmed in a
// fixed order: horizontal overflow, vertical pin, vertical overflow, then
// horizontal pin. The pin steps keep a box that is pressed against one border
// from sliding along the other axis while it is resized.
func Contain(previous, current Crop, imageWidth, imageHeight float64) Crop {
	c := ToPixel(current, imageWidth, imageHeight)
	prev := ToPixel(previous, imageWidth, imageHeight)

	if !truthy(c.Aspect) {
		if c.X < 0 {
			c.Width += c.X
			c.X = 0
		} else if c.X+c.Width > imageWidth {
			c.Width = imageWidth - c.X
		}

		// Negative y is left alone here.
		if c.Y+c.Height > imageHeight {
			c.Height = imageHeight - c.Y
		}

		return c
	}

	if c.X < 0 {
		c.Width = c.X + c.Width
		c.X = 0
		c.Height = c.Width / c.Aspect
	} else if c.X+c.Width > imageWidth {
		c.Width = imageWidth - c.X
		c.Height = c.Width / c.Aspect
	}

	// Dragging upward while pinned left or right: hold y.
	if prev.Y > c.Y && (c.X+c.Width >= imageWidth || c.X <= 0) {
		c.Height += prev.Height - c.Height
		c.Y = prev.Y
	}

	if c.Y < 0 {
		c.Height = c.Y + c.Height
		c.Y = 0
		c.Width = c.Height * c.Aspect
	} else if c.Y+c.Height > imageHeight {
		c.Height = imageHeight - c.Y
		c.Width = c.Height * c.Aspect
	}

	// Dragging left while pinned to the bottom: hold x.
	if c.X < prev.X && c.Y+c.Height >= imageHeight {
		c.Width += prev.Width - c.Width
		c.X = prev.X
	}

	return c
}
