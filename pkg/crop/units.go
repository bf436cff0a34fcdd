package crop

// ToPercent converts a crop to percentages of the image size. Crops already
// in percent are returned with defaults filled in.
func ToPercent(c Crop, imageWidth, imageHeight float64) Crop {
	if c.Unit == Percent {
		return withDefaults(c)
	}

	return Crop{
		Unit:   Percent,
		Aspect: c.Aspect,
		X:      percentOf(c.X, imageWidth),
		Y:      percentOf(c.Y, imageHeight),
		Width:  percentOf(c.Width, imageWidth),
		Height: percentOf(c.Height, imageHeight),
	}
}

// ToPixel converts a crop to image pixels. A crop without a unit is taken to
// be in pixels already.
func ToPixel(c Crop, imageWidth, imageHeight float64) Crop {
	if c.Unit == "" || c.Unit == Pixels {
		return withDefaults(c)
	}

	return Crop{
		Unit:   Pixels,
		Aspect: c.Aspect,
		X:      pixelsOf(c.X, imageWidth),
		Y:      pixelsOf(c.Y, imageHeight),
		Width:  pixelsOf(c.Width, imageWidth),
		Height: pixelsOf(c.Height, imageHeight),
	}
}

// percentOf returns v as a percentage of size, or 0 when v is unset.
func percentOf(v, size float64) float64 {
	if !truthy(v) {
		return 0
	}
	return (v / size) * 100
}

// pixelsOf returns the pixel length of percentage v of size, or 0 when v is unset.
func pixelsOf(v, size float64) float64 {
	if !truthy(v) {
		return 0
	}
	return (v * size) / 100
}
