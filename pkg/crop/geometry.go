package crop

import (
	"image"
	"math"
)

// Center moves the crop so it sits in the middle of the image, keeping its
// size. The result is in percent.
func Center(c Crop, imageWidth, imageHeight float64) Crop {
	p := ToPercent(c, imageWidth, imageHeight)
	p.X = (100 - p.Width) / 2
	p.Y = (100 - p.Height) / 2
	return p
}

// Rect converts the crop to a whole-pixel rectangle inside the image.
// Edges are rounded to the nearest pixel. A crop with a negative or zero
// size gives an empty rectangle.
func Rect(c Crop, imageWidth, imageHeight float64) image.Rectangle {
	p := ToPixel(c, imageWidth, imageHeight)
	if !(p.Width > 0 && p.Height > 0) {
		return image.Rectangle{}
	}
	bounds := image.Rect(0, 0, int(math.Round(imageWidth)), int(math.Round(imageHeight)))

	r := image.Rect(
		int(math.Round(p.X)),
		int(math.Round(p.Y)),
		int(math.Round(p.X+p.Width)),
		int(math.Round(p.Y+p.Height)),
	)
	return r.Intersect(bounds)
}
