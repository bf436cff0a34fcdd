package processing

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/menta2k/cropbox/pkg/crop"
)

// Options controls how images are encoded
type Options struct {
	Format   string
	Quality  int
	Lossless bool
}

// Processor handles image output operations
type Processor struct {
	options Options
}

// NewProcessor creates a new image processor
func NewProcessor(options Options) *Processor {
	if options.Format == "" {
		options.Format = "jpg"
	}
	if options.Quality <= 0 {
		options.Quality = 90
	}
	return &Processor{options: options}
}

// FormatFromPath returns the output format implied by the file extension,
// or the processor default when there is none
func (p *Processor) FormatFromPath(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return p.options.Format
	}
	return ext
}

// Encode writes img to w in the given format
func (p *Processor) Encode(w io.Writer, img image.Image, format string) error {
	switch strings.ToLower(format) {
	case "webp":
		return webp.Encode(w, img, &webp.Options{Lossless: p.options.Lossless, Quality: float32(p.options.Quality)})
	case "png":
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		return enc.Encode(w, img)
	case "jpg", "jpeg":
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(p.options.Quality))
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// SaveImage saves an image to a file, choosing the format from its extension
func (p *Processor) SaveImage(img image.Image, path string) error {
	format := p.FormatFromPath(path)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := p.Encode(f, img, format); err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return nil
}

// Fit resizes img to exactly width x height, cropping the overflow around the center
func (p *Processor) Fit(img image.Image, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid target size: %dx%d", width, height)
	}
	return imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos), nil
}

// CreateDebugOverlay draws the crop outline and its center over a copy of img
func (p *Processor) CreateDebugOverlay(img image.Image, box crop.Crop) image.Image {
	nrgba := imaging.Clone(img)
	w := nrgba.Bounds().Dx()
	h := nrgba.Bounds().Dy()

	gold := color.NRGBA{255, 204, 0, 255}  // crop box
	red := color.NRGBA{255, 0, 0, 255}     // crop center
	blue := color.NRGBA{0, 170, 255, 255}  // image center
	stroke := int(math.Max(2, 0.004*float64(min(w, h))))
	cross := int(math.Max(4, 0.01*float64(min(w, h))))

	rect := crop.Rect(box, float64(w), float64(h))
	if !rect.Empty() {
		drawBox(nrgba, rect, gold, stroke)

		cx := (rect.Min.X + rect.Max.X) / 2
		cy := (rect.Min.Y + rect.Max.Y) / 2
		drawHLine(nrgba, cy, cx-cross, cx+cross, red)
		drawVLine(nrgba, cx, cy-cross, cy+cross, red)
	}

	ix, iy := w/2, h/2
	drawHLine(nrgba, iy, ix-6, ix+6, blue)
	drawVLine(nrgba, ix, iy-6, iy+6, blue)

	return nrgba
}

func drawBox(img *image.NRGBA, r image.Rectangle, c color.NRGBA, stroke int) {
	for s := 0; s < stroke; s++ {
		drawHLine(img, r.Min.Y+s, r.Min.X, r.Max.X, c)
		drawHLine(img, r.Max.Y-1-s, r.Min.X, r.Max.X, c)
		drawVLine(img, r.Min.X+s, r.Min.Y, r.Max.Y, c)
		drawVLine(img, r.Max.X-1-s, r.Min.Y, r.Max.Y, c)
	}
}

func drawHLine(img *image.NRGBA, y, x0, x1 int, c color.NRGBA) {
	if y < 0 || y >= img.Bounds().Dy() {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	x0 = max(x0, 0)
	x1 = min(x1, img.Bounds().Dx())
	for x := x0; x < x1; x++ {
		img.SetNRGBA(x, y, c)
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	if x < 0 || x >= img.Bounds().Dx() {
		return
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	y0 = max(y0, 0)
	y1 = min(y1, img.Bounds().Dy())
	for y := y0; y < y1; y++ {
		img.SetNRGBA(x, y, c)
	}
}
