package analyzer

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp"
)

// ImageAnalyzer loads images and reports the dimensions crops are computed against
type ImageAnalyzer struct {
	config Config
}

// Config holds configuration for the image analyzer
type Config struct {
	SupportedFormats []string
	MinImageSize     int
}

// New creates a new ImageAnalyzer with default configuration
func New() *ImageAnalyzer {
	return &ImageAnalyzer{
		config: Config{
			SupportedFormats: []string{"jpeg", "png", "gif", "webp"},
			MinImageSize:     1,
		},
	}
}

// NewWithConfig creates a new ImageAnalyzer with custom configuration
func NewWithConfig(config Config) *ImageAnalyzer {
	return &ImageAnalyzer{config: config}
}

// LoadImage loads an image from file
func (a *ImageAnalyzer) LoadImage(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	return a.decode(data)
}

// LoadImageFromReader loads an image from an io.Reader
func (a *ImageAnalyzer) LoadImageFromReader(reader io.Reader) (image.Image, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return a.decode(data)
}

// Dimensions reads only the image header and returns its size and format.
// JPEGs with an EXIF orientation of 5 to 8 report width and height swapped,
// matching what LoadImage returns.
func (a *ImageAnalyzer) Dimensions(path string) (ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("failed to open image file: %w", err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("failed to read image header: %w", err)
	}
	if !a.isFormatSupported(format) {
		return ImageInfo{}, fmt.Errorf("unsupported image format: %s", format)
	}

	width, height := cfg.Width, cfg.Height
	if format == "jpeg" {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return ImageInfo{}, fmt.Errorf("failed to read image header: %w", err)
		}
		if o := orientation(f); o >= 5 && o <= 8 {
			width, height = height, width
		}
	}

	info := newImageInfo(width, height)
	info.Format = format
	return info, nil
}

// orientation returns the EXIF orientation tag, or 1 when there is none
func orientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	o, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return o
}

func (a *ImageAnalyzer) decode(data []byte) (image.Image, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if !a.isFormatSupported(format) {
		return nil, fmt.Errorf("unsupported image format: %s", format)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err == nil {
		return img, nil
	}

	// Fallback: explicit WebP decode
	if format == "webp" {
		if img, werr := webp.Decode(bytes.NewReader(data)); werr == nil {
			return img, nil
		}
	}
	return nil, fmt.Errorf("failed to decode image: %w", err)
}

// GetImageInfo returns basic information about an image
func (a *ImageAnalyzer) GetImageInfo(img image.Image) ImageInfo {
	bounds := img.Bounds()
	return newImageInfo(bounds.Dx(), bounds.Dy())
}

// ImageInfo contains basic image metadata
type ImageInfo struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspect_ratio"`
	Area        int     `json:"area"`
	Format      string  `json:"format,omitempty"`
}

// Size returns the dimensions as floats, the form the crop functions take
func (i ImageInfo) Size() (float64, float64) {
	return float64(i.Width), float64(i.Height)
}

func newImageInfo(width, height int) ImageInfo {
	info := ImageInfo{
		Width:  width,
		Height: height,
		Area:   width * height,
	}
	if height > 0 {
		info.AspectRatio = float64(width) / float64(height)
	}
	return info
}

func (a *ImageAnalyzer) isFormatSupported(format string) bool {
	for _, supported := range a.config.SupportedFormats {
		if strings.EqualFold(format, supported) || (format == "jpeg" && strings.EqualFold(supported, "jpg")) {
			return true
		}
	}
	return false
}

// ValidateImage checks if an image meets minimum requirements
func (a *ImageAnalyzer) ValidateImage(img image.Image) error {
	bounds := img.Bounds()
	if bounds.Dx() < a.config.MinImageSize || bounds.Dy() < a.config.MinImageSize {
		return fmt.Errorf("image too small: %dx%d (minimum: %d)",
			bounds.Dx(), bounds.Dy(), a.config.MinImageSize)
	}
	return nil
}
