package cropper

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/menta2k/cropbox/pkg/aspect"
	"github.com/menta2k/cropbox/pkg/crop"
	"github.com/menta2k/cropbox/pkg/vision"
)

// ErrEmptyCrop is returned when a crop covers no pixels of the image
var ErrEmptyCrop = errors.New("empty crop rectangle")

// SmartCropper applies crops to images and picks aspect-locked crops automatically
type SmartCropper struct {
	detector *vision.SubjectDetector
	config   CropConfig
}

// CropConfig holds configuration for smart cropping
type CropConfig struct {
	AllowUpscaling   bool
	QualityThreshold float64
}

// New creates a new SmartCropper with default configuration
func New() *SmartCropper {
	return &SmartCropper{
		detector: vision.New(),
		config: CropConfig{
			AllowUpscaling:   false,
			QualityThreshold: 0.6,
		},
	}
}

// NewWithConfig creates a new SmartCropper with custom configuration
func NewWithConfig(config CropConfig) *SmartCropper {
	return &SmartCropper{
		detector: vision.New(),
		config:   config,
	}
}

// SetDetector allows setting a custom subject detector
func (c *SmartCropper) SetDetector(detector *vision.SubjectDetector) {
	c.detector = detector
}

// CropResult contains the result of a cropping operation
type CropResult struct {
	Image       image.Image `json:"-"`
	Crop        crop.Crop   `json:"crop"`
	AspectRatio float64     `json:"aspect_ratio"`
	Quality     float64     `json:"quality"`
}

// Apply cuts box out of img. The box is contained in the image first and its
// edges are rounded to whole pixels.
func (c *SmartCropper) Apply(img image.Image, box crop.Crop) (image.Image, error) {
	bounds := img.Bounds()
	iw, ih := float64(bounds.Dx()), float64(bounds.Dy())

	contained := crop.Contain(box, box, iw, ih)
	rect := crop.Rect(contained, iw, ih)
	if rect.Empty() {
		return nil, fmt.Errorf("%w: %+v", ErrEmptyCrop, box)
	}

	return imaging.Crop(img, rect.Add(bounds.Min)), nil
}

// CropToAspectRatio crops an image to a preset ratio while preserving important subjects
func (c *SmartCropper) CropToAspectRatio(img image.Image, ratio aspect.Ratio) (CropResult, error) {
	return c.CropToRatio(img, ratio.Value())
}

// CropToRatio crops an image to a specific aspect ratio
func (c *SmartCropper) CropToRatio(img image.Image, targetRatio float64) (CropResult, error) {
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return CropResult{}, fmt.Errorf("invalid image dimensions")
	}

	box, err := c.detector.Suggest(img, targetRatio)
	if err != nil {
		return CropResult{}, fmt.Errorf("failed to find optimal crop region: %w", err)
	}

	cropped, err := c.Apply(img, box)
	if err != nil {
		return CropResult{}, err
	}

	return CropResult{
		Image:       cropped,
		Crop:        box,
		AspectRatio: targetRatio,
		Quality:     c.calculateCropQuality(bounds, cropped.Bounds(), box, targetRatio),
	}, nil
}

// CropToMultipleRatios crops an image to multiple aspect ratios
func (c *SmartCropper) CropToMultipleRatios(img image.Image, ratios []aspect.Ratio) ([]CropResult, error) {
	var results []CropResult

	for _, ratio := range ratios {
		result, err := c.CropToAspectRatio(img, ratio)
		if err != nil {
			return nil, fmt.Errorf("failed to crop to %s: %w", ratio.Name, err)
		}
		results = append(results, result)
	}

	return results, nil
}

// CropToSize crops an image to the ratio of the target size and resizes it to exactly that size
func (c *SmartCropper) CropToSize(img image.Image, targetWidth, targetHeight int) (CropResult, error) {
	if targetWidth <= 0 || targetHeight <= 0 {
		return CropResult{}, fmt.Errorf("invalid target size: %dx%d", targetWidth, targetHeight)
	}

	bounds := img.Bounds()
	originalWidth, originalHeight := bounds.Dx(), bounds.Dy()

	if !c.config.AllowUpscaling {
		if targetWidth > originalWidth || targetHeight > originalHeight {
			return CropResult{}, fmt.Errorf("target size (%dx%d) is larger than original (%dx%d) and upscaling is disabled",
				targetWidth, targetHeight, originalWidth, originalHeight)
		}
	}

	result, err := c.CropToRatio(img, float64(targetWidth)/float64(targetHeight))
	if err != nil {
		return CropResult{}, err
	}

	result.Image = imaging.Resize(result.Image, targetWidth, targetHeight, imaging.Lanczos)
	return result, nil
}

// GetOptimalCrops returns the common-ratio crops whose quality reaches the threshold
func (c *SmartCropper) GetOptimalCrops(img image.Image) (map[string]CropResult, error) {
	results := make(map[string]CropResult)

	for _, ratio := range aspect.Common() {
		result, err := c.CropToAspectRatio(img, ratio)
		if err != nil {
			return nil, fmt.Errorf("failed to crop to %s: %w", ratio.Name, err)
		}
		if result.Quality >= c.config.QualityThreshold {
			results[ratio.Name] = result
		}
	}

	return results, nil
}

func (c *SmartCropper) calculateCropQuality(original, cropped image.Rectangle, box crop.Crop, targetRatio float64) float64 {
	originalWidth, originalHeight := float64(original.Dx()), float64(original.Dy())
	cropWidth, cropHeight := float64(cropped.Dx()), float64(cropped.Dy())

	// 1. How much of the original image is preserved
	preservation := (cropWidth * cropHeight) / (originalWidth * originalHeight)

	// 2. How close the pixel ratio is to the target
	cropRatio := cropWidth / cropHeight
	ratioAccuracy := 1.0 - math.Abs(cropRatio-targetRatio)/math.Max(cropRatio, targetRatio)

	// 3. How well-centered the crop is
	dx := originalWidth/2 - (box.X + box.Width/2)
	dy := originalHeight/2 - (box.Y + box.Height/2)
	maxDistance := math.Hypot(originalWidth, originalHeight)
	centering := 1.0 - math.Hypot(dx, dy)/maxDistance

	quality := 0.4*preservation + 0.4*ratioAccuracy + 0.2*centering
	return crop.Clamp(quality, 0, 1)
}
