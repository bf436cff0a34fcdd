package cropper

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/cropbox/pkg/aspect"
	"github.com/menta2k/cropbox/pkg/crop"
)

// createTestImage creates a simple test image
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	// Create a pattern with some high-contrast areas
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x > width/3 && x < 2*width/3 && y > height/3 && y < 2*height/3 {
				// Central bright region (subject)
				img.Set(x, y, color.RGBA{255, 255, 255, 255})
			} else {
				// Background
				img.Set(x, y, color.RGBA{64, 64, 64, 255})
			}
		}
	}

	return img
}

func TestNew(t *testing.T) {
	cropper := New()
	if cropper == nil {
		t.Fatal("New() returned nil")
	}

	if cropper.config.AllowUpscaling {
		t.Error("Expected AllowUpscaling to be false by default")
	}
}

func TestNewWithConfig(t *testing.T) {
	cfg := CropConfig{
		AllowUpscaling:   true,
		QualityThreshold: 0.5,
	}

	cropper := NewWithConfig(cfg)
	if !cropper.config.AllowUpscaling {
		t.Error("Expected AllowUpscaling to be true")
	}
}

func TestApply(t *testing.T) {
	cropper := New()
	img := createTestImage(200, 100)

	tests := []struct {
		name     string
		box      crop.Crop
		expected image.Rectangle
	}{
		{"pixels", crop.Crop{X: 10, Y: 20, Width: 50, Height: 30, Unit: crop.Pixels}, image.Rect(0, 0, 50, 30)},
		{"percent", crop.Crop{X: 25, Y: 25, Width: 50, Height: 50, Unit: crop.Percent}, image.Rect(0, 0, 100, 50)},
		{"overflow is contained", crop.Crop{X: 150, Y: 0, Width: 100, Height: 50}, image.Rect(0, 0, 50, 50)},
		{"aspect overflow keeps ratio", crop.Crop{X: 150, Y: 0, Width: 100, Height: 50, Aspect: 2}, image.Rect(0, 0, 50, 25)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := cropper.Apply(img, tt.box)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out.Bounds())
		})
	}
}

func TestApply_Pixels(t *testing.T) {
	img := createTestImage(90, 90)

	out, err := New().Apply(img, crop.Crop{X: 30, Y: 30, Width: 30, Height: 30})
	require.NoError(t, err)

	r1, g1, b1, _ := out.At(5, 5).RGBA()
	r2, g2, b2, _ := img.At(35, 35).RGBA()
	assert.Equal(t, []uint32{r2, g2, b2}, []uint32{r1, g1, b1})
}

func TestApply_OffsetBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(100, 100, 200, 200))
	src.Set(110, 110, color.RGBA{255, 0, 0, 255})

	out, err := New().Apply(src, crop.Crop{X: 10, Y: 10, Width: 20, Height: 20})
	require.NoError(t, err)

	r, _, _, _ := out.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)
}

func TestApply_Empty(t *testing.T) {
	_, err := New().Apply(createTestImage(100, 100), crop.Crop{X: 10, Y: 10})
	if !errors.Is(err, ErrEmptyCrop) {
		t.Errorf("Expected ErrEmptyCrop, got %v", err)
	}
}

func TestApply_NegativeSize(t *testing.T) {
	box := crop.Crop{X: 60, Y: 60, Width: -40, Height: -40, Unit: crop.Pixels}
	if !crop.IsValid(box) {
		t.Fatalf("Expected %+v to count as valid", box)
	}

	out, err := New().Apply(createTestImage(100, 100), box)
	if !errors.Is(err, ErrEmptyCrop) {
		t.Errorf("Expected ErrEmptyCrop, got %v (image %v)", err, out)
	}
}

func TestCropToAspectRatio(t *testing.T) {
	cropper := New()
	img := createTestImage(400, 300)

	result, err := cropper.CropToAspectRatio(img, aspect.Square)
	if err != nil {
		t.Fatalf("CropToAspectRatio failed: %v", err)
	}

	bounds := result.Image.Bounds()
	assert.Equal(t, 300, bounds.Dx())
	assert.Equal(t, 300, bounds.Dy())
	assert.Equal(t, 1.0, result.Crop.Aspect)

	if result.Quality < 0 || result.Quality > 1 {
		t.Errorf("Expected quality between 0 and 1, got %f", result.Quality)
	}
}

func TestCropToRatio(t *testing.T) {
	cropper := New()
	img := createTestImage(400, 300)

	for _, targetRatio := range []float64{1.0, 4.0 / 3.0, 16.0 / 9.0, 3.0 / 4.0} {
		result, err := cropper.CropToRatio(img, targetRatio)
		if err != nil {
			t.Fatalf("CropToRatio failed for ratio %f: %v", targetRatio, err)
		}

		bounds := result.Image.Bounds()
		actualRatio := float64(bounds.Dx()) / float64(bounds.Dy())

		if actualRatio < targetRatio-0.01 || actualRatio > targetRatio+0.01 {
			t.Errorf("Expected ratio %f, got %f", targetRatio, actualRatio)
		}
	}
}

func TestCropToRatio_Invalid(t *testing.T) {
	_, err := New().CropToRatio(createTestImage(100, 100), 0)
	if !errors.Is(err, crop.ErrInvalidAspect) {
		t.Errorf("Expected ErrInvalidAspect, got %v", err)
	}

	_, err = New().CropToRatio(image.NewRGBA(image.Rect(0, 0, 0, 0)), 1)
	assert.Error(t, err)
}

func TestCropToMultipleRatios(t *testing.T) {
	cropper := New()
	img := createTestImage(400, 300)

	ratios := []aspect.Ratio{aspect.Square, aspect.Portrait, aspect.Landscape}
	results, err := cropper.CropToMultipleRatios(img, ratios)
	if err != nil {
		t.Fatalf("CropToMultipleRatios failed: %v", err)
	}

	if len(results) != len(ratios) {
		t.Fatalf("Expected %d results, got %d", len(ratios), len(results))
	}

	for i, result := range results {
		assert.InDelta(t, ratios[i].Value(), result.AspectRatio, 1e-12)
		if result.Image == nil {
			t.Errorf("Result %d has nil image", i)
		}
	}
}

func TestCropToSize(t *testing.T) {
	cropper := New()
	img := createTestImage(400, 300)

	result, err := cropper.CropToSize(img, 200, 100)
	if err != nil {
		t.Fatalf("CropToSize failed: %v", err)
	}

	bounds := result.Image.Bounds()
	if bounds.Dx() != 200 || bounds.Dy() != 100 {
		t.Errorf("Expected 200x100, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestCropToSizeUpscaling(t *testing.T) {
	cropper := New()
	img := createTestImage(200, 200)

	_, err := cropper.CropToSize(img, 400, 400)
	if err == nil {
		t.Error("Expected error when upscaling is disabled")
	}

	cropperWithUpscaling := NewWithConfig(CropConfig{AllowUpscaling: true})

	result, err := cropperWithUpscaling.CropToSize(img, 400, 400)
	if err != nil {
		t.Fatalf("Expected no error with upscaling enabled: %v", err)
	}

	if result.Image.Bounds().Dx() != 400 {
		t.Errorf("Expected width 400, got %d", result.Image.Bounds().Dx())
	}
}

func TestGetOptimalCrops(t *testing.T) {
	cropper := New()
	img := createTestImage(400, 300)

	results, err := cropper.GetOptimalCrops(img)
	if err != nil {
		t.Fatalf("GetOptimalCrops failed: %v", err)
	}

	if _, ok := results["landscape"]; !ok {
		t.Error("Expected the landscape crop of a 4:3 image to pass the threshold")
	}

	for name, result := range results {
		if result.Quality < cropper.config.QualityThreshold {
			t.Errorf("Crop %s has quality %f below threshold %f",
				name, result.Quality, cropper.config.QualityThreshold)
		}
	}
}

func TestCalculateCropQuality(t *testing.T) {
	cropper := New()
	full := image.Rect(0, 0, 400, 300)

	q := cropper.calculateCropQuality(full, full, crop.Crop{Width: 400, Height: 300}, 4.0/3.0)
	assert.InDelta(t, 1.0, q, 1e-9)

	q = cropper.calculateCropQuality(full, image.Rect(0, 0, 100, 100), crop.Crop{Width: 100, Height: 100}, 1)
	assert.Less(t, q, 0.7)
	assert.Greater(t, q, 0.0)
}

func BenchmarkCropToRatio(b *testing.B) {
	cropper := New()
	img := createTestImage(640, 480)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cropper.CropToRatio(img, 1.0)
	}
}
