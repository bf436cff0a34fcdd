package cropbox

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/cropbox/pkg/analyzer"
	"github.com/menta2k/cropbox/pkg/aspect"
	"github.com/menta2k/cropbox/pkg/crop"
	"github.com/menta2k/cropbox/pkg/cropper"
	"github.com/menta2k/cropbox/pkg/processing"
	"github.com/menta2k/cropbox/pkg/vision"
)

// createTestImage creates a simple test image
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	// Create a pattern with a bright subject in the center
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x > width/3 && x < 2*width/3 && y > height/3 && y < 2*height/3 {
				img.Set(x, y, color.RGBA{255, 255, 255, 255})
			} else {
				img.Set(x, y, color.RGBA{64, 64, 64, 255})
			}
		}
	}

	return img
}

func writeTestImage(t *testing.T, width, height int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "photo.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, createTestImage(width, height)))
	return path
}

func TestNew(t *testing.T) {
	editor := New()
	if editor == nil {
		t.Fatal("New() returned nil")
	}

	if editor.analyzer == nil || editor.detector == nil || editor.cropper == nil || editor.processor == nil {
		t.Error("Expected every component to be initialized")
	}
}

func TestNewWithConfig(t *testing.T) {
	editor := NewWithConfig(
		analyzer.Config{SupportedFormats: []string{"png"}, MinImageSize: 200},
		vision.DetectionConfig{EdgeThreshold: 0.2, ContrastWeight: 0.4, ColorWeight: 0.3, MinSubjectRatio: 0.2},
		cropper.CropConfig{AllowUpscaling: true, QualityThreshold: 0.5},
		processing.Options{Format: "png"},
	)

	assert.Equal(t, "png", editor.output.Format)

	_, err := editor.LoadImage(writeTestImage(t, 100, 100))
	assert.ErrorContains(t, err, "image too small")
}

func TestLoad(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "cropbox.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output:\n  format: webp\n  prefix: c_\n"), 0o644))

	editor, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "webp", editor.output.Format)
	assert.Equal(t, "c_", editor.output.Prefix)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDimensions(t *testing.T) {
	info, err := New().Dimensions(writeTestImage(t, 120, 80))
	require.NoError(t, err)
	assert.Equal(t, 120, info.Width)
	assert.Equal(t, 80, info.Height)
}

func TestSuggestAndExport(t *testing.T) {
	editor := New()
	img := createTestImage(400, 300)

	c, err := editor.Suggest(img, aspect.Square.Value())
	require.NoError(t, err)
	assert.True(t, crop.IsValid(c))

	out := filepath.Join(t.TempDir(), "square.png")
	require.NoError(t, editor.Export(img, c, out))

	info, err := editor.Dimensions(out)
	require.NoError(t, err)
	assert.Equal(t, 300, info.Width)
	assert.Equal(t, 300, info.Height)
}

func TestExport_EmptyCrop(t *testing.T) {
	err := New().Export(createTestImage(50, 50), crop.Default(), filepath.Join(t.TempDir(), "x.png"))
	assert.ErrorIs(t, err, cropper.ErrEmptyCrop)
}

func TestOverlay(t *testing.T) {
	img := createTestImage(100, 100)
	out := New().Overlay(img, crop.Crop{X: 10, Y: 10, Width: 20, Height: 20})
	assert.Equal(t, img.Bounds(), out.Bounds())
}

func TestOutputPath(t *testing.T) {
	editor := New()
	editor.SetOutputDir("out")

	assert.Equal(t, filepath.Join("out", "photo_cropped_square.jpg"), editor.OutputPath("in/photo.png", "square"))
	assert.Equal(t, filepath.Join("out", "photo_cropped.jpg"), editor.OutputPath("photo.png", ""))
}

func TestProcessImageFile(t *testing.T) {
	editor := New()
	editor.SetOutputDir(filepath.Join(t.TempDir(), "crops"))

	written, err := editor.ProcessImageFile(writeTestImage(t, 400, 300), []aspect.Ratio{aspect.Square, aspect.Widescreen})
	require.NoError(t, err)
	require.Len(t, written, 2)

	for _, path := range written {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}

	info, err := editor.Dimensions(written[1])
	require.NoError(t, err)
	assert.Equal(t, 400, info.Width)
	assert.Equal(t, 225, info.Height)
}

func TestProcessImageFile_MissingInput(t *testing.T) {
	_, err := New().ProcessImageFile(filepath.Join(t.TempDir(), "none.png"), []aspect.Ratio{aspect.Square})
	assert.ErrorContains(t, err, "failed to load image")
}
