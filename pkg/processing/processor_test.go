package processing

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/cropbox/pkg/crop"
)

func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	return img
}

func TestNewProcessor_Defaults(t *testing.T) {
	p := NewProcessor(Options{})
	assert.Equal(t, "jpg", p.options.Format)
	assert.Equal(t, 90, p.options.Quality)
}

func TestFormatFromPath(t *testing.T) {
	p := NewProcessor(Options{Format: "png"})

	assert.Equal(t, "webp", p.FormatFromPath("out/photo.WEBP"))
	assert.Equal(t, "jpg", p.FormatFromPath("photo.jpg"))
	assert.Equal(t, "png", p.FormatFromPath("photo"))
}

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor(Options{Quality: 80, Lossless: true})
	img := createTestImage(32, 16)

	for _, name := range []string{"a.jpg", "b.png", "c.webp"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, p.SaveImage(img, path))

			loaded, err := imaging.Open(path)
			if filepath.Ext(name) == ".webp" {
				data, rerr := os.ReadFile(path)
				require.NoError(t, rerr)
				loaded, err = webp.Decode(bytes.NewReader(data))
			}
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 32, 16), loaded.Bounds())
		})
	}
}

func TestSaveImage_UnsupportedFormat(t *testing.T) {
	p := NewProcessor(Options{})
	err := p.SaveImage(createTestImage(4, 4), filepath.Join(t.TempDir(), "x.bmp"))
	if err == nil {
		t.Fatal("Expected error for bmp output")
	}
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestFit(t *testing.T) {
	p := NewProcessor(Options{})

	out, err := p.Fit(createTestImage(200, 100), 50, 50)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 50, 50), out.Bounds())

	_, err = p.Fit(createTestImage(10, 10), 0, 5)
	assert.Error(t, err)
}

func TestCreateDebugOverlay(t *testing.T) {
	p := NewProcessor(Options{})
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))

	out := p.CreateDebugOverlay(img, crop.Crop{X: 10, Y: 10, Width: 40, Height: 40})
	nrgba, ok := out.(*image.NRGBA)
	require.True(t, ok)

	assert.Equal(t, color.NRGBA{255, 204, 0, 255}, nrgba.NRGBAAt(20, 10), "top edge")
	assert.Equal(t, color.NRGBA{255, 204, 0, 255}, nrgba.NRGBAAt(49, 20), "right edge")
	assert.Equal(t, color.NRGBA{255, 0, 0, 255}, nrgba.NRGBAAt(30, 30), "crop center")
	assert.Equal(t, color.NRGBA{0, 170, 255, 255}, nrgba.NRGBAAt(50, 50), "image center")
	assert.Equal(t, color.NRGBA{}, nrgba.NRGBAAt(80, 80))

	// source untouched
	assert.Equal(t, color.RGBA{}, img.RGBAAt(20, 10))
}
