// Package cropbox computes and applies crop boxes for an interactive image
// cropping control.
//
// The geometry lives in pkg/crop and works on plain values, so a UI can call
// it directly on every pointer move:
//
//	c := crop.Crop{X: 10, Y: 10, Width: 50, Aspect: 1}
//	c = crop.Resolve(c, 200, 100)       // fills in the height from the aspect
//	c = crop.Contain(prev, c, 200, 100) // keeps the box inside the image
//	limit := crop.MaxCrop(c, crop.SE, 200, 100)
//
// Editor ties the geometry to real images: it loads files, suggests an
// initial aspect-locked crop over the most salient region, cuts the crop out
// and writes it back as jpg, png or webp.
//
//	editor := cropbox.New()
//	img, err := editor.LoadImage("photo.jpg")
//	if err != nil {
//		log.Fatal(err)
//	}
//	c, err := editor.Suggest(img, aspect.Widescreen.Value())
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := editor.Export(img, c, "photo_16x9.webp"); err != nil {
//		log.Fatal(err)
//	}
package cropbox

import (
	"fmt"
	"image"

	"github.com/menta2k/cropbox/internal/config"
	"github.com/menta2k/cropbox/internal/utils"
	"github.com/menta2k/cropbox/pkg/analyzer"
	"github.com/menta2k/cropbox/pkg/aspect"
	"github.com/menta2k/cropbox/pkg/crop"
	"github.com/menta2k/cropbox/pkg/cropper"
	"github.com/menta2k/cropbox/pkg/processing"
	"github.com/menta2k/cropbox/pkg/vision"
)

// Version of the cropbox library
const Version = "1.0.0"

// Editor provides a high-level interface for cropping image files
type Editor struct {
	analyzer  *analyzer.ImageAnalyzer
	detector  *vision.SubjectDetector
	cropper   *cropper.SmartCropper
	processor *processing.Processor
	output    config.OutputConfig
}

// New creates a new Editor with default configuration
func New() *Editor {
	return fromConfig(config.Default())
}

// NewWithConfig creates a new Editor with custom component configuration
func NewWithConfig(analyzerConfig analyzer.Config, visionConfig vision.DetectionConfig, cropperConfig cropper.CropConfig, options processing.Options) *Editor {
	detector := vision.NewWithConfig(visionConfig)
	smartCropper := cropper.NewWithConfig(cropperConfig)
	smartCropper.SetDetector(detector)

	output := config.Default().Output
	if options.Format != "" {
		output.Format = options.Format
	}

	return &Editor{
		analyzer:  analyzer.NewWithConfig(analyzerConfig),
		detector:  detector,
		cropper:   smartCropper,
		processor: processing.NewProcessor(options),
		output:    output,
	}
}

// Load creates an Editor from a YAML or JSON config file. An empty path
// reads the default location and falls back to defaults when it is absent.
func Load(path string) (*Editor, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return fromConfig(cfg), nil
}

func fromConfig(cfg *config.Config) *Editor {
	e := NewWithConfig(
		analyzer.Config{
			SupportedFormats: cfg.Analyzer.SupportedFormats,
			MinImageSize:     cfg.Analyzer.MinImageSize,
		},
		vision.DetectionConfig{
			EdgeThreshold:   cfg.Vision.EdgeThreshold,
			ContrastWeight:  cfg.Vision.ContrastWeight,
			ColorWeight:     cfg.Vision.ColorWeight,
			MinSubjectRatio: cfg.Vision.MinSubjectRatio,
			MaxRegions:      cfg.Vision.MaxRegions,
		},
		cropper.CropConfig{
			AllowUpscaling:   cfg.Cropper.AllowUpscaling,
			QualityThreshold: cfg.Cropper.QualityThreshold,
		},
		processing.Options{
			Format:   cfg.Output.Format,
			Quality:  cfg.Output.Quality,
			Lossless: cfg.Output.Lossless,
		},
	)
	e.output = cfg.Output
	return e
}

// LoadImage loads an image from file
func (e *Editor) LoadImage(path string) (image.Image, error) {
	img, err := e.analyzer.LoadImage(path)
	if err != nil {
		return nil, err
	}
	if err := e.analyzer.ValidateImage(img); err != nil {
		return nil, err
	}
	return img, nil
}

// Dimensions reads the size of an image file without decoding its pixels
func (e *Editor) Dimensions(path string) (analyzer.ImageInfo, error) {
	return e.analyzer.Dimensions(path)
}

// GetImageInfo returns basic information about an image
func (e *Editor) GetImageInfo(img image.Image) analyzer.ImageInfo {
	return e.analyzer.GetImageInfo(img)
}

// DetectSubjects detects regions of interest in an image
func (e *Editor) DetectSubjects(img image.Image) ([]vision.Region, error) {
	return e.detector.DetectSubjects(img)
}

// Suggest returns an initial pixel crop with the given aspect
func (e *Editor) Suggest(img image.Image, ratio float64) (crop.Crop, error) {
	return e.detector.Suggest(img, ratio)
}

// Apply cuts the crop out of img
func (e *Editor) Apply(img image.Image, c crop.Crop) (image.Image, error) {
	return e.cropper.Apply(img, c)
}

// Overlay draws the crop outline over a copy of img
func (e *Editor) Overlay(img image.Image, c crop.Crop) image.Image {
	return e.processor.CreateDebugOverlay(img, c)
}

// Save writes img to path; the format follows the extension
func (e *Editor) Save(img image.Image, path string) error {
	return e.processor.SaveImage(img, path)
}

// Export applies the crop and writes the result to path
func (e *Editor) Export(img image.Image, c crop.Crop, path string) error {
	cropped, err := e.Apply(img, c)
	if err != nil {
		return err
	}
	return e.Save(cropped, path)
}

// CropToRatios crops an image to multiple preset ratios
func (e *Editor) CropToRatios(img image.Image, ratios []aspect.Ratio) ([]cropper.CropResult, error) {
	return e.cropper.CropToMultipleRatios(img, ratios)
}

// OutputPath returns where a crop of inputPath should be written according
// to the output configuration. A non-empty tag is appended to the suffix.
func (e *Editor) OutputPath(inputPath, tag string) string {
	suffix := e.output.Suffix
	if tag != "" {
		suffix += "_" + tag
	}
	return utils.GenerateOutputFilename(inputPath, e.output.OutputDir, e.output.Prefix, suffix, e.output.Format)
}

// ProcessImageFile loads an image, crops it to every ratio and saves the
// results into the configured output directory. It returns the written paths.
func (e *Editor) ProcessImageFile(inputPath string, ratios []aspect.Ratio) ([]string, error) {
	img, err := e.LoadImage(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}

	results, err := e.CropToRatios(img, ratios)
	if err != nil {
		return nil, fmt.Errorf("cropping failed: %w", err)
	}

	if err := utils.EnsureDir(e.output.OutputDir); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []string
	for i, result := range results {
		outputPath := e.OutputPath(inputPath, ratios[i].Name)
		if err := e.Save(result.Image, outputPath); err != nil {
			return written, fmt.Errorf("failed to save crop %s: %w", ratios[i].Name, err)
		}
		written = append(written, outputPath)
	}

	return written, nil
}

// SetOutputDir changes where ProcessImageFile writes
func (e *Editor) SetOutputDir(dir string) {
	e.output.OutputDir = dir
}
