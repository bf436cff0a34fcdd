package vision

import (
	"fmt"
	"image"
	"log/slog"
	"math"
	"sort"

	"github.com/menta2k/cropbox/pkg/crop"
)

// SubjectDetector finds salient regions and places aspect-locked crops around them
type SubjectDetector struct {
	config DetectionConfig
}

// DetectionConfig holds configuration for subject detection
type DetectionConfig struct {
	EdgeThreshold   float64
	ContrastWeight  float64
	ColorWeight     float64
	MinSubjectRatio float64
	MaxRegions      int
}

// New creates a new SubjectDetector with default configuration
func New() *SubjectDetector {
	return &SubjectDetector{
		config: DetectionConfig{
			EdgeThreshold:   0.01,
			ContrastWeight:  0.3,
			ColorWeight:     0.2,
			MinSubjectRatio: 0.05,
			MaxRegions:      10,
		},
	}
}

// NewWithConfig creates a new SubjectDetector with custom configuration
func NewWithConfig(config DetectionConfig) *SubjectDetector {
	if config.MaxRegions <= 0 {
		config.MaxRegions = 10
	}
	return &SubjectDetector{config: config}
}

// Region represents a rectangular region of interest
type Region struct {
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Score  float64 `json:"score"`
}

// Center returns the center point of the region
func (r Region) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Area returns the area of the region
func (r Region) Area() int {
	return r.Width * r.Height
}

// Crop returns the region as a pixel crop
func (r Region) Crop() crop.Crop {
	return crop.Crop{
		X:      float64(r.X),
		Y:      float64(r.Y),
		Width:  float64(r.Width),
		Height: float64(r.Height),
		Unit:   crop.Pixels,
	}
}

// DetectSubjects analyzes an image and returns regions of interest, best first
func (d *SubjectDetector) DetectSubjects(img image.Image) ([]Region, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("invalid image dimensions: %dx%d", width, height)
	}

	saliencyMap := d.calculateSaliencyMap(img)
	regions := d.findImportantRegions(saliencyMap, width, height)
	filtered := d.filterAndScoreRegions(regions, width, height)

	if len(filtered) > d.config.MaxRegions {
		filtered = filtered[:d.config.MaxRegions]
	}

	return filtered, nil
}

// Suggest returns the largest pixel crop with the given aspect that fits the
// image, positioned over the detected subjects. Without subjects the crop is
// centered.
func (d *SubjectDetector) Suggest(img image.Image, aspect float64) (crop.Crop, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	iw, ih := float64(width), float64(height)

	size := crop.Crop{Width: iw, Aspect: aspect}
	if err := crop.ValidateAspect(size); err != nil {
		return crop.Crop{}, err
	}

	subjects, err := d.DetectSubjects(img)
	if err != nil {
		return crop.Crop{}, err
	}

	size = crop.MakeAspect(size, iw, ih)

	if len(subjects) == 0 {
		slog.Debug("Suggest: no subjects, centering", "width", size.Width, "height", size.Height)
		return crop.ToPixel(crop.Center(size, iw, ih), iw, ih), nil
	}

	best := d.findOptimalCropPosition(subjects, int(size.Width), int(size.Height), width, height)
	slog.Debug("Suggest: placed crop", "x", best.X, "y", best.Y, "score", best.Score, "subjects", len(subjects))

	c := size
	c.X = float64(best.X)
	c.Y = float64(best.Y)
	return crop.Contain(c, c, iw, ih), nil
}

func (d *SubjectDetector) calculateSaliencyMap(img image.Image) [][]float64 {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	saliencyMap := make([][]float64, height)
	for i := range saliencyMap {
		saliencyMap[i] = make([]float64, width)
	}

	neighbors := [][]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			r1, g1, b1, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()

			// Sobel-like edge strength over the 8 neighbours
			var edgeStrength float64
			for _, offset := range neighbors {
				r2, g2, b2, _ := img.At(x+offset[0]+bounds.Min.X, y+offset[1]+bounds.Min.Y).RGBA()

				dr := float64(r1) - float64(r2)
				dg := float64(g1) - float64(g2)
				db := float64(b1) - float64(b2)
				edgeStrength += math.Sqrt(dr*dr + dg*dg + db*db)
			}
			edgeStrength /= 8.0 * 65535.0

			brightness := (float64(r1) + float64(g1) + float64(b1)) / (3.0 * 65535.0)

			saliencyMap[y][x] = d.config.ContrastWeight*edgeStrength + d.config.ColorWeight*brightness
		}
	}

	return saliencyMap
}

func (d *SubjectDetector) findImportantRegions(saliencyMap [][]float64, width, height int) []Region {
	var regions []Region

	windowSizes := []int{width / 20, width / 16, width / 12, width / 8, width / 4}

	for _, windowSize := range windowSizes {
		if windowSize < 10 || windowSize > height {
			continue
		}
		step := windowSize / 8

		for y := 0; y <= height-windowSize; y += step {
			for x := 0; x <= width-windowSize; x += step {
				score := calculateRegionScore(saliencyMap, x, y, windowSize, windowSize)

				if score > d.config.EdgeThreshold {
					regions = append(regions, Region{
						X:      x,
						Y:      y,
						Width:  windowSize,
						Height: windowSize,
						Score:  score,
					})
				}
			}
		}
	}

	return regions
}

func calculateRegionScore(saliencyMap [][]float64, x, y, width, height int) float64 {
	var totalScore float64
	count := 0

	for ry := y; ry < y+height && ry < len(saliencyMap); ry++ {
		for rx := x; rx < x+width && rx < len(saliencyMap[ry]); rx++ {
			totalScore += saliencyMap[ry][rx]
			count++
		}
	}

	if count == 0 {
		return 0
	}

	return totalScore / float64(count)
}

func (d *SubjectDetector) filterAndScoreRegions(regions []Region, imageWidth, imageHeight int) []Region {
	var filtered []Region

	minArea := int(float64(imageWidth*imageHeight) * d.config.MinSubjectRatio)

	for _, region := range regions {
		if region.Area() >= minArea {
			filtered = append(filtered, region)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Score > filtered[j].Score
	})

	return filtered
}

func (d *SubjectDetector) findOptimalCropPosition(subjects []Region, cropWidth, cropHeight, imageWidth, imageHeight int) Region {
	bestScore := 0.0
	bestRegion := Region{
		X:      (imageWidth - cropWidth) / 2,
		Y:      (imageHeight - cropHeight) / 2,
		Width:  cropWidth,
		Height: cropHeight,
	}

	stepSize := int(math.Max(float64(cropWidth)/20, float64(cropHeight)/20))
	if stepSize < 10 {
		stepSize = 10
	}

	for y := 0; y <= imageHeight-cropHeight; y += stepSize {
		for x := 0; x <= imageWidth-cropWidth; x += stepSize {
			score := scoreCropPosition(subjects, x, y, cropWidth, cropHeight)

			if score > bestScore {
				bestScore = score
				bestRegion = Region{
					X:      x,
					Y:      y,
					Width:  cropWidth,
					Height: cropHeight,
					Score:  score,
				}
			}
		}
	}

	return bestRegion
}

// scoreCropPosition sums, over all subjects, the covered fraction of each
// subject weighted by its score.
func scoreCropPosition(subjects []Region, cropX, cropY, cropWidth, cropHeight int) float64 {
	window := image.Rect(cropX, cropY, cropX+cropWidth, cropY+cropHeight)
	score := 0.0

	for _, subject := range subjects {
		if subject.Area() == 0 {
			continue
		}
		overlap := window.Intersect(image.Rect(subject.X, subject.Y, subject.X+subject.Width, subject.Y+subject.Height))
		if overlap.Empty() {
			continue
		}
		ratio := float64(overlap.Dx()*overlap.Dy()) / float64(subject.Area())
		score += ratio * subject.Score
	}

	return score
}
