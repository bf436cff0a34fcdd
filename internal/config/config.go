package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the default configuration file location
const EnvConfigPath = "CROPBOX_CONFIG"

// Config holds the application configuration
type Config struct {
	Analyzer AnalyzerConfig `json:"analyzer" yaml:"analyzer"`
	Vision   VisionConfig   `json:"vision" yaml:"vision"`
	Cropper  CropperConfig  `json:"cropper" yaml:"cropper"`
	Output   OutputConfig   `json:"output" yaml:"output"`
}

// AnalyzerConfig holds configuration for image loading
type AnalyzerConfig struct {
	SupportedFormats []string `json:"supported_formats" yaml:"supported_formats"`
	MinImageSize     int      `json:"min_image_size" yaml:"min_image_size"`
}

// VisionConfig holds configuration for subject detection
type VisionConfig struct {
	EdgeThreshold   float64 `json:"edge_threshold" yaml:"edge_threshold"`
	ContrastWeight  float64 `json:"contrast_weight" yaml:"contrast_weight"`
	ColorWeight     float64 `json:"color_weight" yaml:"color_weight"`
	MinSubjectRatio float64 `json:"min_subject_ratio" yaml:"min_subject_ratio"`
	MaxRegions      int     `json:"max_regions" yaml:"max_regions"`
}

// CropperConfig holds configuration for smart cropping
type CropperConfig struct {
	AllowUpscaling   bool    `json:"allow_upscaling" yaml:"allow_upscaling"`
	QualityThreshold float64 `json:"quality_threshold" yaml:"quality_threshold"`
}

// OutputConfig holds configuration for output generation
type OutputConfig struct {
	Format    string `json:"format" yaml:"format"`
	Quality   int    `json:"quality" yaml:"quality"`
	Lossless  bool   `json:"lossless" yaml:"lossless"`
	OutputDir string `json:"output_dir" yaml:"output_dir"`
	Prefix    string `json:"prefix" yaml:"prefix"`
	Suffix    string `json:"suffix" yaml:"suffix"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Analyzer: AnalyzerConfig{
			SupportedFormats: []string{"jpeg", "png", "gif", "webp"},
			MinImageSize:     1,
		},
		Vision: VisionConfig{
			EdgeThreshold:   0.01,
			ContrastWeight:  0.3,
			ColorWeight:     0.2,
			MinSubjectRatio: 0.05,
			MaxRegions:      10,
		},
		Cropper: CropperConfig{
			AllowUpscaling:   false,
			QualityThreshold: 0.6,
		},
		Output: OutputConfig{
			Format:    "jpg",
			Quality:   90,
			OutputDir: "./output",
			Suffix:    "_cropped",
		},
	}
}

func isYAML(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// LoadFromFile loads configuration from a YAML (.yaml, .yml) or JSON file.
// Keys missing from the file keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if isYAML(filename) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Load reads the file at path, or at GetConfigPath when path is empty. A
// missing file at the default location yields the defaults.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = GetConfigPath()
	}

	config, err := LoadFromFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// SaveToFile saves configuration to a YAML or JSON file depending on its extension
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	if isYAML(filename) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Analyzer.MinImageSize < 1 {
		return fmt.Errorf("analyzer.min_image_size must be positive")
	}

	if len(c.Analyzer.SupportedFormats) == 0 {
		return fmt.Errorf("analyzer.supported_formats cannot be empty")
	}

	if c.Vision.EdgeThreshold < 0 || c.Vision.EdgeThreshold > 1 {
		return fmt.Errorf("vision.edge_threshold must be between 0 and 1")
	}

	if c.Vision.MinSubjectRatio < 0 || c.Vision.MinSubjectRatio > 1 {
		return fmt.Errorf("vision.min_subject_ratio must be between 0 and 1")
	}

	if c.Cropper.QualityThreshold < 0 || c.Cropper.QualityThreshold > 1 {
		return fmt.Errorf("cropper.quality_threshold must be between 0 and 1")
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	switch strings.ToLower(c.Output.Format) {
	case "jpg", "jpeg", "png", "webp":
	default:
		return fmt.Errorf("output.format must be one of jpg, png, webp")
	}

	return nil
}

// GetConfigPath returns the configuration file path, honouring CROPBOX_CONFIG
func GetConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.yaml"
	}
	return filepath.Join(home, ".config", "cropbox", "config.yaml")
}
