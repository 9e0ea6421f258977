package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/menta2k/poeticapic/pkg/border"
	"github.com/menta2k/poeticapic/pkg/caption"
	"github.com/menta2k/poeticapic/pkg/filter"
	"github.com/menta2k/poeticapic/pkg/imageio"
	"github.com/menta2k/poeticapic/pkg/overlay"
	"github.com/menta2k/poeticapic/pkg/pipeline"
	"github.com/menta2k/poeticapic/pkg/raster"
	"github.com/menta2k/poeticapic/pkg/types"
)

// Config holds the application configuration
type Config struct {
	Filter  FilterConfig        `json:"filter"`
	Border  BorderConfig        `json:"border"`
	Text    TextConfig          `json:"text"`
	Resize  ResizeConfig        `json:"resize"`
	Service types.ServiceConfig `json:"service"`
	Output  OutputConfig        `json:"output"`
	Log     LogConfig           `json:"log"`
}

// FilterConfig holds the filter parameters
type FilterConfig struct {
	filter.Options
}

// BorderConfig holds the border parameters
type BorderConfig struct {
	PolaroidSideRatio float64 `json:"polaroid_side_ratio"`
	// TexturePath is the image tiled by the wooden frame.
	TexturePath string `json:"texture_path"`
	// Seed, when set, makes the random patterns reproducible.
	Seed *uint64 `json:"seed,omitempty"`
}

// TextConfig holds the defaults of the text stage
type TextConfig struct {
	Position   string  `json:"position"`
	WrapWidth  int     `json:"wrap_width"`
	FontPath   string  `json:"font_path"`
	FontSize   float64 `json:"font_size"`
	ClampSize  bool    `json:"clamp_size"`
	Color      string  `json:"color"`
	Background string  `json:"background"`
	Kind       string  `json:"kind"`
}

// ResizeConfig holds the resampling defaults
type ResizeConfig struct {
	Kernel string `json:"kernel"`
	Mode   string `json:"mode"`
}

// OutputConfig holds configuration for output generation
type OutputConfig struct {
	DefaultFormat string `json:"default_format"`
	OutputDir     string `json:"output_dir"`
	Prefix        string `json:"prefix"`
	Suffix        string `json:"suffix"`
	Quality       int    `json:"quality"`
	Lossless      bool   `json:"lossless"`
	// Workers bounds the number of images processed at once in batch mode.
	Workers int `json:"workers"`
}

// LogConfig holds the logger settings
type LogConfig struct {
	Level string `json:"level"`
	// Dev switches to colored human readable output.
	Dev bool `json:"dev"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Filter: FilterConfig{Options: filter.DefaultOptions()},
		Border: BorderConfig{
			PolaroidSideRatio: border.DefaultOptions().PolaroidSideRatio,
		},
		Text: TextConfig{
			Position:  string(overlay.BottomCenter),
			WrapWidth: overlay.DefaultWrapWidth,
			FontSize:  15,
			ClampSize: true,
			Color:     "#FFFFFF",
			Kind:      string(caption.LifeQuote),
		},
		Resize: ResizeConfig{
			Kernel: pipeline.DefaultKernel,
			Mode:   string(pipeline.Stretch),
		},
		Service: types.ServiceConfig{
			Backend:        "",
			URL:            "http://localhost:11434",
			TagModel:       "llava",
			TextModel:      "llama3.2",
			TimeoutSeconds: 300,
			MaxImageDim:    768,
		},
		Output: OutputConfig{
			DefaultFormat: imageio.FormatJPEG,
			OutputDir:     "./output",
			Prefix:        "",
			Suffix:        "_modified",
			Quality:       imageio.DefaultQuality,
			Workers:       4,
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadFromFile loads configuration from a JSON file. Fields missing from
// the file keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
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
	if c.Filter.OilBrush < 1 || c.Filter.WatercolorBrush < 1 {
		return fmt.Errorf("filter brush sizes must be positive")
	}

	if c.Filter.SolarizeThreshold < 1 || c.Filter.SolarizeThreshold > 255 {
		return fmt.Errorf("filter.solarize_threshold must be between 1 and 255")
	}

	if c.Border.PolaroidSideRatio <= 0 || c.Border.PolaroidSideRatio >= 0.5 {
		return fmt.Errorf("border.polaroid_side_ratio must be between 0 and 0.5")
	}

	if _, err := overlay.ParsePosition(c.Text.Position); err != nil {
		return fmt.Errorf("text.position: %w", err)
	}

	if c.Text.WrapWidth < 1 {
		return fmt.Errorf("text.wrap_width must be positive")
	}

	if c.Text.FontSize <= 0 {
		return fmt.Errorf("text.font_size must be positive")
	}

	if _, err := raster.ParseHex(c.Text.Color); err != nil {
		return fmt.Errorf("text.color: %w", err)
	}

	if c.Text.Background != "" {
		if _, err := raster.ParseHex(c.Text.Background); err != nil {
			return fmt.Errorf("text.background: %w", err)
		}
	}

	if _, err := caption.ParseKind(c.Text.Kind); err != nil {
		return fmt.Errorf("text.kind: %w", err)
	}

	probe := pipeline.Resize{Width: 1, Height: 1, Kernel: c.Resize.Kernel, Mode: pipeline.ResizeMode(c.Resize.Mode)}
	if err := probe.Validate(); err != nil {
		return fmt.Errorf("resize: %w", err)
	}

	switch c.Service.Backend {
	case "", caption.BackendOllama, caption.BackendLlamaCpp:
	default:
		return fmt.Errorf("service.backend must be empty, %q or %q", caption.BackendOllama, caption.BackendLlamaCpp)
	}

	if c.Service.Backend != "" && c.Service.TagModel == "" {
		return fmt.Errorf("service.tag_model is required when a backend is set")
	}

	if _, err := imageio.NormalizeFormat(c.Output.DefaultFormat); err != nil {
		return fmt.Errorf("output.default_format: %w", err)
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	if c.Output.Workers < 1 {
		return fmt.Errorf("output.workers must be positive")
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "poeticapic", "config.json")
}
