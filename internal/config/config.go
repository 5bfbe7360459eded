package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-pdfpages/internal/fileutil"
	"github.com/alnah/go-pdfpages/internal/hints"
	"github.com/alnah/go-pdfpages/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength    = 4096
	MaxChapterLength = 100
)

// AppDir is the directory under os.UserConfigDir searched for named configs.
const AppDir = "go-pdfpages"

// Output format names accepted in output.formats.
const (
	FormatPDF  = "pdf"
	FormatPNG  = "png"
	FormatWebP = "webp"
)

// Config holds defaults for the convert command. Zero values mean "not set"
// and leave the built-in default in place.
type Config struct {
	Output  OutputConfig `yaml:"output"`
	Image   ImageConfig  `yaml:"image"`
	Render  RenderConfig `yaml:"render"`
	Chapter string       `yaml:"chapter"` // file name label, numeric or free text
}

// OutputConfig defines what is written and where.
type OutputConfig struct {
	Dir     string   `yaml:"dir"`     // Empty = next to the source, in <name>_pages
	Formats []string `yaml:"formats"` // any of pdf, png, webp
}

// ImageConfig defines raster output settings.
type ImageConfig struct {
	DPI     int `yaml:"dpi"`     // default 300
	Padding int `yaml:"padding"` // pixels, default 0
	Scale   int `yaml:"scale"`   // percent, 10-400, default 100
	Quality int `yaml:"quality"` // WebP, 1-100, default 90
}

// RenderConfig selects the rasterizer.
type RenderConfig struct {
	External bool `yaml:"external"` // use pdftocairo/pdftoppm instead of MuPDF
}

// HasFormat reports whether name is listed in output.formats (case-insensitive).
func (c *Config) HasFormat(name string) bool {
	for _, f := range c.Output.Formats {
		if strings.EqualFold(strings.TrimSpace(f), name) {
			return true
		}
	}
	return false
}

// Validate checks field lengths and ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("output.dir", c.Output.Dir, MaxPathLength); err != nil {
		return err
	}
	for i, f := range c.Output.Formats {
		switch strings.ToLower(strings.TrimSpace(f)) {
		case FormatPDF, FormatPNG, FormatWebP:
		default:
			return fmt.Errorf("%w: output.formats[%d]: %q (must be pdf, png, or webp)", ErrInvalidValue, i, f)
		}
	}

	if c.Image.DPI < 0 {
		return fmt.Errorf("%w: image.dpi: must be positive, got %d", ErrInvalidValue, c.Image.DPI)
	}
	if c.Image.Padding < 0 {
		return fmt.Errorf("%w: image.padding: must be zero or positive, got %d", ErrInvalidValue, c.Image.Padding)
	}
	if c.Image.Scale != 0 && (c.Image.Scale < 10 || c.Image.Scale > 400) {
		return fmt.Errorf("%w: image.scale: must be between 10 and 400, got %d", ErrInvalidValue, c.Image.Scale)
	}
	if c.Image.Quality != 0 && (c.Image.Quality < 1 || c.Image.Quality > 100) {
		return fmt.Errorf("%w: image.quality: must be between 1 and 100, got %d", ErrInvalidValue, c.Image.Quality)
	}

	return validateFieldLength("chapter", c.Chapter, MaxChapterLength)
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns an empty configuration; every setting falls back
// to the library defaults.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SearchPaths returns the locations tried for a config name, in order:
// current directory, then the user config directory; .yaml before .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppDir, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing path from SearchPaths.
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s%s", ErrConfigNotFound, strings.Join(tried, ", "), hints.ForConfigNotFound(tried))
}
