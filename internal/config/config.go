// Package config loads tablex configuration from files, environment
// variables, and command-line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/MeKo-Tech/tablex/internal/layout"
	"github.com/MeKo-Tech/tablex/internal/pipeline"
	"github.com/MeKo-Tech/tablex/internal/render"
)

// Config represents the complete configuration for the tablex application.
// It supports loading from configuration files, environment variables, and
// command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Extraction settings
	Extract ExtractConfig `mapstructure:"extract" yaml:"extract" json:"extract"`

	// Layout analysis settings
	Layout LayoutConfig `mapstructure:"layout" yaml:"layout" json:"layout"`

	// Page rendering settings
	Render RenderConfig `mapstructure:"render" yaml:"render" json:"render"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`
}

// ExtractConfig contains table extraction settings.
type ExtractConfig struct {
	Pages    string `mapstructure:"pages" yaml:"pages" json:"pages"`
	Password string `mapstructure:"password" yaml:"password" json:"password"`
	Flavor   string `mapstructure:"flavor" yaml:"flavor" json:"flavor"`
}

// LayoutConfig contains text grouping tolerances.
type LayoutConfig struct {
	XTolerance   float64 `mapstructure:"x_tolerance" yaml:"x_tolerance" json:"x_tolerance"`
	YTolerance   float64 `mapstructure:"y_tolerance" yaml:"y_tolerance" json:"y_tolerance"`
	MinRunLength int     `mapstructure:"min_run_length" yaml:"min_run_length" json:"min_run_length"`
}

// RenderConfig contains page image rendering settings.
type RenderConfig struct {
	DPI int `mapstructure:"dpi" yaml:"dpi" json:"dpi"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"`
	File   string `mapstructure:"file" yaml:"file" json:"file"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	opts := layout.DefaultOptions()
	return Config{
		LogLevel: "info",
		Verbose:  false,
		Extract: ExtractConfig{
			Pages:  "1",
			Flavor: string(pipeline.FlavorLattice),
		},
		Layout: LayoutConfig{
			XTolerance:   opts.XTolerance,
			YTolerance:   opts.YTolerance,
			MinRunLength: opts.MinRunLength,
		},
		Render: RenderConfig{
			DPI: render.DefaultDPI,
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if _, err := pipeline.ParseFlavor(c.Extract.Flavor); err != nil {
		return err
	}

	validFormats := []string{"text", "json"}
	if c.Output.Format != "" && !contains(validFormats, c.Output.Format) {
		return fmt.Errorf("invalid output format: %s (must be one of: %s)", c.Output.Format, strings.Join(validFormats, ", "))
	}

	if c.Layout.XTolerance <= 0 {
		return fmt.Errorf("invalid layout x_tolerance: %.2f (must be positive)", c.Layout.XTolerance)
	}
	if c.Layout.YTolerance <= 0 {
		return fmt.Errorf("invalid layout y_tolerance: %.2f (must be positive)", c.Layout.YTolerance)
	}
	if c.Layout.MinRunLength < 2 {
		return fmt.Errorf("invalid layout min_run_length: %d (must be at least 2)", c.Layout.MinRunLength)
	}

	if c.Render.DPI < 72 || c.Render.DPI > 600 {
		return fmt.Errorf("invalid render dpi: %d (must be between 72 and 600)", c.Render.DPI)
	}

	return nil
}

// ToLayoutOptions converts the config to layout analysis options.
func (c *Config) ToLayoutOptions() layout.Options {
	return layout.Options{
		XTolerance:   c.Layout.XTolerance,
		YTolerance:   c.Layout.YTolerance,
		MinRunLength: c.Layout.MinRunLength,
	}
}

// contains checks if a slice contains a string.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
