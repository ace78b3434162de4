// Package config loads visscene settings from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"visscene/internal/layout"
	"visscene/internal/scene"
)

// Style is the default role styling shared by the renderers.
type Style struct {
	Primary      string  `yaml:"primary"`
	Secondary    string  `yaml:"secondary"`
	Observer     string  `yaml:"observer"`
	FillOpacity  float64 `yaml:"fill_opacity"`
	MarkerRadius float64 `yaml:"marker_radius"`
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
}

// Config mirrors the YAML file.
type Config struct {
	Variant         string   `yaml:"variant"`
	Margin          float64  `yaml:"margin"`
	IncludeObserver bool     `yaml:"include_observer"`
	Extensions      []string `yaml:"extensions"`
	LogLevel        string   `yaml:"log_level"`
	LogFile         string   `yaml:"log_file"`
	Style           Style    `yaml:"style"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Variant:    scene.Bare.String(),
		Margin:     layout.DefaultMargin,
		Extensions: []string{".txt", ".scn", ".pol"},
		LogLevel:   "info",
		Style: Style{
			Primary:      "#1F2937",
			Secondary:    "#DC2626",
			Observer:     "#2563EB",
			FillOpacity:  0.5,
			MarkerRadius: 5,
			Width:        800,
			Height:       800,
		},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default value. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that the renderers cannot recover from.
func (c Config) Validate() error {
	if _, err := scene.ParseVariant(c.Variant); err != nil {
		return err
	}
	if c.Margin < 0 {
		return errors.New("margin must not be negative")
	}
	for _, rc := range []struct{ key, hex string }{
		{"primary", c.Style.Primary},
		{"secondary", c.Style.Secondary},
		{"observer", c.Style.Observer},
	} {
		if _, err := colorful.Hex(rc.hex); err != nil {
			return fmt.Errorf("style.%s: %w", rc.key, err)
		}
	}
	if c.Style.FillOpacity < 0 || c.Style.FillOpacity > 1 {
		return fmt.Errorf("fill_opacity %v out of [0,1]", c.Style.FillOpacity)
	}
	if c.Style.Width <= 0 || c.Style.Height <= 0 {
		return fmt.Errorf("canvas size %dx%d must be positive", c.Style.Width, c.Style.Height)
	}
	return nil
}

// SceneVariant returns the configured variant. Call Validate first.
func (c Config) SceneVariant() scene.Variant {
	v, _ := scene.ParseVariant(c.Variant)
	return v
}

// LayoutOptions returns the layout settings.
func (c Config) LayoutOptions() layout.Options {
	return layout.Options{Margin: c.Margin, IncludeObserver: c.IncludeObserver}
}
