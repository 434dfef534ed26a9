// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package aurora

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Renderer tier choices for RendererConfig.Tier.
const (
	TierAuto     = "auto"
	TierGPU      = "gpu"
	TierSoftware = "software"
)

// Config holds file-based settings for aurora tools.
type Config struct {
	Props     Props           `yaml:"props"`
	Renderer  RendererConfig  `yaml:"renderer"`
	Terminal  TerminalConfig  `yaml:"terminal"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	PropSync  PropSyncConfig  `yaml:"propsync"`
}

// RendererConfig selects the render context.
type RendererConfig struct {
	Tier             string  `yaml:"tier"`
	DevicePixelRatio float64 `yaml:"device_pixel_ratio"`
}

// TerminalConfig configures the terminal host.
type TerminalConfig struct {
	FPS int `yaml:"fps"`
}

// TelemetryConfig configures per-frame CSV output.
type TelemetryConfig struct {
	Dir string `yaml:"dir"`
}

// PropSyncConfig configures the websocket props feed.
type PropSyncConfig struct {
	Listen string `yaml:"listen"`
}

// DefaultConfig returns the embedded defaults.
func DefaultConfig() *Config {
	cfg, err := LoadConfig("")
	if err != nil {
		panic(fmt.Sprintf("aurora: embedded defaults: %v", err))
	}
	return cfg
}

// LoadConfig loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Renderer.Tier {
	case TierAuto, TierGPU, TierSoftware:
	default:
		return fmt.Errorf("config: renderer.tier %q: want auto, gpu or software", c.Renderer.Tier)
	}
	if c.Renderer.DevicePixelRatio < 0 {
		return fmt.Errorf("config: renderer.device_pixel_ratio %v is negative", c.Renderer.DevicePixelRatio)
	}
	if c.Terminal.FPS <= 0 {
		return fmt.Errorf("config: terminal.fps %d must be positive", c.Terminal.FPS)
	}
	if len(c.Props.ColorStops) > 3 {
		return fmt.Errorf("config: props.color_stops has %d entries, want at most 3", len(c.Props.ColorStops))
	}
	return nil
}

// Options returns the Mount options described by the config.
func (c *Config) Options() []Option {
	return []Option{WithProps(c.Props)}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
