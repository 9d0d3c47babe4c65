package fern

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// maxLayoutIterations caps the layout fixed-point loop per frame.
const maxLayoutIterations = 5

// Config holds the tunables of a Context.
type Config struct {
	// LayoutIterations is the number of solve passes allowed per frame,
	// from 1 to 5. Zero means 5.
	LayoutIterations int `toml:"layout_iterations" yaml:"layout_iterations"`

	// Debug enables extra diagnostics: depth warnings and per-frame stats
	// logging.
	Debug bool `toml:"debug" yaml:"debug"`

	// MaxTreeDepth is the depth beyond which debug mode warns. Zero
	// disables the warning.
	MaxTreeDepth int `toml:"max_tree_depth" yaml:"max_tree_depth"`

	// DefaultFont is the font name Text widgets use when none is set.
	DefaultFont string `toml:"default_font" yaml:"default_font"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level" yaml:"log_level"`

	// DragDeadZone is how far, in pixels, the pointer must travel while
	// pressed before a drag starts.
	DragDeadZone float64 `toml:"drag_dead_zone" yaml:"drag_dead_zone"`

	// Window is the initial window size.
	WindowWidth  float64 `toml:"window_width" yaml:"window_width"`
	WindowHeight float64 `toml:"window_height" yaml:"window_height"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		LayoutIterations: maxLayoutIterations,
		MaxTreeDepth:     32,
		DefaultFont:      DefaultFont,
		LogLevel:         "warn",
		DragDeadZone:     defaultDragDeadZone,
	}
}

func (c Config) layoutIterations() int {
	if c.LayoutIterations <= 0 || c.LayoutIterations > maxLayoutIterations {
		return maxLayoutIterations
	}
	return c.LayoutIterations
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.LayoutIterations == 0 {
		c.LayoutIterations = d.LayoutIterations
	}
	if c.DefaultFont == "" {
		c.DefaultFont = d.DefaultFont
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.DragDeadZone == 0 {
		c.DragDeadZone = d.DragDeadZone
	}
	return c
}

// ParseConfig decodes data in the given format, "toml" or "yaml". Fields
// missing from data keep their defaults.
func ParseConfig(data []byte, format string) (Config, error) {
	cfg := DefaultConfig()
	switch strings.ToLower(format) {
	case "toml":
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("fern: parse toml config: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("fern: parse yaml config: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("fern: unknown config format %q", format)
	}
	if cfg.LayoutIterations < 0 || cfg.LayoutIterations > maxLayoutIterations {
		return Config{}, fmt.Errorf("fern: layout_iterations must be between 1 and %d, got %d",
			maxLayoutIterations, cfg.LayoutIterations)
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return Config{}, err
	}
	return cfg.withDefaults(), nil
}

// LoadConfig reads a TOML or YAML file, picking the format from the
// extension.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("fern: read config: %w", err)
	}
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	return ParseConfig(data, ext)
}
