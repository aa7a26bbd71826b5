package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lepinkainen/framewise/markup"
	"github.com/lepinkainen/framewise/review"
)

// MaxWidth is the largest stroke width the reviewer can select.
const MaxWidth = 20

// Config holds user preferences for review sessions
type Config struct {
	Tool          string        `yaml:"tool"`           // pen or rect
	Color         string        `yaml:"color"`          // initial stroke color
	Width         int           `yaml:"width"`          // initial stroke width, 1-20
	Palette       []string      `yaml:"palette"`        // colors cycled in the TUI
	PlaybackFPS   float64       `yaml:"playback_fps"`   // used when a video reports no frame rate
	FFmpeg        string        `yaml:"ffmpeg"`         // ffmpeg binary
	FFprobe       string        `yaml:"ffprobe"`        // ffprobe binary
	DecodeTimeout time.Duration `yaml:"decode_timeout"` // per frame, e.g. 30s
	LogLevel      string        `yaml:"log_level"`      // debug, info, warn, error
	LogFile       string        `yaml:"log_file"`       // review session log, empty to discard
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Tool:          string(review.Freehand),
		Color:         review.DefaultColor,
		Width:         review.DefaultWidth,
		Palette:       []string{"#ff0000", "#00ff00", "#0000ff", "#ffff00", "#ff00ff", "#00ffff", "#ffffff"},
		PlaybackFPS:   30,
		FFmpeg:        "ffmpeg",
		FFprobe:       "ffprobe",
		DecodeTimeout: 30 * time.Second,
		LogLevel:      "info",
	}
}

// DefaultPath is $XDG_CONFIG_HOME/framewise/config.yaml or its platform equivalent
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "framewise", "config.yaml"), nil
}

// Load reads a YAML configuration file on top of the defaults. An empty path
// loads the default file if it exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration and canonicalizes its colors
func Validate(cfg *Config) error {
	if _, err := review.ParseShapeKind(cfg.Tool); err != nil {
		return fmt.Errorf("tool: %w", err)
	}

	color, err := markup.ParseColor(cfg.Color)
	if err != nil {
		return fmt.Errorf("color: %w", err)
	}
	cfg.Color = color

	if cfg.Width < 1 || cfg.Width > MaxWidth {
		return fmt.Errorf("width must be between 1 and %d, got %d", MaxWidth, cfg.Width)
	}

	if len(cfg.Palette) == 0 {
		return fmt.Errorf("palette must contain at least one color")
	}
	for i, c := range cfg.Palette {
		canonical, err := markup.ParseColor(c)
		if err != nil {
			return fmt.Errorf("palette[%d]: %w", i, err)
		}
		cfg.Palette[i] = canonical
	}

	if cfg.PlaybackFPS <= 0 {
		return fmt.Errorf("playback_fps must be positive, got %v", cfg.PlaybackFPS)
	}
	if cfg.DecodeTimeout <= 0 {
		return fmt.Errorf("decode_timeout must be positive, got %s", cfg.DecodeTimeout)
	}
	if cfg.FFmpeg == "" || cfg.FFprobe == "" {
		return fmt.Errorf("ffmpeg and ffprobe must not be empty")
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", cfg.LogLevel)
	}

	return nil
}

// NewCapture returns a shape capture configured with the initial tool settings
func (c *Config) NewCapture() (*markup.Capture, error) {
	capture := markup.NewCapture()
	if err := capture.SetMode(review.ShapeKind(c.Tool)); err != nil {
		return nil, err
	}
	if err := capture.SetColor(c.Color); err != nil {
		return nil, err
	}
	capture.SetWidth(c.Width)
	return capture, nil
}
