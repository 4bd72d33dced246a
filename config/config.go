// Package config loads the render backend settings from TOML.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"render-backend/core"
	"render-backend/filters"
)

type Config struct {
	Render    RenderConfig          `toml:"render"`
	Log       LogConfig             `toml:"log"`
	Materials MaterialsConfig       `toml:"materials"`
	Colours   map[string][3]float32 `toml:"colours"`
	Filters   []FilterRule          `toml:"filters"`
}

type RenderConfig struct {
	// Lighting requests interaction rendering when shader programs exist.
	Lighting bool `toml:"lighting"`
	// Programs is a directory of GLSL sources for material programs.
	Programs string `toml:"programs"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type MaterialsConfig struct {
	Path     string `toml:"path"`
	Textures string `toml:"textures"`
	Watch    bool   `toml:"watch"`
}

type FilterRule struct {
	Category string `toml:"category"`
	Pattern  string `toml:"pattern"`
	Show     bool   `toml:"show"`
}

// Default returns the built-in settings; Load overlays a file on top.
func Default() *Config {
	return &Config{
		Render: RenderConfig{Lighting: true},
		Log:    LogConfig{Level: "info"},
		Colours: map[string][3]float32{
			"selected_brush":        {1, 0, 0},
			"selected_brush_camera": {1, 0, 0},
			"selected_group_items":  {0, 0.4, 0.8},
			"clipper":               {0, 0, 1},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode config %q: %w", path, err)
	}
	for _, p := range []*string{&cfg.Render.Programs, &cfg.Materials.Path, &cfg.Materials.Textures} {
		if *p, err = homedir.Expand(*p); err != nil {
			return nil, fmt.Errorf("config %q: %w", path, err)
		}
	}
	return cfg, nil
}

// LogLevel maps the configured level name to a slog level. Unknown names
// fall back to info.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// ColourScheme returns the named colours, suitable for resolving the
// built-in shader colours.
func (c *Config) ColourScheme() ColourScheme {
	return ColourScheme(c.Colours)
}

// FilterSystem builds a filter system from the configured rules.
func (c *Config) FilterSystem() (*filters.System, error) {
	fs := filters.NewSystem()
	for _, r := range c.Filters {
		category := r.Category
		if category == "" {
			category = filters.CategoryTexture
		}
		if err := fs.AddRule(category, r.Pattern, r.Show); err != nil {
			return nil, err
		}
	}
	return fs, nil
}

// ColourScheme maps scheme keys to RGB colours.
type ColourScheme map[string][3]float32

// Colour returns the named colour with alpha 1, or white for unknown keys.
func (s ColourScheme) Colour(name string) core.Color {
	c, ok := s[name]
	if !ok {
		return core.ColorWhite
	}
	return core.Color{R: c[0], G: c[1], B: c[2], A: 1}
}
