package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"render-backend/core"
	"render-backend/filters"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "render.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[render]
lighting = false
programs = "assets/programs"

[log]
level = "debug"

[materials]
path = "assets/materials.yaml"
textures = "assets/textures"
watch = true

[[filters]]
pattern = "textures/hidden/**"
show = false
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Render.Lighting)
	assert.Equal(t, "assets/programs", cfg.Render.Programs)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
	assert.Equal(t, "assets/materials.yaml", cfg.Materials.Path)
	assert.Equal(t, "assets/textures", cfg.Materials.Textures)
	assert.True(t, cfg.Materials.Watch)
	require.Len(t, cfg.Filters, 1)

	fs, err := cfg.FilterSystem()
	require.NoError(t, err)
	require.Len(t, fs.Rules(), 1)
	assert.Equal(t, filters.CategoryTexture, fs.Rules()[0].Category)
	assert.False(t, fs.IsVisible(filters.CategoryTexture, "textures/hidden/a"))
}

func TestLoadExpandsHome(t *testing.T) {
	home, err := homedir.Dir()
	if err != nil {
		t.Skip("no home directory")
	}
	cfg, err := Load(writeConfig(t, `
[materials]
path = "~/maps/materials.yaml"
textures = "/abs/textures"
`))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "maps", "materials.yaml"), cfg.Materials.Path)
	assert.Equal(t, "/abs/textures", cfg.Materials.Textures)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "[render\nlighting = "))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.Render.Lighting)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel())
	assert.Equal(t, core.Color{R: 1, A: 1}, cfg.ColourScheme().Colour("selected_brush"))
}

func TestLogLevel(t *testing.T) {
	cfg := Default()
	for name, want := range map[string]slog.Level{
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"chatty":  slog.LevelInfo,
	} {
		cfg.Log.Level = name
		assert.Equal(t, want, cfg.LogLevel(), name)
	}
}

func TestColourSchemeUnknownKey(t *testing.T) {
	assert.Equal(t, core.ColorWhite, ColourScheme{}.Colour("nope"))
}

func TestFilterSystemBadPattern(t *testing.T) {
	cfg := Default()
	cfg.Filters = []FilterRule{{Category: "entity", Pattern: "[", Show: false}}
	_, err := cfg.FilterSystem()
	assert.Error(t, err)
}
