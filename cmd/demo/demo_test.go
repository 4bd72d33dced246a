package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"render-backend/core"
	"render-backend/materials"
	"render-backend/render"
	"render-backend/scene"
	"render-backend/textures"
)

func TestBundledMaterialsCoverDemoScene(t *testing.T) {
	tm := textures.NewManager(nil)
	require.NoError(t, registerDemoTextures(tm))
	lib := materials.NewLibrary(tm)
	require.NoError(t, lib.LoadLibrary("../../assets/materials.yaml"))

	s, sun := buildScene()
	require.NotNil(t, sun)
	assert.Len(t, s.Lights, 2)

	s.Root.Traverse(func(n *scene.Node) {
		if n.Mesh == nil || n.Shader == "" || n.Shader[0] != 't' {
			return
		}
		if n.Name == "Missing" {
			assert.False(t, lib.Has(n.Shader))
			return
		}
		assert.True(t, lib.Has(n.Shader), n.Shader)
	})
}

func TestDemoSceneRenders(t *testing.T) {
	tm := textures.NewManager(nil)
	require.NoError(t, registerDemoTextures(tm))
	lib := materials.NewLibrary(tm)
	require.NoError(t, lib.LoadLibrary("../../assets/materials.yaml"))
	registry := render.NewRegistry(lib)

	s, _ := buildScene()
	s.Camera = scene.NewOrbitCamera(mgl32.Vec3{}, 12, mgl32.DegToRad(60), 16.0/9)
	shaders := scene.NewShaderCache(registry)
	defer shaders.Release()

	stats := s.Submit(shaders, countingDrawer{})
	assert.Equal(t, 8, stats.Submitted+stats.Culled)
	assert.Positive(t, stats.Submitted)
}

type countingDrawer struct{}

func (countingDrawer) DrawMesh(*scene.Mesh, render.RenderInfo) {}

func TestRegisterDemoTexturesKeepsLoaded(t *testing.T) {
	tm := textures.NewManager(nil)
	loaded, err := tm.Register(textures.NewSolidTexture("textures/glass", 1, 2, 3, 255))
	require.NoError(t, err)
	require.NoError(t, registerDemoTextures(tm))
	got, _ := tm.Get("textures/glass")
	assert.Same(t, loaded, got)
	_, ok := tm.Get("textures/checker")
	assert.True(t, ok)
}

func TestDayNight(t *testing.T) {
	dn := NewDayNight()
	assert.Equal(t, "12:00 PM", dn.TimeOfDay())
	dn.Time = 0.25
	assert.Equal(t, "06:00 PM", dn.TimeOfDay())
	dn.Time = 0.5
	assert.Equal(t, "12:00 AM", dn.TimeOfDay())

	dn.Time = 0.9
	dn.Update(dn.Period * 0.2)
	assert.InDelta(t, 0.1, dn.Time, 1e-4)

	dn.Active = false
	dn.Update(10)
	assert.InDelta(t, 0.1, dn.Time, 1e-4)
}

func TestDayNightApply(t *testing.T) {
	s := scene.NewScene()
	sun := scene.NewPointLight("Sun", mgl32.Vec3{}, 20, palettes[0].sun)
	dn := NewDayNight()
	dn.Apply(s, sun)
	assertColorNear(t, palettes[0].sky, s.Background)
	assert.InDelta(t, dn.Orbit, sun.Origin.Len(), 1e-4)
	assert.Greater(t, sun.Origin[1], float32(0))

	dn.Time = 0.5
	dn.Apply(s, sun)
	assert.Less(t, sun.Origin[1], float32(0))
	assert.Less(t, sun.Colour.R, palettes[0].sun.R)
}

func assertColorNear(t *testing.T, want, got core.Color) {
	t.Helper()
	assert.InDelta(t, want.R, got.R, 1e-3)
	assert.InDelta(t, want.G, got.G, 1e-3)
	assert.InDelta(t, want.B, got.B, 1e-3)
	assert.InDelta(t, want.A, got.A, 1e-3)
}

func TestLerpColorEndpoints(t *testing.T) {
	a, b := palettes[0].sky, palettes[3].sky
	assertColorNear(t, a, lerpColor(a, b, 0))
	assertColorNear(t, b, lerpColor(a, b, 1))
	mid := lerpColor(a, b, 0.5)
	assert.NotEqual(t, a, mid)
	assert.NotEqual(t, b, mid)
	assert.Equal(t, float32(1), mid.A)
}

func TestSamplePaletteWraps(t *testing.T) {
	last := palettes[len(palettes)-1]
	p := samplePalette((last.t + 1) / 2)
	assert.Greater(t, p.intensity, last.intensity)
	assert.Less(t, p.intensity, palettes[0].intensity)
}

func TestStatusLine(t *testing.T) {
	var sl StatusLine
	sl.Add("%d fps", 60)
	sl.Add("%s", "lit")
	assert.Equal(t, "60 fps | lit", sl.String())
	sl.Clear()
	assert.Empty(t, sl.String())
}

func TestLogHandlerForFile(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "demo.log"))
	require.NoError(t, err)
	defer f.Close()

	h := newLogHandler(f, slog.LevelWarn)
	assert.IsType(t, &slog.JSONHandler{}, h)
	assert.False(t, h.Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, h.Enabled(t.Context(), slog.LevelError))
}
