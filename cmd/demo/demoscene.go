package main

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"

	"render-backend/core"
	"render-backend/scene"
	"render-backend/textures"
)

// registerDemoTextures adds the procedural images the bundled material file
// refers to, unless a texture directory already supplied them.
func registerDemoTextures(tm *textures.Manager) error {
	procedural := []*textures.Texture{
		textures.NewCheckerTexture("textures/checker", 128,
			color.RGBA{R: 200, G: 200, B: 200, A: 255}, color.RGBA{R: 90, G: 90, B: 90, A: 255}),
		textures.NewCheckerTexture("textures/grate", 64,
			color.RGBA{R: 160, G: 140, B: 100, A: 255}, color.RGBA{A: 0}),
		textures.NewSolidTexture("textures/glass", 120, 180, 255, 255),
	}
	for _, tex := range procedural {
		if _, ok := tm.Get(tex.Name); ok {
			continue
		}
		if _, err := tm.Register(tex); err != nil {
			return err
		}
	}
	return nil
}

// buildScene lays out a grid, a floor and a row of primitives, each drawn
// with a different kind of shader, plus two lights. The first light is the
// sun animated by DayNight.
func buildScene() (*scene.Scene, *scene.PointLight) {
	s := scene.NewScene()

	grid := scene.NewNode("Grid")
	grid.Mesh = scene.CreateGrid(20, 20)
	grid.Shader = "$WIREFRAME"
	s.AddNode(grid)

	floor := scene.NewNode("Floor")
	floor.Mesh = scene.CreatePlane(16, 16, 4)
	floor.Shader = "textures/floor"
	floor.SetPosition(mgl32.Vec3{0, -0.01, 0})
	s.AddNode(floor)

	props := []struct {
		name   string
		mesh   *scene.Mesh
		shader string
	}{
		{"Crate", scene.CreateCube(1), "textures/crate"},
		{"Grate", scene.CreateCube(1), "textures/grate"},
		{"Glass", scene.CreateSphere(0.6, 24, 16), "textures/glass"},
		{"Tinted", scene.CreateSphere(0.6, 24, 16), "textures/tinted"},
		{"Marker", scene.CreateCube(0.5), "(0.2 0.8 0.2)"},
		{"Missing", scene.CreateCube(0.75), "textures/does_not_exist"},
	}
	for i, p := range props {
		n := scene.NewNode(p.name)
		n.Mesh = p.mesh
		n.Shader = p.shader
		n.SetPosition(mgl32.Vec3{float32(i)*1.6 - 4, 0.6, 0})
		s.AddNode(n)
	}
	if tinted := s.Root.Find("Tinted"); tinted != nil {
		tinted.SetColour(1, 0.5, 0.2, 1)
	}

	sun := scene.NewPointLight("Sun", mgl32.Vec3{0, 12, 4}, 20, core.ColorWhite)
	s.AddLight(sun)
	s.AddLight(scene.NewPointLight("Lamp", mgl32.Vec3{3, 2, 2}, 4, core.Color{R: 0.4, G: 0.6, B: 1, A: 1}))
	return s, sun
}
