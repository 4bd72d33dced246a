package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"render-backend/core"
	"render-backend/materials"
	"render-backend/render"
)

// PointLight is an axis-aligned light volume centred on Origin. Its colour
// is exposed to interaction programs as entity parms 0..2.
type PointLight struct {
	Name   string
	Origin mgl32.Vec3
	Radius mgl32.Vec3
	Colour core.Color
}

func NewPointLight(name string, origin mgl32.Vec3, radius float32, colour core.Color) *PointLight {
	return &PointLight{
		Name:   name,
		Origin: origin,
		Radius: mgl32.Vec3{radius, radius, radius},
		Colour: colour,
	}
}

func (l *PointLight) ShaderParm(i int) float32 {
	switch i {
	case 0:
		return l.Colour.R
	case 1:
		return l.Colour.G
	case 2:
		return l.Colour.B
	case 3:
		return l.Colour.A
	}
	return 0
}

func (l *PointLight) LightEntity() materials.RenderEntity { return l }

func (l *PointLight) LightAABB() render.AABB {
	return render.AABB{Origin: l.Origin, Extents: l.Radius}
}

func (l *PointLight) LightOrigin() mgl32.Vec3 { return l.Origin }

// LightTextureTransformation maps the light volume onto the unit cube.
func (l *PointLight) LightTextureTransformation() mgl32.Mat4 {
	lo := l.Origin.Sub(l.Radius)
	s := mgl32.Scale3D(1/(2*l.Radius[0]), 1/(2*l.Radius[1]), 1/(2*l.Radius[2]))
	return s.Mul4(mgl32.Translate3D(-lo[0], -lo[1], -lo[2]))
}
