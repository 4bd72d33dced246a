package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"render-backend/materials"
)

// AABB is an axis-aligned box stored as centre and half extents.
type AABB struct {
	Origin  mgl32.Vec3
	Extents mgl32.Vec3
}

func AABBFromMinMax(min, max mgl32.Vec3) AABB {
	return AABB{
		Origin:  min.Add(max).Mul(0.5),
		Extents: max.Sub(min).Mul(0.5),
	}
}

func (a AABB) Min() mgl32.Vec3 { return a.Origin.Sub(a.Extents) }
func (a AABB) Max() mgl32.Vec3 { return a.Origin.Add(a.Extents) }

// IsValid is false for boxes with a negative extent.
func (a AABB) IsValid() bool {
	return a.Extents.X() >= 0 && a.Extents.Y() >= 0 && a.Extents.Z() >= 0
}

// Intersects reports whether a and b overlap or touch.
func (a AABB) Intersects(b AABB) bool {
	for i := 0; i < 3; i++ {
		d := a.Origin[i] - b.Origin[i]
		if d < 0 {
			d = -d
		}
		if d > a.Extents[i]+b.Extents[i] {
			return false
		}
	}
	return true
}

// RendererLight is a light as seen by interaction passes.
type RendererLight interface {
	LightEntity() materials.RenderEntity
	LightAABB() AABB
	LightOrigin() mgl32.Vec3
	// LightTextureTransformation maps world space to the light's texture
	// space.
	LightTextureTransformation() mgl32.Mat4
}

// LightSources is a set of lights relevant to one submitted object.
type LightSources interface {
	ForEachLight(fn func(RendererLight))
}

// LightList is a LightSources over a slice.
type LightList []RendererLight

func (l LightList) ForEachLight(fn func(RendererLight)) {
	for _, light := range l {
		fn(light)
	}
}

// IntersectingLights filters lights down to those whose bounds overlap
// bounds.
func IntersectingLights(bounds AABB, lights []RendererLight) LightList {
	var out LightList
	for _, light := range lights {
		if light.LightAABB().Intersects(bounds) {
			out = append(out, light)
		}
	}
	return out
}
