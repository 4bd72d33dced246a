// Package materials defines the material contract consumed by the render
// backend, plus an in-memory provider fed from declarative definitions.
package materials

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"

	"render-backend/core"
	"render-backend/textures"
)

var ErrNoSuchMaterial = errors.New("no such material")

// LayerType tags a material layer.
type LayerType int

const (
	LayerDiffuse LayerType = iota
	LayerBump
	LayerSpecular
	LayerBlend
)

func (t LayerType) String() string {
	switch t {
	case LayerDiffuse:
		return "diffuse"
	case LayerBump:
		return "bump"
	case LayerSpecular:
		return "specular"
	case LayerBlend:
		return "blend"
	}
	return "unknown"
}

// VertexColourMode controls how vertex colours modulate a layer.
type VertexColourMode int

const (
	VertexColourNone VertexColourMode = iota
	VertexColourMultiply
	VertexColourInverseMultiply
)

// CubeMapMode selects between 2D and cube map sampling.
type CubeMapMode int

const (
	CubeMapNone CubeMapMode = iota
	CubeMapCamera
	CubeMapObject
)

type CullType int

const (
	CullBack CullType = iota
	CullFront
	CullNone
)

type Flags uint32

const (
	FlagTranslucent Flags = 1 << iota
	FlagNoShadows
	FlagNotFound
)

// Sort requests, in id Tech 4 units. Anything at or above SortDecal is drawn
// as an overlay by the backend.
const (
	SortSubview       float32 = -3
	SortGUI           float32 = -2
	SortBad           float32 = -1
	SortOpaque        float32 = 0
	SortPortalSky     float32 = 1
	SortDecal         float32 = 2
	SortFar           float32 = 3
	SortMedium        float32 = 4
	SortClose         float32 = 5
	SortAlmostNearest float32 = 6
	SortNearest       float32 = 7
	SortPostProcess   float32 = 100
)

// RenderEntity exposes the numbered shader parameters (parm0..parm11) of the
// entity a surface belongs to.
type RenderEntity interface {
	ShaderParm(n int) float32
}

// Layer is one texture stage of a material.
type Layer interface {
	Type() LayerType
	Texture() *textures.Texture
	BlendFunc() core.BlendFunc

	// EvaluateExpressions refreshes the registers read by Colour, AlphaTest,
	// Scale, Translation and Rotation. entity may be nil.
	EvaluateExpressions(time uint64, entity RenderEntity)
	// EvaluateColour computes the layer colour for one entity without
	// touching the registers.
	EvaluateColour(time uint64, entity RenderEntity) core.Color

	Colour() core.Color
	VertexColourMode() VertexColourMode
	AlphaTest() float32
	CubeMapMode() CubeMapMode
	Scale() mgl32.Vec2
	Translation() mgl32.Vec2
	Rotation() float32
	VertexProgram() string
	FragmentProgram() string
}

// Material is a named surface description made of ordered layers.
type Material interface {
	Name() string
	AllLayers() []Layer
	EditorImage() *textures.Texture
	Flags() Flags
	CullType() CullType
	SortRequest() float32
	PolygonOffset() float32

	SetInUse(inUse bool)
	IsInUse() bool
	SetVisible(visible bool)
	IsVisible() bool
}

// Provider resolves material names. MaterialForName never returns nil:
// unknown names resolve to a fallback material.
type Provider interface {
	MaterialForName(name string) Material
	DefaultInteractionTexture(t LayerType) *textures.Texture
}
