package render

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"render-backend/core"
	"render-backend/materials"
)

// MaxTextureUnits is the number of texture units a pass can bind.
const MaxTextureUnits = 3

// OpenGLState is the full GL state of one render pass. A pass's sort
// position is fixed once the pass has been inserted into a Registry; every
// other field may still change, for instance when stage colours are
// re-evaluated each frame.
type OpenGLState struct {
	name string
	id   uint64

	Flags  RenderStateFlags
	sort   SortPosition
	sorted bool // in a Registry's sorted set

	DepthFunc  uint32
	AlphaFunc  uint32
	AlphaRef   float32
	Blend      core.BlendFunc
	Colour     core.Color
	PolyOffset float32

	LineWidth        float32
	PointSize        float32
	LineStippleFac   int32
	LineStipplePat   uint16
	ColourInverted   bool
	CubeMapMode      materials.CubeMapMode
	TextureTransform mgl32.Mat4

	Textures [MaxTextureUnits]uint32

	// Stage0..Stage2 are the material layers the pass was built from. Their
	// expressions are evaluated once per frame before the pass is drawn.
	Stage0 materials.Layer
	Stage1 materials.Layer
	Stage2 materials.Layer

	Program GLProgram
}

// NewOpenGLState returns a state with GL's defaults for the fields a pass
// can change.
func NewOpenGLState(name string) *OpenGLState {
	return &OpenGLState{
		name:             name,
		DepthFunc:        core.GLLess,
		AlphaFunc:        core.GLAlways,
		Blend:            core.BlendAlpha,
		Colour:           core.ColorWhite,
		LineWidth:        1,
		PointSize:        1,
		LineStippleFac:   1,
		LineStipplePat:   0xAAAA,
		TextureTransform: mgl32.Ident4(),
		sort:             SortFirst,
	}
}

// Name is the shader name the state was built for.
func (s *OpenGLState) Name() string { return s.name }

// ID is the registry-assigned creation sequence number. It breaks ties
// between states with the same sort position.
func (s *OpenGLState) ID() uint64 { return s.id }

func (s *OpenGLState) SortPosition() SortPosition { return s.sort }

// setSortPosition is used while a shader is being constructed. The position
// is fixed once the state is in a Registry's sorted set.
func (s *OpenGLState) setSortPosition(pos SortPosition) {
	if s.sorted {
		slog.Warn("sort position of a registered state is fixed", "name", s.name, "sort", s.sort, "requested", pos)
		return
	}
	s.sort = pos
}

func (s *OpenGLState) SetFlag(flag RenderStateFlags)   { s.Flags |= flag }
func (s *OpenGLState) ClearFlag(flag RenderStateFlags) { s.Flags &^= flag }

func (s *OpenGLState) SetTexture(unit int, tex uint32) {
	s.Textures[unit] = tex
}

func (s *OpenGLState) textureTarget() uint32 {
	if s.Flags&RenderTextureCubeMap != 0 {
		return core.GLTextureCubeMap
	}
	return core.GLTexture2D
}

func (s *OpenGLState) effectiveFlags(globalMask RenderStateFlags) RenderStateFlags {
	return s.Flags & globalMask
}
