package render

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"

	"render-backend/core"
	"render-backend/materials"
)

var (
	ErrProgramsUnavailable = errors.New("shader programs unavailable")
	ErrUnknownShader       = errors.New("shader not captured")
)

// Backend is the GL state machine the registry drives while rendering.
// Values are GL enums; see the constants in package core.
type Backend interface {
	// Reset puts the context into the state described by a fresh
	// NewOpenGLState with no flags set.
	Reset()

	SetFlag(flag RenderStateFlags, enabled bool)
	SetDepthFunc(fn uint32)
	SetAlphaFunc(fn uint32, ref float32)
	SetBlendFunc(fn core.BlendFunc)
	SetColour(c core.Color)
	SetPolygonOffset(offset float32)
	SetLineWidth(width float32)
	SetPointSize(size float32)
	SetLineStipple(factor int32, pattern uint16)
	BindTexture(unit int, target uint32, id uint32)
	// SetTextureMatrix loads the texture coordinate transform of unit 0.
	SetTextureMatrix(m mgl32.Mat4)

	PushTransform(m mgl32.Mat4)
	PopTransform()
}

// GLProgram is a linked GPU program used by PROGRAM passes.
type GLProgram interface {
	Enable()
	Disable()
	// ApplyRenderParams uploads per-object uniforms. light is nil for passes
	// that are not lit. colour is the submission's modulation colour, which
	// differs from state.Colour when an entity's shader parms drive it.
	ApplyRenderParams(viewer mgl32.Vec3, object mgl32.Mat4, light RendererLight, state *OpenGLState, colour core.Color)
}

// ProgramFactory creates or looks up GL programs.
type ProgramFactory interface {
	// BuiltInProgram returns one of the backend's own programs, such as
	// "depthFill" or "bumpMap".
	BuiltInProgram(name string) (GLProgram, error)
	// Program returns a program linked from the named vertex and fragment
	// sources.
	Program(vertex, fragment string) (GLProgram, error)
}

// ColourScheme resolves named editor colours.
type ColourScheme interface {
	Colour(name string) core.Color
}

// FilterSystem decides which materials are hidden by the user's filters.
type FilterSystem interface {
	IsVisible(category, name string) bool
}

// ShaderProgram selects the lighting model.
type ShaderProgram int

const (
	// ShaderProgramNone renders every material through its editor image.
	ShaderProgramNone ShaderProgram = iota
	// ShaderProgramInteraction renders per-light interaction passes.
	ShaderProgramInteraction
)

func (p ShaderProgram) String() string {
	if p == ShaderProgramInteraction {
		return "interaction"
	}
	return "none"
}

// RenderInfo is passed to renderables while they draw.
type RenderInfo struct {
	Flags       RenderStateFlags
	Viewer      mgl32.Vec3
	CubeMapMode materials.CubeMapMode
}

// CheckFlag reports whether flag is enabled for the current pass.
func (i RenderInfo) CheckFlag(flag RenderStateFlags) bool {
	return i.Flags&flag != 0
}

// Renderable is anything that issues draw calls inside a pass.
type Renderable interface {
	Render(info RenderInfo)
}

// RenderableFunc adapts a function to Renderable.
type RenderableFunc func(info RenderInfo)

func (f RenderableFunc) Render(info RenderInfo) { f(info) }

// FrameStats summarises one Registry.Render call.
type FrameStats struct {
	Passes       int
	Submissions  int
	StateChanges int
}
