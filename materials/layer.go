package materials

import (
	"github.com/go-gl/mathgl/mgl32"

	"render-backend/core"
	"render-backend/textures"
)

// ShaderLayer is the in-memory Layer implementation.
type ShaderLayer struct {
	layerType    LayerType
	texture      *textures.Texture
	blend        core.BlendFunc
	colourExpr   [4]Expression
	vertexColour VertexColourMode
	alphaTest    Expression
	cubeMap      CubeMapMode
	scaleExpr    [2]Expression
	translExpr   [2]Expression
	rotateExpr   Expression
	vertexProg   string
	fragmentProg string

	// registers, refreshed by EvaluateExpressions
	colour      core.Color
	alphaRef    float32
	scale       mgl32.Vec2
	translation mgl32.Vec2
	rotation    float32
}

type LayerOption func(*ShaderLayer)

func WithBlend(bf core.BlendFunc) LayerOption {
	return func(l *ShaderLayer) { l.blend = bf }
}

// WithColour sets the per-channel colour expressions; nil channels read 1.
func WithColour(r, g, b, a Expression) LayerOption {
	return func(l *ShaderLayer) { l.colourExpr = [4]Expression{r, g, b, a} }
}

func WithConstantColour(c core.Color) LayerOption {
	return WithColour(Constant(c.R), Constant(c.G), Constant(c.B), Constant(c.A))
}

func WithVertexColour(mode VertexColourMode) LayerOption {
	return func(l *ShaderLayer) { l.vertexColour = mode }
}

func WithAlphaTest(expr Expression) LayerOption {
	return func(l *ShaderLayer) { l.alphaTest = expr }
}

func WithCubeMap(mode CubeMapMode) LayerOption {
	return func(l *ShaderLayer) { l.cubeMap = mode }
}

func WithScale(s, t Expression) LayerOption {
	return func(l *ShaderLayer) { l.scaleExpr = [2]Expression{s, t} }
}

func WithTranslate(s, t Expression) LayerOption {
	return func(l *ShaderLayer) { l.translExpr = [2]Expression{s, t} }
}

func WithRotate(expr Expression) LayerOption {
	return func(l *ShaderLayer) { l.rotateExpr = expr }
}

func WithPrograms(vertex, fragment string) LayerOption {
	return func(l *ShaderLayer) {
		l.vertexProg = vertex
		l.fragmentProg = fragment
	}
}

// NewShaderLayer builds a layer and evaluates its expressions once at time
// zero so the registers are valid before the first frame.
func NewShaderLayer(t LayerType, tex *textures.Texture, opts ...LayerOption) *ShaderLayer {
	l := &ShaderLayer{
		layerType: t,
		texture:   tex,
		blend:     core.BlendReplace,
	}
	if t == LayerBlend {
		l.blend = core.BlendAlpha
	}
	for _, opt := range opts {
		opt(l)
	}
	l.EvaluateExpressions(0, nil)
	return l
}

func (l *ShaderLayer) Type() LayerType                    { return l.layerType }
func (l *ShaderLayer) Texture() *textures.Texture         { return l.texture }
func (l *ShaderLayer) BlendFunc() core.BlendFunc          { return l.blend }
func (l *ShaderLayer) Colour() core.Color                 { return l.colour }
func (l *ShaderLayer) VertexColourMode() VertexColourMode { return l.vertexColour }
func (l *ShaderLayer) AlphaTest() float32                 { return l.alphaRef }
func (l *ShaderLayer) CubeMapMode() CubeMapMode           { return l.cubeMap }
func (l *ShaderLayer) Scale() mgl32.Vec2                  { return l.scale }
func (l *ShaderLayer) Translation() mgl32.Vec2            { return l.translation }
func (l *ShaderLayer) Rotation() float32                  { return l.rotation }
func (l *ShaderLayer) VertexProgram() string              { return l.vertexProg }
func (l *ShaderLayer) FragmentProgram() string            { return l.fragmentProg }

func (l *ShaderLayer) EvaluateExpressions(time uint64, entity RenderEntity) {
	l.colour = l.EvaluateColour(time, entity)
	l.alphaRef = evaluate(l.alphaTest, time, entity, 0)
	l.scale = mgl32.Vec2{
		evaluate(l.scaleExpr[0], time, entity, 1),
		evaluate(l.scaleExpr[1], time, entity, 1),
	}
	l.translation = mgl32.Vec2{
		evaluate(l.translExpr[0], time, entity, 0),
		evaluate(l.translExpr[1], time, entity, 0),
	}
	l.rotation = evaluate(l.rotateExpr, time, entity, 0)
}

func (l *ShaderLayer) EvaluateColour(time uint64, entity RenderEntity) core.Color {
	return core.Color{
		R: Clamp(evaluate(l.colourExpr[0], time, entity, 1)),
		G: Clamp(evaluate(l.colourExpr[1], time, entity, 1)),
		B: Clamp(evaluate(l.colourExpr[2], time, entity, 1)),
		A: Clamp(evaluate(l.colourExpr[3], time, entity, 1)),
	}
}
