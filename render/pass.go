package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"render-backend/core"
	"render-backend/materials"
)

type submission struct {
	renderable Renderable
	transform  mgl32.Mat4
	light      RendererLight
	colour     core.Color
	hasColour  bool
}

// ShaderPass is one render pass of a Shader: an OpenGLState plus the queue
// of renderables submitted to it this frame.
type ShaderPass struct {
	owner *Shader
	state *OpenGLState
	queue []submission
}

func newShaderPass(owner *Shader, state *OpenGLState) *ShaderPass {
	return &ShaderPass{owner: owner, state: state}
}

func (p *ShaderPass) State() *OpenGLState { return p.state }

// Pending is the number of submissions queued for the next frame.
func (p *ShaderPass) Pending() int { return len(p.queue) }

func (p *ShaderPass) AddRenderable(r Renderable, transform mgl32.Mat4) {
	p.queue = append(p.queue, submission{renderable: r, transform: transform})
}

// AddLitRenderable queues r to be drawn once under light.
func (p *ShaderPass) AddLitRenderable(r Renderable, transform mgl32.Mat4, light RendererLight) {
	p.queue = append(p.queue, submission{renderable: r, transform: transform, light: light})
}

// AddEntityRenderable queues r with the colour its entity's shader parms
// give the pass's first stage. light may be nil.
func (p *ShaderPass) AddEntityRenderable(r Renderable, transform mgl32.Mat4, entity materials.RenderEntity, light RendererLight) {
	s := submission{renderable: r, transform: transform, light: light}
	if p.state.Stage0 != nil && entity != nil {
		s.colour = p.state.Stage0.EvaluateColour(p.time(), entity)
		s.hasColour = true
	}
	p.queue = append(p.queue, s)
}

func (p *ShaderPass) time() uint64 {
	if p.owner == nil || p.owner.registry == nil {
		return 0
	}
	return p.owner.registry.time
}

func (p *ShaderPass) clear() {
	clear(p.queue)
	p.queue = p.queue[:0]
}

// evaluateStages refreshes the stage registers and copies the dynamic parts
// into the pass state.
func (p *ShaderPass) evaluateStages(time uint64) {
	st := p.state
	for _, layer := range [...]materials.Layer{st.Stage0, st.Stage1, st.Stage2} {
		if layer != nil {
			layer.EvaluateExpressions(time, nil)
		}
	}
	if st.Stage0 == nil {
		return
	}

	// ColourInverted applies to vertex colours; the program handles it.
	st.Colour = st.Stage0.Colour()
	if st.Flags&RenderAlphaTest != 0 {
		st.AlphaRef = st.Stage0.AlphaTest()
	}
	st.TextureTransform = layerTextureMatrix(st.Stage0)
}

// layerTextureMatrix composes scale, rotation about the texture centre and
// translation.
func layerTextureMatrix(layer materials.Layer) mgl32.Mat4 {
	scale := layer.Scale()
	translate := layer.Translation()
	m := mgl32.Translate3D(translate.X(), translate.Y(), 0)
	if rot := layer.Rotation(); rot != 0 {
		m = m.Mul4(mgl32.Translate3D(0.5, 0.5, 0)).
			Mul4(mgl32.HomogRotate3DZ(rot)).
			Mul4(mgl32.Translate3D(-0.5, -0.5, 0))
	}
	return m.Mul4(mgl32.Scale3D(scale.X(), scale.Y(), 1))
}

func (p *ShaderPass) render(b Backend, current *appliedState, globalMask RenderStateFlags, viewer mgl32.Vec3, stats *FrameStats) {
	if len(p.queue) == 0 {
		return
	}
	p.evaluateStages(p.time())

	stats.Passes++
	stats.StateChanges += current.apply(b, p.state, globalMask)

	info := RenderInfo{Flags: current.flags, Viewer: viewer, CubeMapMode: p.state.CubeMapMode}
	for _, s := range p.queue {
		colour := p.state.Colour
		if s.hasColour {
			colour = s.colour
		}
		stats.StateChanges += current.setColour(b, colour)

		b.PushTransform(s.transform)
		if current.program != nil {
			current.program.ApplyRenderParams(viewer, s.transform, s.light, p.state, colour)
		}
		s.renderable.Render(info)
		b.PopTransform()
		stats.Submissions++
	}
	p.clear()
}

// appliedState mirrors what the backend currently has set, so a pass only
// pushes the differences.
type appliedState struct {
	flags      RenderStateFlags
	depthFunc  uint32
	alphaFunc  uint32
	alphaRef   float32
	blend      core.BlendFunc
	colour     core.Color
	polyOffset float32
	lineWidth  float32
	pointSize  float32
	stippleFac int32
	stipplePat uint16
	textures   [MaxTextureUnits]uint32
	targets    [MaxTextureUnits]uint32
	texMatrix  mgl32.Mat4
	program    GLProgram
}

func newAppliedState() *appliedState {
	def := NewOpenGLState("")
	a := &appliedState{
		depthFunc:  def.DepthFunc,
		alphaFunc:  def.AlphaFunc,
		alphaRef:   def.AlphaRef,
		blend:      def.Blend,
		colour:     def.Colour,
		polyOffset: def.PolyOffset,
		lineWidth:  def.LineWidth,
		pointSize:  def.PointSize,
		stippleFac: def.LineStippleFac,
		stipplePat: def.LineStipplePat,
		texMatrix:  def.TextureTransform,
	}
	for i := range a.targets {
		a.targets[i] = core.GLTexture2D
	}
	return a
}

// apply switches the backend to next and returns the number of state
// changes issued.
func (a *appliedState) apply(b Backend, next *OpenGLState, globalMask RenderStateFlags) int {
	changes := 0
	want := next.effectiveFlags(globalMask)

	var program GLProgram
	if want&RenderProgram != 0 {
		program = next.Program
	}
	if program != a.program {
		if a.program != nil {
			a.program.Disable()
		}
		if program != nil {
			program.Enable()
		}
		a.program = program
		changes++
	}

	for _, flag := range glToggles {
		on := want&flag != 0
		if on != (a.flags&flag != 0) {
			b.SetFlag(flag, on)
			changes++
		}
	}
	a.flags = want

	if want&RenderDepthTest != 0 && a.depthFunc != next.DepthFunc {
		b.SetDepthFunc(next.DepthFunc)
		a.depthFunc = next.DepthFunc
		changes++
	}
	if want&RenderAlphaTest != 0 && (a.alphaFunc != next.AlphaFunc || a.alphaRef != next.AlphaRef) {
		b.SetAlphaFunc(next.AlphaFunc, next.AlphaRef)
		a.alphaFunc, a.alphaRef = next.AlphaFunc, next.AlphaRef
		changes++
	}
	if want&RenderBlend != 0 && a.blend != next.Blend {
		b.SetBlendFunc(next.Blend)
		a.blend = next.Blend
		changes++
	}
	if want&RenderLineStipple != 0 && (a.stippleFac != next.LineStippleFac || a.stipplePat != next.LineStipplePat) {
		b.SetLineStipple(next.LineStippleFac, next.LineStipplePat)
		a.stippleFac, a.stipplePat = next.LineStippleFac, next.LineStipplePat
		changes++
	}
	if a.polyOffset != next.PolyOffset {
		b.SetPolygonOffset(next.PolyOffset)
		a.polyOffset = next.PolyOffset
		changes++
	}
	if a.lineWidth != next.LineWidth {
		b.SetLineWidth(next.LineWidth)
		a.lineWidth = next.LineWidth
		changes++
	}
	if a.pointSize != next.PointSize {
		b.SetPointSize(next.PointSize)
		a.pointSize = next.PointSize
		changes++
	}

	if want&(RenderTexture2D|RenderTextureCubeMap|RenderProgram) != 0 {
		target := next.textureTarget()
		for unit, tex := range next.Textures {
			if a.textures[unit] != tex || a.targets[unit] != target {
				b.BindTexture(unit, target, tex)
				a.textures[unit], a.targets[unit] = tex, target
				changes++
			}
		}
		if a.texMatrix != next.TextureTransform {
			b.SetTextureMatrix(next.TextureTransform)
			a.texMatrix = next.TextureTransform
			changes++
		}
	}
	return changes
}

func (a *appliedState) setColour(b Backend, c core.Color) int {
	if a.colour == c {
		return 0
	}
	b.SetColour(c)
	a.colour = c
	return 1
}
