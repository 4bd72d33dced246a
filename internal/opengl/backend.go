package opengl

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/mathgl/mgl32"

	"render-backend/core"
	"render-backend/render"
	"render-backend/scene"
)

// capabilities maps pass flags onto plain glEnable/glDisable capabilities.
// Flags missing here need more than a toggle; see SetFlag.
var capabilities = map[render.RenderStateFlags]uint32{
	render.RenderLineStipple:    gl.LINE_STIPPLE,
	render.RenderPolygonStipple: gl.POLYGON_STIPPLE,
	render.RenderAlphaTest:      gl.ALPHA_TEST,
	render.RenderDepthTest:      gl.DEPTH_TEST,
	render.RenderCullFace:       gl.CULL_FACE,
	render.RenderScaled:         gl.NORMALIZE,
	render.RenderLighting:       gl.LIGHTING,
	render.RenderBlend:          gl.BLEND,
	render.RenderOffsetLine:     gl.POLYGON_OFFSET_LINE,
	render.RenderTexture2D:      gl.TEXTURE_2D,
	render.RenderTextureCubeMap: gl.TEXTURE_CUBE_MAP,
}

// halftone is the 32x32 polygon stipple used by hidden-surface overlays.
var halftone = func() [128]uint8 {
	var p [128]uint8
	for row := 0; row < 32; row++ {
		v := uint8(0xAA)
		if row%2 == 1 {
			v = 0x55
		}
		for b := 0; b < 4; b++ {
			p[row*4+b] = v
		}
	}
	return p
}()

// Backend drives a GL 2.1 compatibility context. It implements
// render.Backend, scene.Drawer and textures.Uploader. All methods must be
// called on the thread that owns the context.
type Backend struct {
	version  string
	renderer string
	glsl     string
	width    int32
	height   int32
}

// minGLSL is the shading language version the built-in programs target.
var minGLSL = semver.MustParse("1.20")

// NewBackend loads the GL entry points. The window's context must be
// current.
func NewBackend() (*Backend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	b := &Backend{
		version:  gl.GoStr(gl.GetString(gl.VERSION)),
		renderer: gl.GoStr(gl.GetString(gl.RENDERER)),
		glsl:     gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
	}
	slog.Info("OpenGL initialised", "version", b.version, "renderer", b.renderer, "glsl", b.glsl)
	return b, nil
}

func (b *Backend) Version() string { return b.version }

// SupportsPrograms reports whether the context can compile the built-in
// interaction programs.
func (b *Backend) SupportsPrograms() bool {
	v, err := leadingVersion(b.glsl)
	if err != nil {
		slog.Warn("unrecognised GLSL version", "version", b.glsl, "error", err)
		return false
	}
	return !v.LessThan(minGLSL)
}

// leadingVersion parses the "major.minor" prefix of a GL version string
// such as "1.20 NVIDIA via Cg compiler".
func leadingVersion(s string) (*semver.Version, error) {
	field, _, _ := strings.Cut(strings.TrimSpace(s), " ")
	v, err := semver.NewVersion(field)
	if err != nil {
		return nil, fmt.Errorf("parse version %q: %w", s, err)
	}
	return v, nil
}

func (b *Backend) SetViewport(width, height int) {
	b.width, b.height = int32(width), int32(height)
	gl.Viewport(0, 0, b.width, b.height)
}

// BeginFrame clears the framebuffer and loads the camera matrices.
func (b *Backend) BeginFrame(clear core.Color, projection, view mgl32.Mat4) {
	gl.DepthMask(true)
	gl.ColorMask(true, true, true, true)
	gl.ClearColor(clear.R, clear.G, clear.B, clear.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.MatrixMode(gl.PROJECTION)
	gl.LoadMatrixf(&projection[0])
	gl.MatrixMode(gl.MODELVIEW)
	gl.LoadMatrixf(&view[0])

	// headlight for fixed-function lit passes
	gl.PushMatrix()
	gl.LoadIdentity()
	pos := [4]float32{0, 0, 1, 0}
	gl.Lightfv(gl.LIGHT0, gl.POSITION, &pos[0])
	gl.PopMatrix()
}

// Reset puts the context into the state render.NewOpenGLState describes,
// with every flag cleared.
func (b *Backend) Reset() {
	for _, cap := range capabilities {
		gl.Disable(cap)
	}
	gl.DepthMask(false)
	gl.ColorMask(true, true, true, true)
	gl.ShadeModel(gl.FLAT)
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	gl.Disable(gl.POLYGON_OFFSET_FILL)
	gl.PolygonOffset(-1, -1)

	gl.DepthFunc(gl.LESS)
	gl.AlphaFunc(gl.ALWAYS, 0)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Color4f(1, 1, 1, 1)
	gl.LineWidth(1)
	gl.PointSize(1)
	gl.LineStipple(1, 0xAAAA)
	gl.PolygonStipple(&halftone[0])

	gl.Enable(gl.LIGHT0)
	gl.Enable(gl.COLOR_MATERIAL)
	gl.ColorMaterial(gl.FRONT_AND_BACK, gl.AMBIENT_AND_DIFFUSE)

	for unit := 0; unit < render.MaxTextureUnits; unit++ {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
		gl.BindTexture(gl.TEXTURE_2D, 0)
		gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	}
	gl.ActiveTexture(gl.TEXTURE0)
	gl.MatrixMode(gl.TEXTURE)
	gl.LoadIdentity()
	gl.MatrixMode(gl.MODELVIEW)
	gl.UseProgram(0)
}

func (b *Backend) SetFlag(flag render.RenderStateFlags, enabled bool) {
	switch flag {
	case render.RenderDepthWrite:
		gl.DepthMask(enabled)
	case render.RenderMaskColour:
		gl.ColorMask(!enabled, !enabled, !enabled, !enabled)
	case render.RenderSmooth:
		if enabled {
			gl.ShadeModel(gl.SMOOTH)
		} else {
			gl.ShadeModel(gl.FLAT)
		}
	case render.RenderFill:
		if enabled {
			gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
		} else {
			gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		}
	default:
		cap, ok := capabilities[flag]
		if !ok {
			return
		}
		if enabled {
			gl.Enable(cap)
		} else {
			gl.Disable(cap)
		}
	}
}

func (b *Backend) SetDepthFunc(fn uint32) { gl.DepthFunc(fn) }

func (b *Backend) SetAlphaFunc(fn uint32, ref float32) { gl.AlphaFunc(fn, ref) }

func (b *Backend) SetBlendFunc(fn core.BlendFunc) { gl.BlendFunc(fn.Src, fn.Dst) }

func (b *Backend) SetColour(c core.Color) { gl.Color4f(c.R, c.G, c.B, c.A) }

func (b *Backend) SetPolygonOffset(offset float32) {
	if offset == 0 {
		gl.Disable(gl.POLYGON_OFFSET_FILL)
		gl.PolygonOffset(-1, -1)
		return
	}
	gl.Enable(gl.POLYGON_OFFSET_FILL)
	gl.PolygonOffset(-offset, -offset)
}

func (b *Backend) SetLineWidth(width float32) { gl.LineWidth(width) }

func (b *Backend) SetPointSize(size float32) { gl.PointSize(size) }

func (b *Backend) SetLineStipple(factor int32, pattern uint16) { gl.LineStipple(factor, pattern) }

func (b *Backend) BindTexture(unit int, target, id uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(target, id)
	gl.ActiveTexture(gl.TEXTURE0)
}

func (b *Backend) SetTextureMatrix(m mgl32.Mat4) {
	gl.MatrixMode(gl.TEXTURE)
	gl.LoadMatrixf(&m[0])
	gl.MatrixMode(gl.MODELVIEW)
}

func (b *Backend) PushTransform(m mgl32.Mat4) {
	gl.PushMatrix()
	gl.MultMatrixf(&m[0])
}

func (b *Backend) PopTransform() { gl.PopMatrix() }

// DrawMesh issues a mesh in immediate mode. Vertex colours are only sent
// when the pass allows them; tangent frames only to interaction passes.
func (b *Backend) DrawMesh(m *scene.Mesh, info render.RenderInfo) {
	if len(m.Vertices) == 0 {
		return
	}
	vertexColour := info.CheckFlag(render.RenderVertexColour | render.RenderPointColour)
	bump := info.CheckFlag(render.RenderBump)

	if vertexColour {
		gl.PushAttrib(gl.CURRENT_BIT)
		defer gl.PopAttrib()
	}

	emit := func(v *scene.Vertex) {
		if vertexColour {
			gl.Color4f(v.Colour.R, v.Colour.G, v.Colour.B, v.Colour.A)
		}
		if bump {
			gl.VertexAttrib3f(AttribTangent, v.Tangent[0], v.Tangent[1], v.Tangent[2])
			gl.VertexAttrib3f(AttribBitangent, v.Bitangent[0], v.Bitangent[1], v.Bitangent[2])
		}
		gl.Normal3f(v.Normal[0], v.Normal[1], v.Normal[2])
		gl.MultiTexCoord2f(gl.TEXTURE0, v.UV[0], v.UV[1])
		gl.Vertex3f(v.Position[0], v.Position[1], v.Position[2])
	}

	gl.Begin(primitive(m.Mode))
	if len(m.Indices) > 0 {
		for _, idx := range m.Indices {
			emit(&m.Vertices[idx])
		}
	} else {
		for i := range m.Vertices {
			emit(&m.Vertices[i])
		}
	}
	gl.End()
}

func primitive(mode scene.DrawMode) uint32 {
	switch mode {
	case scene.DrawLines:
		return gl.LINES
	case scene.DrawPoints:
		return gl.POINTS
	}
	return gl.TRIANGLES
}
