package render

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"render-backend/core"
	"render-backend/materials"
	"render-backend/textures"
)

type backendCall struct {
	op  string
	arg any
}

// fakeBackend records every call the registry makes.
type fakeBackend struct {
	calls  []backendCall
	depth  int
	resets int
}

func (b *fakeBackend) record(op string, arg any) {
	b.calls = append(b.calls, backendCall{op: op, arg: arg})
}

func (b *fakeBackend) count(op string) int {
	n := 0
	for _, c := range b.calls {
		if c.op == op {
			n++
		}
	}
	return n
}

func (b *fakeBackend) Reset() { b.resets++ }
func (b *fakeBackend) SetFlag(f RenderStateFlags, on bool) {
	b.record("flag", fmt.Sprintf("%s=%v", f, on))
}
func (b *fakeBackend) SetDepthFunc(fn uint32)                  { b.record("depth", fn) }
func (b *fakeBackend) SetAlphaFunc(fn uint32, ref float32)     { b.record("alpha", ref) }
func (b *fakeBackend) SetBlendFunc(fn core.BlendFunc)          { b.record("blend", fn) }
func (b *fakeBackend) SetColour(c core.Color)                  { b.record("colour", c) }
func (b *fakeBackend) SetPolygonOffset(o float32)              { b.record("offset", o) }
func (b *fakeBackend) SetLineWidth(w float32)                  { b.record("linewidth", w) }
func (b *fakeBackend) SetPointSize(s float32)                  { b.record("pointsize", s) }
func (b *fakeBackend) SetLineStipple(f int32, p uint16)        { b.record("stipple", f) }
func (b *fakeBackend) BindTexture(unit int, target, id uint32) { b.record("texture", id) }
func (b *fakeBackend) SetTextureMatrix(m mgl32.Mat4)           { b.record("texmatrix", m) }
func (b *fakeBackend) PushTransform(m mgl32.Mat4)              { b.depth++ }
func (b *fakeBackend) PopTransform()                           { b.depth-- }

type fakeProgram struct {
	name     string
	enabled  int
	disabled int
	lights   []RendererLight
	colours  []core.Color
}

func (p *fakeProgram) Enable()  { p.enabled++ }
func (p *fakeProgram) Disable() { p.disabled++ }
func (p *fakeProgram) ApplyRenderParams(_ mgl32.Vec3, _ mgl32.Mat4, light RendererLight, _ *OpenGLState, colour core.Color) {
	p.lights = append(p.lights, light)
	p.colours = append(p.colours, colour)
}

var errNoSuchProgram = errors.New("no such program")

type fakeFactory struct {
	programs map[string]*fakeProgram
	// failCustom makes Program fail for every vertex/fragment pair.
	failCustom bool
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{programs: map[string]*fakeProgram{
		"depthFill": {name: "depthFill"},
		"bumpMap":   {name: "bumpMap"},
	}}
}

func (f *fakeFactory) BuiltInProgram(name string) (GLProgram, error) {
	if p, ok := f.programs[name]; ok {
		return p, nil
	}
	return nil, errNoSuchProgram
}

func (f *fakeFactory) Program(vertex, fragment string) (GLProgram, error) {
	if f.failCustom {
		return nil, errNoSuchProgram
	}
	key := vertex + "+" + fragment
	p, ok := f.programs[key]
	if !ok {
		p = &fakeProgram{name: key}
		f.programs[key] = p
	}
	return p, nil
}

type schemeMap map[string]core.Color

func (s schemeMap) Colour(name string) core.Color {
	if c, ok := s[name]; ok {
		return c
	}
	return core.ColorWhite
}

type hideFilter map[string]bool

func (f hideFilter) IsVisible(category, name string) bool {
	return !(category == "texture" && f[name])
}

// seqUploader hands out GL names 1, 2, 3...
type seqUploader struct{ next uint32 }

func (u *seqUploader) UploadTexture(tex *textures.Texture) error {
	u.next++
	tex.GLID = u.next
	return nil
}

func (u *seqUploader) DeleteTexture(tex *textures.Texture) { tex.GLID = 0 }

func newTestLibrary() (*materials.Library, *textures.Manager) {
	tm := textures.NewManager(&seqUploader{})
	return materials.NewLibrary(tm), tm
}

func tex(id uint32) *textures.Texture {
	return &textures.Texture{Name: fmt.Sprintf("tex%d", id), GLID: id}
}

type drawLog struct{ names []string }

func (l *drawLog) renderable(name string) Renderable {
	return RenderableFunc(func(RenderInfo) { l.names = append(l.names, name) })
}

type infoRecorder struct{ infos []RenderInfo }

func (r *infoRecorder) Render(info RenderInfo) { r.infos = append(r.infos, info) }

type testLight struct {
	origin mgl32.Vec3
	radius float32
}

func (l *testLight) LightEntity() materials.RenderEntity { return nil }
func (l *testLight) LightOrigin() mgl32.Vec3             { return l.origin }
func (l *testLight) LightAABB() AABB {
	return AABB{Origin: l.origin, Extents: mgl32.Vec3{l.radius, l.radius, l.radius}}
}
func (l *testLight) LightTextureTransformation() mgl32.Mat4 { return mgl32.Ident4() }

type testEntity [12]float32

func (e *testEntity) ShaderParm(n int) float32 { return e[n] }

type recordingObserver struct{ events []string }

func (o *recordingObserver) OnShaderRealised()   { o.events = append(o.events, "realised") }
func (o *recordingObserver) OnShaderUnrealised() { o.events = append(o.events, "unrealised") }

func passFlags(s *Shader) []RenderStateFlags {
	var out []RenderStateFlags
	for _, p := range s.Passes() {
		out = append(out, p.State().Flags)
	}
	return out
}

func passSorts(s *Shader) []SortPosition {
	var out []SortPosition
	for _, p := range s.Passes() {
		out = append(out, p.State().SortPosition())
	}
	return out
}
