package opengl

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/mathgl/mgl32"

	"render-backend/core"
	"render-backend/render"
)

// ErrUnknownProgram is returned for program or source names that were never
// registered.
var ErrUnknownProgram = errors.New("unknown GL program")

// Generic vertex attribute slots carrying the tangent frame.
const (
	AttribTangent   = 8
	AttribBitangent = 9
)

type programKind int

const (
	programCustom programKind = iota
	programDepthFill
	programBumpMap
)

const depthFillVert = `#version 120
void main() {
	gl_TexCoord[0] = gl_MultiTexCoord0;
	gl_Position = ftransform();
}
`

const depthFillFrag = `#version 120
void main() {
	gl_FragColor = vec4(0.0);
}
`

const bumpMapVert = `#version 120
attribute vec3 attr_tangent;
attribute vec3 attr_bitangent;

uniform vec3 u_light_origin;
uniform vec3 u_view_origin;
uniform mat4 u_light_transform;
uniform int u_vcol_mode;

varying vec3 var_light_dir;
varying vec3 var_view_dir;
varying vec4 var_light_tex;
varying vec4 var_colour;

void main() {
	mat3 tbn = mat3(attr_tangent, attr_bitangent, gl_Normal);
	var_light_dir = (u_light_origin - gl_Vertex.xyz) * tbn;
	var_view_dir = (u_view_origin - gl_Vertex.xyz) * tbn;
	var_light_tex = u_light_transform * gl_Vertex;

	if (u_vcol_mode == 1) {
		var_colour = gl_Color;
	} else if (u_vcol_mode == 2) {
		var_colour = vec4(1.0) - gl_Color;
	} else {
		var_colour = vec4(1.0);
	}

	gl_TexCoord[0] = gl_MultiTexCoord0;
	gl_Position = ftransform();
}
`

const bumpMapFrag = `#version 120
uniform sampler2D u_diffusemap;
uniform sampler2D u_bumpmap;
uniform sampler2D u_specularmap;
uniform vec3 u_light_color;
uniform vec4 u_diffuse_colour;

varying vec3 var_light_dir;
varying vec3 var_view_dir;
varying vec4 var_light_tex;
varying vec4 var_colour;

void main() {
	vec2 uv = gl_TexCoord[0].st;
	vec3 N = normalize(2.0 * texture2D(u_bumpmap, uv).rgb - 1.0);
	vec3 L = normalize(var_light_dir);
	vec3 H = normalize(L + normalize(var_view_dir));

	// light texture space is the unit cube around the light volume
	vec3 t = var_light_tex.xyz / var_light_tex.w;
	float atten = clamp(1.0 - length(2.0 * t - 1.0), 0.0, 1.0);

	vec4 diffuse = texture2D(u_diffusemap, uv) * u_diffuse_colour;
	vec3 spec = texture2D(u_specularmap, uv).rgb * pow(max(dot(N, H), 0.0), 32.0);
	vec3 c = (diffuse.rgb * max(dot(N, L), 0.0) + spec) * u_light_color * atten;
	gl_FragColor = vec4(c, 1.0) * var_colour;
}
`

// Program is a linked GLSL program.
type Program struct {
	name     string
	id       uint32
	kind     programKind
	uniforms map[string]int32
}

func (p *Program) Name() string { return p.name }

func (p *Program) Enable() { gl.UseProgram(p.id) }

func (p *Program) Disable() { gl.UseProgram(0) }

func (p *Program) uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
	p.uniforms[name] = loc
	return loc
}

func (p *Program) ApplyRenderParams(viewer mgl32.Vec3, object mgl32.Mat4, light render.RendererLight, state *render.OpenGLState, colour core.Color) {
	switch p.kind {
	case programDepthFill:
		return
	case programCustom:
		c := colour
		gl.Uniform4f(p.uniform("u_colour"), c.R, c.G, c.B, c.A)
		return
	}

	if light == nil {
		return
	}
	inv := object.Inv()
	origin := inv.Mul4x1(light.LightOrigin().Vec4(1)).Vec3()
	view := inv.Mul4x1(viewer.Vec4(1)).Vec3()
	lightTex := light.LightTextureTransformation().Mul4(object)

	lightColour := mgl32.Vec3{1, 1, 1}
	if e := light.LightEntity(); e != nil {
		lightColour = mgl32.Vec3{e.ShaderParm(0), e.ShaderParm(1), e.ShaderParm(2)}
	}

	vcol := int32(0)
	if state.Flags.Has(render.RenderVertexColour) {
		vcol = 1
		if state.ColourInverted {
			vcol = 2
		}
	}
	dc := colour

	gl.Uniform3f(p.uniform("u_light_origin"), origin[0], origin[1], origin[2])
	gl.Uniform3f(p.uniform("u_view_origin"), view[0], view[1], view[2])
	gl.UniformMatrix4fv(p.uniform("u_light_transform"), 1, false, &lightTex[0])
	gl.Uniform3f(p.uniform("u_light_color"), lightColour[0], lightColour[1], lightColour[2])
	gl.Uniform4f(p.uniform("u_diffuse_colour"), dc.R, dc.G, dc.B, dc.A)
	gl.Uniform1i(p.uniform("u_vcol_mode"), vcol)
}

func (p *Program) destroy() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

type programKey struct{ vertex, fragment string }

// ProgramRegistry compiles and caches programs. It implements
// render.ProgramFactory. Built-in programs are linked on first use.
type ProgramRegistry struct {
	sources  map[string]string
	builtins map[string]*Program
	linked   map[programKey]*Program
}

func NewProgramRegistry() *ProgramRegistry {
	return &ProgramRegistry{
		sources:  make(map[string]string),
		builtins: make(map[string]*Program),
		linked:   make(map[programKey]*Program),
	}
}

// RegisterSource makes a GLSL source available to Program under name.
func (r *ProgramRegistry) RegisterSource(name, src string) {
	r.sources[name] = src
}

// LoadSources registers every .vp, .fp and .glsl file in dir under its base
// name. A missing dir is not an error.
func (r *ProgramRegistry) LoadSources(dir string) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read program dir %q: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".vp", ".fp", ".glsl":
		default:
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return fmt.Errorf("read program %q: %w", e.Name(), err)
		}
		r.RegisterSource(e.Name(), string(data))
		slog.Debug("registered GLSL source", "name", e.Name())
	}
	return nil
}

func (r *ProgramRegistry) BuiltInProgram(name string) (render.GLProgram, error) {
	if p, ok := r.builtins[name]; ok {
		return p, nil
	}

	var (
		vs, fs string
		kind   programKind
	)
	switch name {
	case "depthFill":
		vs, fs, kind = depthFillVert, depthFillFrag, programDepthFill
	case "bumpMap":
		vs, fs, kind = bumpMapVert, bumpMapFrag, programBumpMap
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProgram, name)
	}

	p, err := linkProgram(name, vs, fs, kind)
	if err != nil {
		return nil, err
	}
	r.builtins[name] = p
	return p, nil
}

func (r *ProgramRegistry) Program(vertex, fragment string) (render.GLProgram, error) {
	key := programKey{vertex, fragment}
	if p, ok := r.linked[key]; ok {
		return p, nil
	}
	vs, ok := r.sources[vertex]
	if !ok {
		return nil, fmt.Errorf("%w: vertex source %q", ErrUnknownProgram, vertex)
	}
	fs, ok := r.sources[fragment]
	if !ok {
		return nil, fmt.Errorf("%w: fragment source %q", ErrUnknownProgram, fragment)
	}

	p, err := linkProgram(vertex+"+"+fragment, vs, fs, programCustom)
	if err != nil {
		return nil, err
	}
	r.linked[key] = p
	return p, nil
}

// Destroy deletes every linked program.
func (r *ProgramRegistry) Destroy() {
	for _, p := range r.builtins {
		p.destroy()
	}
	for _, p := range r.linked {
		p.destroy()
	}
	clear(r.builtins)
	clear(r.linked)
}

func linkProgram(name, vertSrc, fragSrc string, kind programKind) (*Program, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return nil, fmt.Errorf("program %q vertex: %w", name, err)
	}
	defer gl.DeleteShader(vert)
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, fmt.Errorf("program %q fragment: %w", name, err)
	}
	defer gl.DeleteShader(frag)

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	if kind == programBumpMap {
		gl.BindAttribLocation(prog, AttribTangent, gl.Str("attr_tangent\x00"))
		gl.BindAttribLocation(prog, AttribBitangent, gl.Str("attr_bitangent\x00"))
	}
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return nil, fmt.Errorf("program %q link failed: %v", name, log)
	}

	p := &Program{name: name, id: prog, kind: kind, uniforms: make(map[string]int32)}

	// samplers follow the interaction texture units
	gl.UseProgram(prog)
	switch kind {
	case programBumpMap:
		gl.Uniform1i(p.uniform("u_diffusemap"), 0)
		gl.Uniform1i(p.uniform("u_bumpmap"), 1)
		gl.Uniform1i(p.uniform("u_specularmap"), 2)
	case programCustom:
		gl.Uniform1i(p.uniform("u_texture0"), 0)
	}
	gl.UseProgram(0)

	slog.Debug("linked GL program", "name", name)
	return p, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}
