package render

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"render-backend/materials"
)

// Observer is notified when a shader's passes are built or torn down.
type Observer interface {
	OnShaderRealised()
	OnShaderUnrealised()
}

// Shader is a named, reference-counted set of render passes owned by a
// Registry. Obtain one with Registry.Capture.
type Shader struct {
	name     string
	registry *Registry

	material materials.Material
	passes   []*ShaderPass

	realised  bool
	visible   bool
	useCount  int
	observers []*Subscription
}

func newShader(name string, registry *Registry) *Shader {
	return &Shader{name: name, registry: registry, visible: true}
}

func (s *Shader) Name() string { return s.name }

// Material is nil for built-in shaders and while unrealised.
func (s *Shader) Material() materials.Material { return s.material }

// Passes returns the passes in construction order.
func (s *Shader) Passes() []*ShaderPass { return s.passes }

func (s *Shader) IsRealised() bool { return s.realised }
func (s *Shader) IsVisible() bool  { return s.visible }
func (s *Shader) UseCount() int    { return s.useCount }

// MaterialFlags returns the material's flags, or zero for built-ins.
func (s *Shader) MaterialFlags() materials.Flags {
	if s.material == nil {
		return 0
	}
	return s.material.Flags()
}

func (s *Shader) appendDefaultPass() *OpenGLState {
	return s.appendPass(s.name)
}

func (s *Shader) appendPass(name string) *OpenGLState {
	state := s.registry.newState(name)
	s.passes = append(s.passes, newShaderPass(s, state))
	return state
}

// AddRenderable queues r on every pass. Interaction passes get one
// submission per light in lights, none if lights is nil.
func (s *Shader) AddRenderable(r Renderable, transform mgl32.Mat4, lights LightSources) {
	s.AddEntityRenderable(r, transform, nil, lights)
}

// AddEntityRenderable is AddRenderable for surfaces whose stage colours
// depend on entity shader parms.
func (s *Shader) AddEntityRenderable(r Renderable, transform mgl32.Mat4, entity materials.RenderEntity, lights LightSources) {
	if !s.visible {
		return
	}
	for _, pass := range s.passes {
		if pass.state.Flags&RenderBump != 0 {
			if lights == nil {
				continue
			}
			lights.ForEachLight(func(light RendererLight) {
				pass.AddEntityRenderable(r, transform, entity, light)
			})
			continue
		}
		if entity != nil {
			pass.AddEntityRenderable(r, transform, entity, nil)
		} else {
			pass.AddRenderable(r, transform)
		}
	}
}

// SetVisible adds or removes the shader's passes from the registry.
func (s *Shader) SetVisible(visible bool) {
	if s.visible == visible {
		return
	}
	s.visible = visible
	if !s.realised {
		return
	}
	if visible {
		s.insertPasses()
	} else {
		s.removePasses()
	}
}

// IncrementUsed and DecrementUsed mark the material in use while at least
// one consumer holds the shader.
func (s *Shader) IncrementUsed() {
	s.useCount++
	if s.useCount == 1 && s.material != nil {
		s.material.SetInUse(true)
	}
}

func (s *Shader) DecrementUsed() {
	if s.useCount == 0 {
		return
	}
	s.useCount--
	if s.useCount == 0 && s.material != nil {
		s.material.SetInUse(false)
	}
}

// Realise compiles the shader's passes. Built-in names never consult the
// material provider.
func (s *Shader) Realise() {
	if s.realised {
		return
	}
	s.construct()

	if s.material != nil {
		s.material.SetVisible(s.registry.isMaterialVisible(s.name))
		if s.useCount > 0 {
			s.material.SetInUse(true)
		}
	}
	if s.visible {
		s.insertPasses()
	}
	s.realised = true

	for _, sub := range slices.Clone(s.observers) {
		sub.observer.OnShaderRealised()
	}
}

// Unrealise tears down the passes. Observers hear about it first.
func (s *Shader) Unrealise() {
	if !s.realised {
		return
	}
	for _, sub := range slices.Clone(s.observers) {
		sub.observer.OnShaderUnrealised()
	}
	if s.visible {
		s.removePasses()
	}
	s.passes = nil
	s.material = nil
	s.realised = false
}

func (s *Shader) construct() {
	if IsBuiltinName(s.name) {
		s.constructBuiltin()
		return
	}
	s.constructMaterial()
}

func (s *Shader) insertPasses() {
	for _, pass := range s.passes {
		s.registry.InsertSortedState(pass)
	}
}

func (s *Shader) removePasses() {
	for _, pass := range s.passes {
		pass.clear()
		s.registry.EraseSortedState(pass.state)
	}
}

// Subscription ties an Observer to a Shader. Close detaches it.
type Subscription struct {
	shader   *Shader
	observer Observer
}

// Attach registers o. If the shader is already realised, o is told so
// immediately.
func (s *Shader) Attach(o Observer) *Subscription {
	sub := &Subscription{shader: s, observer: o}
	s.observers = append(s.observers, sub)
	if s.realised {
		o.OnShaderRealised()
	}
	return sub
}

// Close detaches the observer, telling it the shader is unrealised if it
// currently is realised. Calling Close twice is harmless.
func (sub *Subscription) Close() {
	s := sub.shader
	if s == nil {
		return
	}
	sub.shader = nil
	if i := slices.Index(s.observers, sub); i >= 0 {
		s.observers = slices.Delete(s.observers, i, i+1)
	}
	if s.realised {
		sub.observer.OnShaderUnrealised()
	}
}
