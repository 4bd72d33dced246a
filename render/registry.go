package render

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"render-backend/materials"
)

type capturedShader struct {
	shader *Shader
	refs   int
}

// Registry owns every captured Shader and keeps all their visible passes in
// one list ordered by (SortPosition, state ID). Not safe for concurrent use.
type Registry struct {
	materials materials.Provider
	filters   FilterSystem
	programs  ProgramFactory
	colours   ColourScheme

	shaders map[string]*capturedShader
	order   []string

	sorted   []*ShaderPass
	inserted map[*OpenGLState]struct{}
	nextID   uint64

	program  ShaderProgram
	realised bool
	time     uint64
}

type RegistryOption func(*Registry)

func WithFilters(f FilterSystem) RegistryOption {
	return func(r *Registry) { r.filters = f }
}

// WithPrograms enables interaction rendering through f.
func WithPrograms(f ProgramFactory) RegistryOption {
	return func(r *Registry) { r.programs = f }
}

func WithColourScheme(c ColourScheme) RegistryOption {
	return func(r *Registry) { r.colours = c }
}

// NewRegistry returns a realised registry in ShaderProgramNone mode.
func NewRegistry(provider materials.Provider, opts ...RegistryOption) *Registry {
	r := &Registry{
		materials: provider,
		shaders:   make(map[string]*capturedShader),
		inserted:  make(map[*OpenGLState]struct{}),
		realised:  true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) newState(name string) *OpenGLState {
	state := NewOpenGLState(name)
	r.nextID++
	state.id = r.nextID
	return state
}

// Capture returns the shader called name, creating and realising it on
// first use. Every Capture must be paired with a Release.
func (r *Registry) Capture(name string) *Shader {
	if c, ok := r.shaders[name]; ok {
		c.refs++
		return c.shader
	}
	shader := newShader(name, r)
	r.shaders[name] = &capturedShader{shader: shader, refs: 1}
	r.order = append(r.order, name)
	if r.realised {
		shader.Realise()
	}
	return shader
}

// Release drops one reference to name. The last release unrealises and
// forgets the shader.
func (r *Registry) Release(name string) error {
	c, ok := r.shaders[name]
	if !ok {
		return fmt.Errorf("release %q: %w", name, ErrUnknownShader)
	}
	c.refs--
	if c.refs > 0 {
		return nil
	}
	c.shader.Unrealise()
	delete(r.shaders, name)
	if i := slices.Index(r.order, name); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	return nil
}

// Shader returns a captured shader without taking a reference.
func (r *Registry) Shader(name string) (*Shader, bool) {
	c, ok := r.shaders[name]
	if !ok {
		return nil, false
	}
	return c.shader, true
}

// ShaderNames lists captured shaders in capture order.
func (r *Registry) ShaderNames() []string { return slices.Clone(r.order) }

func (r *Registry) IsRealised() bool { return r.realised }

// Realise compiles every captured shader, in capture order.
func (r *Registry) Realise() {
	if r.realised {
		return
	}
	r.realised = true
	for _, name := range r.order {
		r.shaders[name].shader.Realise()
	}
}

// Unrealise tears every shader down, as before a GL context goes away.
func (r *Registry) Unrealise() {
	if !r.realised {
		return
	}
	for _, name := range r.order {
		r.shaders[name].shader.Unrealise()
	}
	r.realised = false
}

// ReloadMaterials recompiles every shader against the current state of the
// material provider.
func (r *Registry) ReloadMaterials() {
	if !r.realised {
		return
	}
	slog.Debug("recompiling shaders", "count", len(r.order))
	r.Unrealise()
	r.Realise()
}

// ShaderProgramsAvailable reports whether interaction mode can be used.
func (r *Registry) ShaderProgramsAvailable() bool { return r.programs != nil }

func (r *Registry) ShaderProgram() ShaderProgram { return r.program }

// SetShaderProgram switches lighting mode and recompiles every shader.
func (r *Registry) SetShaderProgram(p ShaderProgram) error {
	if p == r.program {
		return nil
	}
	if p == ShaderProgramInteraction && !r.ShaderProgramsAvailable() {
		return fmt.Errorf("set shader program %s: %w", p, ErrProgramsUnavailable)
	}
	wasRealised := r.realised
	r.Unrealise()
	r.program = p
	if wasRealised {
		r.Realise()
	}
	slog.Info("shader program changed", "program", p)
	return nil
}

func (r *Registry) lightingEnabled() bool {
	return r.programs != nil && r.program == ShaderProgramInteraction
}

func (r *Registry) isMaterialVisible(name string) bool {
	if r.filters == nil {
		return true
	}
	return r.filters.IsVisible("texture", name)
}

// SetTime sets the clock, in milliseconds, that material expressions are
// evaluated against.
func (r *Registry) SetTime(ms uint64) { r.time = ms }

func (r *Registry) Time() uint64 { return r.time }

func comparePasses(a, b *ShaderPass) int {
	if c := cmp.Compare(a.state.sort, b.state.sort); c != 0 {
		return c
	}
	return cmp.Compare(a.state.id, b.state.id)
}

// InsertSortedState adds pass to the ordered list. It returns false if the
// pass's state is already present.
func (r *Registry) InsertSortedState(pass *ShaderPass) bool {
	if _, ok := r.inserted[pass.state]; ok {
		return false
	}
	i, _ := slices.BinarySearchFunc(r.sorted, pass, comparePasses)
	r.sorted = slices.Insert(r.sorted, i, pass)
	r.inserted[pass.state] = struct{}{}
	pass.state.sorted = true
	return true
}

// EraseSortedState removes the pass owning state. It returns false if the
// state was not present.
func (r *Registry) EraseSortedState(state *OpenGLState) bool {
	if _, ok := r.inserted[state]; !ok {
		return false
	}
	i, found := slices.BinarySearchFunc(r.sorted, state, func(p *ShaderPass, s *OpenGLState) int {
		if c := cmp.Compare(p.state.sort, s.sort); c != 0 {
			return c
		}
		return cmp.Compare(p.state.id, s.id)
	})
	if !found || r.sorted[i].state != state {
		slog.Error("sorted state out of order", "name", state.Name(), "sort", state.sort)
		return false
	}
	r.sorted = slices.Delete(r.sorted, i, i+1)
	delete(r.inserted, state)
	state.sorted = false
	return true
}

// SortedStates returns the registered states in draw order.
func (r *Registry) SortedStates() []*OpenGLState {
	states := make([]*OpenGLState, len(r.sorted))
	for i, pass := range r.sorted {
		states[i] = pass.state
	}
	return states
}

// ForEachPass visits the registered passes in draw order.
func (r *Registry) ForEachPass(fn func(*ShaderPass)) {
	for _, pass := range r.sorted {
		fn(pass)
	}
}

// Render draws every queued submission, pass by pass in sort order, and
// empties the queues. globalMask restricts the flags any pass may enable.
func (r *Registry) Render(b Backend, globalMask RenderStateFlags, viewer mgl32.Vec3) FrameStats {
	var stats FrameStats
	b.Reset()
	current := newAppliedState()
	for _, pass := range r.sorted {
		pass.render(b, current, globalMask, viewer, &stats)
	}
	if current.program != nil {
		current.program.Disable()
	}
	return stats
}
