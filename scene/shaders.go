package scene

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"render-backend/render"
)

// ShaderCache holds one capture per shader name for the lifetime of a
// scene, marking each captured shader as used.
type ShaderCache struct {
	registry *render.Registry
	shaders  map[string]*render.Shader
}

func NewShaderCache(registry *render.Registry) *ShaderCache {
	return &ShaderCache{
		registry: registry,
		shaders:  make(map[string]*render.Shader),
	}
}

// Get captures name on first use.
func (c *ShaderCache) Get(name string) *render.Shader {
	if s, ok := c.shaders[name]; ok {
		return s
	}
	s := c.registry.Capture(name)
	s.IncrementUsed()
	c.shaders[name] = s
	return s
}

func (c *ShaderCache) Len() int { return len(c.shaders) }

// Release drops every capture held by the cache.
func (c *ShaderCache) Release() {
	for name, s := range c.shaders {
		s.DecrementUsed()
		if err := c.registry.Release(name); err != nil {
			slog.Error("failed to release shader", "shader", name, "error", err)
		}
	}
	clear(c.shaders)
}

// BoxTransform maps the CreateUnitBoxWireframe mesh onto b.
func BoxTransform(b render.AABB) mgl32.Mat4 {
	t := mgl32.Translate3D(b.Origin[0], b.Origin[1], b.Origin[2])
	return t.Mul4(mgl32.Scale3D(b.Extents[0], b.Extents[1], b.Extents[2]))
}
