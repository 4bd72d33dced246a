package scene

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"render-backend/core"
	"render-backend/render"
)

// DefaultShader is used for nodes that do not name one.
const DefaultShader = "_default"

// Scene is a node graph plus the lights that illuminate it.
type Scene struct {
	Root       *Node
	Camera     *OrbitCamera
	Lights     []*PointLight
	Background core.Color

	// ShowLights outlines each light volume and marks its origin.
	ShowLights bool
}

func NewScene() *Scene {
	return &Scene{
		Root:       NewNode("Root"),
		Background: core.Color{R: 0.1, G: 0.1, B: 0.12, A: 1},
	}
}

func (s *Scene) AddNode(node *Node)    { s.Root.AddChild(node) }
func (s *Scene) RemoveNode(node *Node) { s.Root.RemoveChild(node) }

func (s *Scene) AddLight(light *PointLight) {
	s.Lights = append(s.Lights, light)
}

func (s *Scene) RemoveLight(light *PointLight) {
	for i, l := range s.Lights {
		if l == light {
			s.Lights = append(s.Lights[:i], s.Lights[i+1:]...)
			return
		}
	}
}

// VisibleNodes returns every node with a mesh whose ancestry is visible.
func (s *Scene) VisibleNodes() []*Node {
	var visible []*Node
	s.Root.Traverse(func(n *Node) {
		if n.Mesh != nil && n.IsVisible() {
			visible = append(visible, n)
		}
	})
	return visible
}

// MeshRenderable draws a mesh through a Drawer.
type MeshRenderable struct {
	Mesh   *Mesh
	Drawer Drawer
}

func (m MeshRenderable) Render(info render.RenderInfo) {
	m.Drawer.DrawMesh(m.Mesh, info)
}

// SubmitStats counts one Submit call.
type SubmitStats struct {
	Submitted int
	Culled    int
	Filtered  int // material hidden by the filter system
}

// Submit queues every visible, unculled node on its shader. Nodes whose
// material the filter system hides are skipped. Each node is lit by the
// lights whose volumes touch its world bounds.
func (s *Scene) Submit(shaders *ShaderCache, d Drawer) SubmitStats {
	var stats SubmitStats
	if s.Camera == nil {
		slog.Warn("scene has no camera, nothing submitted")
		return stats
	}
	frustum := FrustumFromVP(s.Camera.ViewProjectionMatrix())

	lights := make([]render.RendererLight, len(s.Lights))
	for i, l := range s.Lights {
		lights[i] = l
	}

	for _, n := range s.VisibleNodes() {
		world := n.WorldMatrix()
		bounds := n.Mesh.WorldBounds(world)
		if !frustum.IntersectsAABB(bounds) {
			stats.Culled++
			continue
		}
		name := n.Shader
		if name == "" {
			name = DefaultShader
		}
		shader := shaders.Get(name)
		if mat := shader.Material(); mat != nil && !mat.IsVisible() {
			stats.Filtered++
			continue
		}
		shader.AddEntityRenderable(
			MeshRenderable{Mesh: n.Mesh, Drawer: d},
			world, n, render.IntersectingLights(bounds, lights))
		stats.Submitted++
	}

	if s.ShowLights {
		s.submitLights(shaders, d)
	}
	return stats
}

var (
	lightBox    = CreateUnitBoxWireframe()
	lightOrigin = CreatePoint("LightOrigin")
)

func (s *Scene) submitLights(shaders *ShaderCache, d Drawer) {
	for _, l := range s.Lights {
		box := render.AABB{Origin: l.Origin, Extents: l.Radius}
		shaders.Get(LightShaderName(l.Colour)).AddRenderable(
			MeshRenderable{Mesh: lightBox, Drawer: d}, BoxTransform(box), nil)
		shaders.Get("$BIGPOINT").AddRenderable(
			MeshRenderable{Mesh: lightOrigin, Drawer: d},
			mgl32.Translate3D(l.Origin[0], l.Origin[1], l.Origin[2]), nil)
	}
}

// LightShaderName is the wireframe colour shader used to outline a light.
func LightShaderName(c core.Color) string {
	return core.FormatColorLiteral('<', '>', c)
}
