package editor

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"render-backend/scene"
)

// Shaders used to draw the selection on top of the normal passes.
const (
	SelectionHighlightShader = "$CAM_HIGHLIGHT"
	SelectionOverlayShader   = "$CAM_OVERLAY"
)

// Selection tracks the selected nodes. The last selected node is active.
type Selection struct {
	Objects      []*scene.Node
	ActiveObject *scene.Node
}

func NewSelection() *Selection {
	return &Selection{}
}

func (s *Selection) Clear() {
	for _, n := range s.Objects {
		n.Selected = false
	}
	s.Objects = s.Objects[:0]
	s.ActiveObject = nil
}

// SelectSingle replaces the selection with node.
func (s *Selection) SelectSingle(node *scene.Node) {
	s.Clear()
	s.add(node)
}

// ToggleObject adds node, or removes it if already selected.
func (s *Selection) ToggleObject(node *scene.Node) {
	i := slices.Index(s.Objects, node)
	if i < 0 {
		s.add(node)
		return
	}
	s.Objects = slices.Delete(s.Objects, i, i+1)
	node.Selected = false
	if s.ActiveObject == node {
		s.ActiveObject = nil
		if len(s.Objects) > 0 {
			s.ActiveObject = s.Objects[len(s.Objects)-1]
		}
	}
}

func (s *Selection) add(node *scene.Node) {
	node.Selected = true
	s.Objects = append(s.Objects, node)
	s.ActiveObject = node
}

func (s *Selection) IsSelected(node *scene.Node) bool {
	return slices.Contains(s.Objects, node)
}

func (s *Selection) HasSelection() bool { return len(s.Objects) > 0 }

// Center is the mean world position of the selected nodes.
func (s *Selection) Center() mgl32.Vec3 {
	var center mgl32.Vec3
	if len(s.Objects) == 0 {
		return center
	}
	for _, n := range s.Objects {
		center = center.Add(n.WorldMatrix().Col(3).Vec3())
	}
	return center.Mul(1 / float32(len(s.Objects)))
}

// Submit queues every visible selected mesh on the highlight and overlay
// shaders. The overlay's hidden companion shows edges behind other
// geometry.
func (s *Selection) Submit(shaders *scene.ShaderCache, d scene.Drawer) int {
	submitted := 0
	for _, n := range s.Objects {
		if n.Mesh == nil || !n.IsVisible() {
			continue
		}
		r := scene.MeshRenderable{Mesh: n.Mesh, Drawer: d}
		world := n.WorldMatrix()
		shaders.Get(SelectionHighlightShader).AddRenderable(r, world, nil)
		shaders.Get(SelectionOverlayShader).AddRenderable(r, world, nil)
		submitted++
	}
	return submitted
}
