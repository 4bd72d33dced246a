// Package editor is the interactive layer of the demo viewer: picking,
// selection overlays, undoable visibility and material edits, and lighting
// mode toggles.
package editor

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"render-backend/render"
	"render-backend/scene"
)

// Editor drives one scene view.
type Editor struct {
	Scene     *scene.Scene
	Camera    *scene.OrbitCamera
	Registry  *render.Registry
	Shaders   *scene.ShaderCache
	Selection *Selection
	History   *History
	Input     *InputManager

	// Reload re-reads the material library; bound to R. May be nil.
	Reload func() error
	// ShaderCycle lists the shaders Tab steps the active node through.
	ShaderCycle []string

	StatusText string
	width      int
	height     int
}

func NewEditor(s *scene.Scene, registry *render.Registry, input InputSource, width, height int) *Editor {
	camera := scene.NewOrbitCamera(mgl32.Vec3{}, 5, mgl32.DegToRad(60), float32(width)/float32(max(height, 1)))
	s.Camera = camera

	return &Editor{
		Scene:      s,
		Camera:     camera,
		Registry:   registry,
		Shaders:    scene.NewShaderCache(registry),
		Selection:  NewSelection(),
		History:    NewHistory(100),
		Input:      NewInputManager(input),
		StatusText: "Ready",
		width:      width,
		height:     height,
	}
}

func (e *Editor) SetViewport(width, height int) {
	e.width, e.height = width, height
	e.Camera.UpdateAspectRatio(float32(width), float32(height))
}

// Update processes one frame of input.
func (e *Editor) Update() {
	e.Input.Update()
	e.handleShortcuts()
	e.handleCameraControls()
	e.handleMouseSelection()
	e.Input.EndFrame()
}

// Submit queues the scene and the selection overlays for this frame.
func (e *Editor) Submit(d scene.Drawer) scene.SubmitStats {
	stats := e.Scene.Submit(e.Shaders, d)
	e.Selection.Submit(e.Shaders, d)
	return stats
}

// Close releases every shader the editor captured.
func (e *Editor) Close() {
	e.Shaders.Release()
}

// ToggleLighting switches between editor-image and interaction rendering.
func (e *Editor) ToggleLighting() error {
	next := render.ShaderProgramInteraction
	if e.Registry.ShaderProgram() == render.ShaderProgramInteraction {
		next = render.ShaderProgramNone
	}
	if err := e.Registry.SetShaderProgram(next); err != nil {
		return fmt.Errorf("toggle lighting: %w", err)
	}
	e.StatusText = "Lighting: " + next.String()
	return nil
}

func (e *Editor) handleShortcuts() {
	in := e.Input

	switch {
	case in.IsShortcut(glfw.KeyZ):
		if cmd, ok := e.History.Undo(); ok {
			e.StatusText = "Undo " + cmd.Description()
		}
	case in.IsShortcut(glfw.KeyY):
		if cmd, ok := e.History.Redo(); ok {
			e.StatusText = "Redo " + cmd.Description()
		}
	}

	if in.IsKeyPressed(glfw.KeyL) {
		if err := e.ToggleLighting(); err != nil {
			slog.Warn("lighting unavailable", "error", err)
			e.StatusText = "Lighting unavailable"
		}
	}
	if in.IsKeyPressed(glfw.KeyF) {
		e.Scene.ShowLights = !e.Scene.ShowLights
	}
	if in.IsKeyPressed(glfw.KeyH) {
		if in.ShiftDown {
			e.unhideAll()
		} else {
			e.hideSelected()
		}
	}
	if in.IsKeyPressed(glfw.KeyDelete) || in.IsKeyPressed(glfw.KeyBackspace) {
		e.deleteSelected()
	}
	if in.IsKeyPressed(glfw.KeyR) && !in.CtrlDown && e.Reload != nil {
		if err := e.Reload(); err != nil {
			slog.Error("material reload failed", "error", err)
			e.StatusText = "Reload failed"
		} else {
			e.StatusText = "Materials reloaded"
		}
	}
	if in.IsKeyPressed(glfw.KeyEscape) {
		e.Selection.Clear()
	}

	if e.Selection.ActiveObject != nil {
		switch {
		case in.IsKeyPressed(glfw.Key1):
			e.setActiveColour(1, 1, 1)
		case in.IsKeyPressed(glfw.Key2):
			e.setActiveColour(1, 0.2, 0.2)
		case in.IsKeyPressed(glfw.Key3):
			e.setActiveColour(0.2, 1, 0.2)
		}
		if in.IsKeyPressed(glfw.KeyTab) {
			e.cycleActiveShader()
		}
	}
}

func (e *Editor) handleCameraControls() {
	in := e.Input
	if in.ScrollDelta != 0 {
		e.Camera.Zoom(-float32(in.ScrollDelta) * 0.5)
	}
	if !in.IsMouseDown(MouseMiddle) && !in.IsMouseDown(MouseRight) {
		return
	}
	dx := float32(in.MouseDeltaX) * 0.01
	dy := float32(in.MouseDeltaY) * 0.01
	if in.ShiftDown {
		speed := e.Camera.Distance * 0.2
		e.Camera.Pan(-dx*speed, dy*speed)
		return
	}
	e.Camera.Orbit(-dx, dy)
}

func (e *Editor) handleMouseSelection() {
	if !e.Input.IsMousePressed(MouseLeft) || e.width == 0 || e.height == 0 {
		return
	}
	ray := ScreenToRay(float32(e.Input.MouseX), float32(e.Input.MouseY),
		float32(e.width), float32(e.height), e.Camera)
	e.Pick(ray, e.Input.ShiftDown)
}

// Pick selects the node hit by ray. With toggle the hit node is added to or
// removed from the selection; a miss without toggle clears it.
func (e *Editor) Pick(ray Ray, toggle bool) *scene.Node {
	hit := RaycastScene(ray, e.Scene)
	switch {
	case hit.Hit && toggle:
		e.Selection.ToggleObject(hit.Node)
	case hit.Hit:
		e.Selection.SelectSingle(hit.Node)
	case !toggle:
		e.Selection.Clear()
		e.StatusText = "Selection cleared"
		return nil
	default:
		return nil
	}
	e.StatusText = fmt.Sprintf("Selected: %s (%s)", hit.Node.Name, shaderLabel(hit.Node))
	return hit.Node
}

func (e *Editor) hideSelected() {
	if !e.Selection.HasSelection() {
		return
	}
	e.History.Do(NewHideCommand(e.Selection.Objects))
	e.Selection.Clear()
	e.StatusText = "Hidden"
}

func (e *Editor) unhideAll() {
	e.Scene.Root.Traverse(func(n *scene.Node) { n.Visible = true })
	e.StatusText = "All visible"
}

func (e *Editor) deleteSelected() {
	for _, n := range e.Selection.Objects {
		e.History.Do(NewDeleteNodeCommand(n))
	}
	e.Selection.Clear()
	e.StatusText = "Deleted"
}

func (e *Editor) setActiveColour(r, g, b float32) {
	n := e.Selection.ActiveObject
	e.History.Do(NewColourCommand(n, r, g, b, n.Parms[3]))
}

func (e *Editor) cycleActiveShader() {
	if len(e.ShaderCycle) == 0 {
		return
	}
	n := e.Selection.ActiveObject
	next := e.ShaderCycle[0]
	for i, name := range e.ShaderCycle {
		if name == n.Shader {
			next = e.ShaderCycle[(i+1)%len(e.ShaderCycle)]
			break
		}
	}
	e.History.Do(NewAssignShaderCommand(n, next))
	e.StatusText = "Shader: " + next
}

func shaderLabel(n *scene.Node) string {
	if n.Shader == "" {
		return scene.DefaultShader
	}
	return n.Shader
}

// Stats counts meshes, vertices and triangles in the scene.
func (e *Editor) Stats() (objects, vertices, triangles int) {
	e.Scene.Root.Traverse(func(n *scene.Node) {
		if n.Mesh != nil {
			objects++
			vertices += len(n.Mesh.Vertices)
			if n.Mesh.Mode == scene.DrawTriangles {
				triangles += len(n.Mesh.Indices) / 3
			}
		}
	})
	return
}
