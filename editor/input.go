package editor

import "github.com/go-gl/glfw/v3.3/glfw"

// InputSource is the polled device state, normally a platform.Window.
type InputSource interface {
	CursorPos() (float64, float64)
	IsMouseButtonPressed(button glfw.MouseButton) bool
	IsKeyPressed(key glfw.Key) bool
}

// scrollSource is implemented by sources that report wheel movement.
type scrollSource interface {
	SetScrollCallback(fn func(yoff float64))
}

// Mouse buttons tracked by InputManager.
const (
	MouseLeft   = glfw.MouseButtonLeft
	MouseRight  = glfw.MouseButtonRight
	MouseMiddle = glfw.MouseButtonMiddle
)

var trackedKeys = []glfw.Key{
	glfw.KeyEscape, glfw.KeyDelete, glfw.KeyBackspace,
	glfw.KeyTab, glfw.KeyF, glfw.KeyH, glfw.KeyL, glfw.KeyR, glfw.KeyY, glfw.KeyZ,
	glfw.Key1, glfw.Key2, glfw.Key3,
}

// InputManager turns polled device state into per-frame edges.
type InputManager struct {
	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64
	ScrollDelta              float64

	ShiftDown bool
	CtrlDown  bool

	source     InputSource
	lastX      float64
	lastY      float64
	firstFrame bool

	buttons     map[glfw.MouseButton]bool
	buttonsPrev map[glfw.MouseButton]bool
	keys        map[glfw.Key]bool
	keysPrev    map[glfw.Key]bool
}

func NewInputManager(source InputSource) *InputManager {
	im := &InputManager{
		source:      source,
		firstFrame:  true,
		buttons:     make(map[glfw.MouseButton]bool),
		buttonsPrev: make(map[glfw.MouseButton]bool),
		keys:        make(map[glfw.Key]bool),
		keysPrev:    make(map[glfw.Key]bool),
	}
	if s, ok := source.(scrollSource); ok {
		s.SetScrollCallback(im.AddScroll)
	}
	return im
}

// AddScroll accumulates wheel movement until EndFrame.
func (im *InputManager) AddScroll(yoff float64) { im.ScrollDelta += yoff }

// Update polls the source. Call once per frame before querying.
func (im *InputManager) Update() {
	x, y := im.source.CursorPos()
	if im.firstFrame {
		im.lastX, im.lastY = x, y
		im.firstFrame = false
	}
	im.MouseDeltaX, im.MouseDeltaY = x-im.lastX, y-im.lastY
	im.lastX, im.lastY = x, y
	im.MouseX, im.MouseY = x, y

	for _, b := range []glfw.MouseButton{MouseLeft, MouseRight, MouseMiddle} {
		im.buttonsPrev[b] = im.buttons[b]
		im.buttons[b] = im.source.IsMouseButtonPressed(b)
	}
	for _, k := range trackedKeys {
		im.keysPrev[k] = im.keys[k]
		im.keys[k] = im.source.IsKeyPressed(k)
	}

	im.ShiftDown = im.source.IsKeyPressed(glfw.KeyLeftShift) || im.source.IsKeyPressed(glfw.KeyRightShift)
	im.CtrlDown = im.source.IsKeyPressed(glfw.KeyLeftControl) || im.source.IsKeyPressed(glfw.KeyRightControl)
}

// EndFrame clears per-frame accumulators.
func (im *InputManager) EndFrame() {
	im.ScrollDelta = 0
}

func (im *InputManager) IsMouseDown(button glfw.MouseButton) bool { return im.buttons[button] }

func (im *InputManager) IsMousePressed(button glfw.MouseButton) bool {
	return im.buttons[button] && !im.buttonsPrev[button]
}

func (im *InputManager) IsKeyDown(key glfw.Key) bool { return im.keys[key] }

// IsKeyPressed is true only on the frame key went down.
func (im *InputManager) IsKeyPressed(key glfw.Key) bool {
	return im.keys[key] && !im.keysPrev[key]
}

// IsShortcut checks for Ctrl+key.
func (im *InputManager) IsShortcut(key glfw.Key) bool {
	return im.CtrlDown && im.IsKeyPressed(key)
}
