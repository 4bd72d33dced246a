package scene

import (
	"slices"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxShaderParms is the number of numbered entity parameters a node carries.
const MaxShaderParms = 12

var nodeIDCounter atomic.Uint32

// Node is an object in the scene graph. A node with a Mesh is drawn with
// the shader named by Shader.
type Node struct {
	Name     string
	ID       uint32
	Parent   *Node
	Children []*Node
	Mesh     *Mesh
	Shader   string
	Visible  bool
	Selected bool

	// Parms are the entity shader parameters read by material expressions.
	Parms [MaxShaderParms]float32

	position mgl32.Vec3
	rotation mgl32.Quat
	scale    mgl32.Vec3

	worldMatrixDirty bool
	worldMatrix      mgl32.Mat4
}

func NewNode(name string) *Node {
	n := &Node{
		Name:             name,
		ID:               nodeIDCounter.Add(1),
		Visible:          true,
		rotation:         mgl32.QuatIdent(),
		scale:            mgl32.Vec3{1, 1, 1},
		worldMatrixDirty: true,
	}
	// parm0..3 are the entity colour and alpha
	for i := 0; i < 4; i++ {
		n.Parms[i] = 1
	}
	return n
}

// ShaderParm implements materials.RenderEntity.
func (n *Node) ShaderParm(i int) float32 {
	if i < 0 || i >= MaxShaderParms {
		return 0
	}
	return n.Parms[i]
}

func (n *Node) AddChild(child *Node) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = n
	n.Children = append(n.Children, child)
	child.MarkWorldMatrixDirty()
}

func (n *Node) RemoveChild(child *Node) {
	if i := slices.Index(n.Children, child); i >= 0 {
		n.Children = slices.Delete(n.Children, i, i+1)
		child.Parent = nil
		child.MarkWorldMatrixDirty()
	}
}

func (n *Node) LocalMatrix() mgl32.Mat4 {
	t := mgl32.Translate3D(n.position[0], n.position[1], n.position[2])
	s := mgl32.Scale3D(n.scale[0], n.scale[1], n.scale[2])
	return t.Mul4(n.rotation.Mat4()).Mul4(s)
}

func (n *Node) WorldMatrix() mgl32.Mat4 {
	if n.worldMatrixDirty {
		local := n.LocalMatrix()
		if n.Parent != nil {
			n.worldMatrix = n.Parent.WorldMatrix().Mul4(local)
		} else {
			n.worldMatrix = local
		}
		n.worldMatrixDirty = false
	}
	return n.worldMatrix
}

func (n *Node) MarkWorldMatrixDirty() {
	n.worldMatrixDirty = true
	for _, child := range n.Children {
		child.MarkWorldMatrixDirty()
	}
}

func (n *Node) Position() mgl32.Vec3 { return n.position }
func (n *Node) Rotation() mgl32.Quat { return n.rotation }
func (n *Node) Scale() mgl32.Vec3    { return n.scale }

func (n *Node) SetPosition(pos mgl32.Vec3) {
	n.position = pos
	n.MarkWorldMatrixDirty()
}

func (n *Node) SetRotation(rot mgl32.Quat) {
	n.rotation = rot
	n.MarkWorldMatrixDirty()
}

func (n *Node) SetScale(scale mgl32.Vec3) {
	n.scale = scale
	n.MarkWorldMatrixDirty()
}

func (n *Node) Translate(delta mgl32.Vec3) {
	n.SetPosition(n.position.Add(delta))
}

// Rotate applies angle radians about axis after the current rotation.
func (n *Node) Rotate(axis mgl32.Vec3, angle float32) {
	n.SetRotation(n.rotation.Mul(mgl32.QuatRotate(angle, axis.Normalize())).Normalize())
}

// SetColour sets the entity colour parameters parm0..parm3.
func (n *Node) SetColour(r, g, b, a float32) {
	n.Parms[0], n.Parms[1], n.Parms[2], n.Parms[3] = r, g, b, a
}

// Traverse visits n and its descendants depth first.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, child := range n.Children {
		child.Traverse(fn)
	}
}

// Find returns the first node named name, or nil.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// IsVisible is false if n or any ancestor is hidden.
func (n *Node) IsVisible() bool {
	for p := n; p != nil; p = p.Parent {
		if !p.Visible {
			return false
		}
	}
	return true
}
