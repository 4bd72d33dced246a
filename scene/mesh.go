package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"render-backend/core"
	"render-backend/render"
)

// DrawMode selects the primitive type a mesh is drawn with.
type DrawMode int

const (
	DrawTriangles DrawMode = iota
	DrawLines              // pairs of indices form segments
	DrawPoints
)

// Vertex is one mesh vertex. Tangent and Bitangent are filled by
// ComputeTangents and only sent to interaction passes.
type Vertex struct {
	Position  mgl32.Vec3
	Normal    mgl32.Vec3
	Tangent   mgl32.Vec3
	Bitangent mgl32.Vec3
	UV        mgl32.Vec2
	Colour    core.Color
}

// Drawer issues a mesh's draw calls for the pass currently bound.
type Drawer interface {
	DrawMesh(m *Mesh, info render.RenderInfo)
}

// Mesh holds CPU-side geometry. Bounds is the local-space box computed by
// NewMesh.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
	Mode     DrawMode
	Bounds   render.AABB
}

// NewMesh builds a triangle mesh and computes its bounds.
func NewMesh(name string, vertices []Vertex, indices []uint32) *Mesh {
	m := &Mesh{Name: name, Vertices: vertices, Indices: indices}
	m.Bounds = computeBounds(vertices)
	return m
}

func computeBounds(vertices []Vertex) render.AABB {
	if len(vertices) == 0 {
		return render.AABB{}
	}
	lo, hi := vertices[0].Position, vertices[0].Position
	for _, v := range vertices[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = min(lo[i], v.Position[i])
			hi[i] = max(hi[i], v.Position[i])
		}
	}
	return render.AABBFromMinMax(lo, hi)
}

// WorldBounds transforms the mesh bounds by m, returning the enclosing
// axis-aligned box.
func (m *Mesh) WorldBounds(world mgl32.Mat4) render.AABB {
	return TransformAABB(m.Bounds, world)
}

// TransformAABB returns the axis-aligned box enclosing b's eight corners
// after transformation by m.
func TransformAABB(b render.AABB, m mgl32.Mat4) render.AABB {
	mn, mx := b.Min(), b.Max()
	var lo, hi mgl32.Vec3
	for i := 0; i < 8; i++ {
		c := mgl32.Vec3{mn[0], mn[1], mn[2]}
		if i&1 != 0 {
			c[0] = mx[0]
		}
		if i&2 != 0 {
			c[1] = mx[1]
		}
		if i&4 != 0 {
			c[2] = mx[2]
		}
		w := mgl32.TransformCoordinate(c, m)
		if i == 0 {
			lo, hi = w, w
			continue
		}
		for k := 0; k < 3; k++ {
			lo[k] = min(lo[k], w[k])
			hi[k] = max(hi[k], w[k])
		}
	}
	return render.AABBFromMinMax(lo, hi)
}

func CreateQuad() *Mesh {
	n := mgl32.Vec3{0, 0, 1}
	vertices := []Vertex{
		{Position: mgl32.Vec3{-0.5, -0.5, 0}, Normal: n, UV: mgl32.Vec2{0, 0}, Colour: core.ColorWhite},
		{Position: mgl32.Vec3{0.5, -0.5, 0}, Normal: n, UV: mgl32.Vec2{1, 0}, Colour: core.ColorWhite},
		{Position: mgl32.Vec3{0.5, 0.5, 0}, Normal: n, UV: mgl32.Vec2{1, 1}, Colour: core.ColorWhite},
		{Position: mgl32.Vec3{-0.5, 0.5, 0}, Normal: n, UV: mgl32.Vec2{0, 1}, Colour: core.ColorWhite},
	}
	m := NewMesh("Quad", vertices, []uint32{0, 1, 2, 2, 3, 0})
	ComputeTangents(m)
	return m
}

// CreateCube builds an axis-aligned cube of edge length size centred on the
// origin, four vertices per face.
func CreateCube(size float32) *Mesh {
	s := size / 2
	faces := []struct {
		normal, u, v mgl32.Vec3
	}{
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
	}
	corners := [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	vertices := make([]Vertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range faces {
		base := uint32(len(vertices))
		for _, uv := range corners {
			p := f.normal.Add(f.u.Mul(uv[0]*2 - 1)).Add(f.v.Mul(uv[1]*2 - 1)).Mul(s)
			vertices = append(vertices, Vertex{Position: p, Normal: f.normal, UV: uv, Colour: core.ColorWhite})
		}
		indices = append(indices, base, base+1, base+2, base+2, base+3, base)
	}

	m := NewMesh("Cube", vertices, indices)
	ComputeTangents(m)
	return m
}
