package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"render-backend/core"
)

// lineBuilder accumulates DrawLines geometry.
type lineBuilder struct {
	vertices []Vertex
	indices  []uint32
}

func (lb *lineBuilder) add(a, b mgl32.Vec3, c core.Color) {
	base := uint32(len(lb.vertices))
	up := mgl32.Vec3{0, 1, 0}
	lb.vertices = append(lb.vertices,
		Vertex{Position: a, Normal: up, Colour: c},
		Vertex{Position: b, Normal: up, Colour: c},
	)
	lb.indices = append(lb.indices, base, base+1)
}

func (lb *lineBuilder) mesh(name string) *Mesh {
	m := NewMesh(name, lb.vertices, lb.indices)
	m.Mode = DrawLines
	return m
}

// CreateGrid builds a flat XZ line grid spanning -size/2..size/2. The X
// axis line is red, the Z axis line blue and the rest grey; the colours
// only show under passes that allow vertex colours.
func CreateGrid(size float32, divisions int) *Mesh {
	divisions = max(divisions, 1)
	half := size / 2
	step := size / float32(divisions)

	grey := core.Color{R: 0.35, G: 0.35, B: 0.35, A: 1}
	red := core.Color{R: 0.8, G: 0.15, B: 0.15, A: 1}
	blue := core.Color{R: 0.15, G: 0.35, B: 0.9, A: 1}

	var lb lineBuilder
	for i := 0; i <= divisions; i++ {
		x := -half + float32(i)*step
		c := grey
		if i == divisions/2 {
			c = blue
		}
		lb.add(mgl32.Vec3{x, 0, -half}, mgl32.Vec3{x, 0, half}, c)
	}
	for i := 0; i <= divisions; i++ {
		z := -half + float32(i)*step
		c := grey
		if i == divisions/2 {
			c = red
		}
		lb.add(mgl32.Vec3{-half, 0, z}, mgl32.Vec3{half, 0, z}, c)
	}
	return lb.mesh("Grid")
}

// CreateUnitBoxWireframe creates the twelve edges of the cube with corners
// at ±1. Scale and translate it to outline any box.
func CreateUnitBoxWireframe() *Mesh {
	var lb lineBuilder
	corner := func(i int) mgl32.Vec3 {
		c := mgl32.Vec3{-1, -1, -1}
		for k := 0; k < 3; k++ {
			if i&(1<<k) != 0 {
				c[k] = 1
			}
		}
		return c
	}
	// edges connect corners differing in exactly one bit
	for i := 0; i < 8; i++ {
		for k := 0; k < 3; k++ {
			j := i | 1<<k
			if j != i {
				lb.add(corner(i), corner(j), core.ColorWhite)
			}
		}
	}
	return lb.mesh("UnitBoxWireframe")
}

// CreatePoint is a single point at the origin.
func CreatePoint(name string) *Mesh {
	m := NewMesh(name, []Vertex{{Colour: core.ColorWhite, Normal: mgl32.Vec3{0, 1, 0}}}, nil)
	m.Mode = DrawPoints
	return m
}
