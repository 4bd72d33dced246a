package editor

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"render-backend/render"
	"render-backend/scene"
)

type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// HitResult is the closest intersection found by RaycastScene.
type HitResult struct {
	Hit      bool
	Distance float32
	Point    mgl32.Vec3
	Normal   mgl32.Vec3
	Node     *scene.Node
	FaceIdx  int
}

// ScreenToRay converts a cursor position in pixels to a world-space ray.
func ScreenToRay(mouseX, mouseY, screenWidth, screenHeight float32, camera *scene.OrbitCamera) Ray {
	ndcX := 2*mouseX/screenWidth - 1
	ndcY := 1 - 2*mouseY/screenHeight
	origin, dir := camera.Ray(ndcX, ndcY)
	return Ray{Origin: origin, Direction: dir}
}

// RaycastScene returns the closest triangle hit among the visible meshes.
func RaycastScene(ray Ray, s *scene.Scene) HitResult {
	closest := HitResult{Distance: math32.MaxFloat32}

	for _, node := range s.VisibleNodes() {
		if node.Mesh.Mode != scene.DrawTriangles {
			continue
		}
		bounds := node.Mesh.WorldBounds(node.WorldMatrix())
		t, hit := rayAABBIntersect(ray, bounds)
		if !hit || t > closest.Distance {
			continue
		}
		if result := rayMeshIntersect(ray, node); result.Hit && result.Distance < closest.Distance {
			closest = result
		}
	}
	return closest
}

// rayAABBIntersect is the slab test; t is the entry distance.
func rayAABBIntersect(ray Ray, box render.AABB) (float32, bool) {
	lo, hi := box.Min(), box.Max()
	tmin, tmax := float32(-math32.MaxFloat32), float32(math32.MaxFloat32)
	for i := 0; i < 3; i++ {
		inv := 1 / ray.Direction[i]
		t1 := (lo[i] - ray.Origin[i]) * inv
		t2 := (hi[i] - ray.Origin[i]) * inv
		tmin = max(tmin, min(t1, t2))
		tmax = min(tmax, max(t1, t2))
	}
	if tmax < 0 || tmin > tmax {
		return 0, false
	}
	return tmin, true
}

func rayMeshIntersect(ray Ray, node *scene.Node) HitResult {
	mesh := node.Mesh
	world := node.WorldMatrix()
	closest := HitResult{Distance: math32.MaxFloat32}

	triangle := func(face int, i0, i1, i2 uint32) {
		v0 := mgl32.TransformCoordinate(mesh.Vertices[i0].Position, world)
		v1 := mgl32.TransformCoordinate(mesh.Vertices[i1].Position, world)
		v2 := mgl32.TransformCoordinate(mesh.Vertices[i2].Position, world)

		t, hit := mollerTrumbore(ray, v0, v1, v2)
		if hit && t < closest.Distance {
			closest = HitResult{
				Hit:      true,
				Distance: t,
				Point:    ray.Origin.Add(ray.Direction.Mul(t)),
				Normal:   v1.Sub(v0).Cross(v2.Sub(v0)).Normalize(),
				Node:     node,
				FaceIdx:  face,
			}
		}
	}

	if len(mesh.Indices) > 0 {
		for i := 0; i+2 < len(mesh.Indices); i += 3 {
			triangle(i/3, mesh.Indices[i], mesh.Indices[i+1], mesh.Indices[i+2])
		}
	} else {
		for i := 0; i+2 < len(mesh.Vertices); i += 3 {
			triangle(i/3, uint32(i), uint32(i+1), uint32(i+2))
		}
	}
	return closest
}

// mollerTrumbore intersects ray with triangle v0 v1 v2 from either side.
func mollerTrumbore(ray Ray, v0, v1, v2 mgl32.Vec3) (float32, bool) {
	const epsilon = 1e-7

	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)
	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -epsilon && a < epsilon {
		return 0, false
	}

	f := 1 / a
	s := ray.Origin.Sub(v0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := f * edge2.Dot(q)
	return t, t > epsilon
}
