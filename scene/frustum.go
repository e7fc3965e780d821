package scene

import "github.com/go-gl/mathgl/mgl32"

// Plane represents a half-space: ax + by + cz + d = 0
// Normal (a, b, c) points into the "inside" of the frustum.
type Plane struct {
	Normal mgl32.Vec3
	D      float32
}

// DistanceTo returns the signed distance from a point to the plane.
// Positive means on the "inside" (same side as Normal).
func (p Plane) DistanceTo(pt mgl32.Vec3) float32 {
	return p.Normal.Dot(pt) + p.D
}

// Frustum holds the six clip planes of a view frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumFromVP extracts normalized clip planes from a view-projection matrix
// (Gribb/Hartmann). mgl32 matrices are column-major, so Row gives the rows of
// the matrix GLSL sees.
func FrustumFromVP(vp mgl32.Mat4) Frustum {
	r0, r1, r2, r3 := vp.Row(0), vp.Row(1), vp.Row(2), vp.Row(3)

	var f Frustum
	f.Planes[0] = normalizePlane(r3.Add(r0))
	f.Planes[1] = normalizePlane(r3.Sub(r0))
	f.Planes[2] = normalizePlane(r3.Add(r1))
	f.Planes[3] = normalizePlane(r3.Sub(r1))
	f.Planes[4] = normalizePlane(r3.Add(r2))
	f.Planes[5] = normalizePlane(r3.Sub(r2))
	return f
}

func normalizePlane(v mgl32.Vec4) Plane {
	n := v.Vec3()
	l := n.Len()
	if l == 0 {
		return Plane{}
	}
	return Plane{Normal: n.Mul(1 / l), D: v.W() / l}
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max mgl32.Vec3
}

// Extent returns the half size of the box on each axis.
func (box AABB) Extent() mgl32.Vec3 {
	return box.Max.Sub(box.Min).Mul(0.5)
}

// IntersectsFrustum returns false if the AABB is completely outside the frustum.
func (box AABB) IntersectsFrustum(f *Frustum) bool {
	for i := 0; i < 6; i++ {
		p := f.Planes[i]
		// positive vertex: the corner furthest along the plane normal
		pv := box.Max
		if p.Normal.X() < 0 {
			pv[0] = box.Min.X()
		}
		if p.Normal.Y() < 0 {
			pv[1] = box.Min.Y()
		}
		if p.Normal.Z() < 0 {
			pv[2] = box.Min.Z()
		}
		if p.DistanceTo(pv) < 0 {
			return false
		}
	}
	return true
}

// ComputeAABB computes the world-space AABB for a mesh transformed by worldMatrix.
func ComputeAABB(mesh *Mesh, worldMatrix mgl32.Mat4) AABB {
	if mesh.HasLocalAABB {
		return transformAABB(mesh.LocalAABB, worldMatrix)
	}
	if len(mesh.Vertices) == 0 {
		return AABB{}
	}
	out := pointAABB(mgl32.TransformCoordinate(mesh.Vertices[0].Position, worldMatrix))
	for i := 1; i < len(mesh.Vertices); i++ {
		out = out.Extend(mgl32.TransformCoordinate(mesh.Vertices[i].Position, worldMatrix))
	}
	return out
}

// transformAABB transforms the 8 corners of a local box into world space.
func transformAABB(local AABB, m mgl32.Mat4) AABB {
	mn, mx := local.Min, local.Max
	out := pointAABB(mgl32.TransformCoordinate(mn, m))
	for i := 1; i < 8; i++ {
		c := mn
		if i&1 != 0 {
			c[0] = mx.X()
		}
		if i&2 != 0 {
			c[1] = mx.Y()
		}
		if i&4 != 0 {
			c[2] = mx.Z()
		}
		out = out.Extend(mgl32.TransformCoordinate(c, m))
	}
	return out
}

func pointAABB(p mgl32.Vec3) AABB {
	return AABB{Min: p, Max: p}
}

// Extend grows the box to contain p.
func (box AABB) Extend(p mgl32.Vec3) AABB {
	for i := 0; i < 3; i++ {
		if p[i] < box.Min[i] {
			box.Min[i] = p[i]
		}
		if p[i] > box.Max[i] {
			box.Max[i] = p[i]
		}
	}
	return box
}
