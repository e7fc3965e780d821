package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"infiniteroad/core"
)

// DrawMode controls the primitive type used when rendering a mesh.
type DrawMode int

const (
	DrawTriangles DrawMode = iota
	DrawLines              // pairs of indices form line segments
)

// Mesh holds CPU-side vertex/index data.
// GPU upload is managed by the renderer backend.
type Mesh struct {
	Name      string
	Vertices  []core.Vertex
	Indices   []uint32
	DrawMode  DrawMode
	Wireframe bool // rasterise triangles as lines

	// Cached local-space AABB (computed by CreateMeshFromData).
	LocalAABB    AABB
	HasLocalAABB bool

	// GPUData is set by the renderer backend (e.g. *opengl.GPUMesh).
	GPUData interface{}
}

// CreateMeshFromData builds a Mesh and pre-computes its local-space AABB.
func CreateMeshFromData(name string, vertices []core.Vertex, indices []uint32) *Mesh {
	m := &Mesh{
		Name:     name,
		Vertices: vertices,
		Indices:  indices,
	}
	if len(vertices) > 0 {
		box := pointAABB(vertices[0].Position)
		for i := 1; i < len(vertices); i++ {
			box = box.Extend(vertices[i].Position)
		}
		m.LocalAABB = box
		m.HasLocalAABB = true
	}
	return m
}

// SetColor paints every vertex with c.
func (m *Mesh) SetColor(c core.Color) {
	for i := range m.Vertices {
		m.Vertices[i].Color = c
	}
}

// BoundingRadius is the radius of the sphere around the local AABB centre
// that contains the whole mesh.
func (m *Mesh) BoundingRadius() float32 {
	if !m.HasLocalAABB {
		return 0
	}
	return m.LocalAABB.Extent().Len()
}

// CreateBox generates an axis-aligned box centred on the origin.
func CreateBox(width, height, depth float32, color core.Color) *Mesh {
	x, y, z := width/2, height/2, depth/2

	type face struct {
		normal  mgl32.Vec3
		corners [4]mgl32.Vec3
	}
	faces := []face{
		{mgl32.Vec3{0, 0, 1}, [4]mgl32.Vec3{{-x, -y, z}, {x, -y, z}, {x, y, z}, {-x, y, z}}},
		{mgl32.Vec3{0, 0, -1}, [4]mgl32.Vec3{{x, -y, -z}, {-x, -y, -z}, {-x, y, -z}, {x, y, -z}}},
		{mgl32.Vec3{0, 1, 0}, [4]mgl32.Vec3{{-x, y, z}, {x, y, z}, {x, y, -z}, {-x, y, -z}}},
		{mgl32.Vec3{0, -1, 0}, [4]mgl32.Vec3{{-x, -y, -z}, {x, -y, -z}, {x, -y, z}, {-x, -y, z}}},
		{mgl32.Vec3{1, 0, 0}, [4]mgl32.Vec3{{x, -y, z}, {x, -y, -z}, {x, y, -z}, {x, y, z}}},
		{mgl32.Vec3{-1, 0, 0}, [4]mgl32.Vec3{{-x, -y, -z}, {-x, -y, z}, {-x, y, z}, {-x, y, -z}}},
	}
	uvs := [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	vertices := make([]core.Vertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range faces {
		base := uint32(len(vertices))
		for i, p := range f.corners {
			vertices = append(vertices, core.Vertex{Position: p, Normal: f.normal, UV: uvs[i], Color: color})
		}
		indices = append(indices, base, base+1, base+2, base+2, base+3, base)
	}
	return CreateMeshFromData("Box", vertices, indices)
}

// CreatePlane generates a flat XZ plane facing +Y
func CreatePlane(width, depth float32, subdivisions int, color core.Color) *Mesh {
	if subdivisions < 1 {
		subdivisions = 1
	}

	var vertices []core.Vertex
	var indices []uint32

	halfW := width / 2.0
	halfD := depth / 2.0

	for z := 0; z <= subdivisions; z++ {
		for x := 0; x <= subdivisions; x++ {
			u := float32(x) / float32(subdivisions)
			v := float32(z) / float32(subdivisions)

			vertices = append(vertices, core.Vertex{
				Position: mgl32.Vec3{-halfW + u*width, 0, -halfD + v*depth},
				Normal:   worldUp,
				UV:       mgl32.Vec2{u, v},
				Color:    color,
			})
		}
	}

	for z := 0; z < subdivisions; z++ {
		for x := 0; x < subdivisions; x++ {
			topLeft := uint32(z*(subdivisions+1) + x)
			topRight := topLeft + 1
			bottomLeft := topLeft + uint32(subdivisions+1)
			bottomRight := bottomLeft + 1

			indices = append(indices, topLeft, bottomLeft, topRight)
			indices = append(indices, topRight, bottomLeft, bottomRight)
		}
	}

	return CreateMeshFromData("Plane", vertices, indices)
}
