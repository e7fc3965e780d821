package scene

import (
	stdmath "math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"infiniteroad/core"
)

// CreateSphere generates a UV-sphere mesh
func CreateSphere(radius float32, segments, rings int, color core.Color) *Mesh {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	var vertices []core.Vertex
	var indices []uint32

	for ring := 0; ring <= rings; ring++ {
		phi := float32(ring) * stdmath.Pi / float32(rings)
		sinPhi, cosPhi := math32.Sincos(phi)

		for seg := 0; seg <= segments; seg++ {
			theta := float32(seg) * 2 * stdmath.Pi / float32(segments)
			sinTheta, cosTheta := math32.Sincos(theta)

			normal := mgl32.Vec3{sinPhi * cosTheta, cosPhi, sinPhi * sinTheta}
			vertices = append(vertices, core.Vertex{
				Position: normal.Mul(radius),
				Normal:   normal,
				UV:       mgl32.Vec2{float32(seg) / float32(segments), float32(ring) / float32(rings)},
				Color:    color,
			})
		}
	}

	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := uint32(ring*(segments+1) + seg)
			next := current + uint32(segments+1)

			indices = append(indices, current, next, current+1)
			indices = append(indices, current+1, next, next+1)
		}
	}

	return CreateMeshFromData("Sphere", vertices, indices)
}

// CreatePolyline builds a line-strip mesh through points, drawn with
// DrawLines. Used to visualise the camera path.
func CreatePolyline(points []mgl32.Vec3, color core.Color) *Mesh {
	vertices := make([]core.Vertex, len(points))
	for i, p := range points {
		vertices[i] = core.Vertex{Position: p, Normal: worldUp, Color: color}
	}
	var indices []uint32
	for i := 1; i < len(points); i++ {
		indices = append(indices, uint32(i-1), uint32(i))
	}
	m := CreateMeshFromData("Polyline", vertices, indices)
	m.DrawMode = DrawLines
	return m
}
