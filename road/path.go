// Package road builds the infinite road on top of the segment stream: the
// winding centreline, the segment geometry and the glue that keeps the scene
// graph in step with the stream.
package road

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Path is the road centreline. Travel runs toward -Z and the road winds
// sideways as x = Amplitude * sin(-z / Wavelength).
type Path struct {
	Amplitude  float32
	Wavelength float32
}

// X returns the centreline offset at depth z.
func (p Path) X(z float32) float32 {
	return p.Amplitude * math32.Sin(-z/p.Wavelength)
}

// PointAt returns the ground point after travelling distance along -Z.
func (p Path) PointAt(distance float32) mgl32.Vec3 {
	z := -distance
	return mgl32.Vec3{p.X(z), 0, z}
}

// Heading is the unit travel direction at distance.
func (p Path) Heading(distance float32) mgl32.Vec3 {
	z := -distance
	// dx/dDistance = -dx/dz
	dx := p.Amplitude / p.Wavelength * math32.Cos(-z/p.Wavelength)
	return mgl32.Vec3{dx, 0, -1}.Normalize()
}

// Points samples the centreline between two depths, inclusive.
func (p Path) Points(zFrom, zTo float32, steps int) []mgl32.Vec3 {
	if steps < 1 {
		steps = 1
	}
	pts := make([]mgl32.Vec3, steps+1)
	for i := 0; i <= steps; i++ {
		z := zFrom + (zTo-zFrom)*float32(i)/float32(steps)
		pts[i] = mgl32.Vec3{p.X(z), 0, z}
	}
	return pts
}
