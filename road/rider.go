package road

import (
	"github.com/go-gl/mathgl/mgl32"

	"infiniteroad/stream"
)

// Rider moves the viewpoint along the path and keeps the segment stream
// generating ahead of it. Call Update once per frame.
type Rider struct {
	Path     Path
	Speed    float32 // world units per second
	Distance float32 // travelled so far
	Paused   bool

	stream *stream.Stream[*Segment]
}

func NewRider(path Path, speed float32, st *stream.Stream[*Segment]) *Rider {
	return &Rider{Path: path, Speed: speed, stream: st}
}

// Update advances the rider by dt seconds and feeds the new depth to the
// stream. A factory error leaves the road as it was; the caller may retry on
// the next frame.
func (r *Rider) Update(dt float32) error {
	if !r.Paused {
		r.Distance += r.Speed * dt
	}
	return r.stream.Advance(float64(r.Position().Z()))
}

// Position is the ground point under the viewpoint.
func (r *Rider) Position() mgl32.Vec3 {
	return r.Path.PointAt(r.Distance)
}

// Eye is the camera position height units above the path.
func (r *Rider) Eye(height float32) mgl32.Vec3 {
	return r.Position().Add(mgl32.Vec3{0, height, 0})
}

// LookTarget is the point ahead units further down the path, at eye height.
func (r *Rider) LookTarget(height, ahead float32) mgl32.Vec3 {
	return r.Path.PointAt(r.Distance + ahead).Add(mgl32.Vec3{0, height, 0})
}

// Stream exposes the underlying segment stream.
func (r *Rider) Stream() *stream.Stream[*Segment] {
	return r.stream
}
