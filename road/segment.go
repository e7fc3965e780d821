package road

import (
	"github.com/go-gl/mathgl/mgl32"

	"infiniteroad/scene"
)

// Segment is the content the stream holds for one stretch of road.
type Segment struct {
	Index    int
	Position float64
	Node     *scene.Node
	Props    []*Prop
}

// Prop is a roadside object the collector ball can pick up.
type Prop struct {
	Node     *scene.Node
	Radius   float32
	Absorbed bool
	Segment  int // index of the segment that spawned it
}

// WorldPosition is the prop origin in world space.
func (p *Prop) WorldPosition() mgl32.Vec3 {
	return p.Node.WorldPosition()
}
