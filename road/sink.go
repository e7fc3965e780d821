package road

import (
	"sort"

	"infiniteroad/logger"
	"infiniteroad/scene"
)

// ReleaseFunc frees engine resources held by a node subtree.
type ReleaseFunc func(*scene.Node)

// Sink puts segments into the scene graph as the stream generates them and
// takes them out, releasing their GPU buffers, when they are evicted.
type Sink struct {
	scene    *scene.Scene
	release  ReleaseFunc
	log      logger.Logger
	resident map[int]*Segment
}

// NewSink returns a sink for s. release may be nil when nothing needs
// freeing, as in tests.
func NewSink(s *scene.Scene, release ReleaseFunc, log logger.Logger) *Sink {
	return &Sink{
		scene:    s,
		release:  release,
		log:      log,
		resident: make(map[int]*Segment),
	}
}

func (k *Sink) Add(seg *Segment) {
	k.scene.Add(seg.Node)
	k.resident[seg.Index] = seg
	k.log.Debugf("segment %d added at z=%.1f (%d props)", seg.Index, seg.Position, len(seg.Props))
}

func (k *Sink) Remove(seg *Segment) {
	k.scene.Remove(seg.Node)
	delete(k.resident, seg.Index)
	if k.release != nil {
		k.release(seg.Node)
	}
	k.log.Debugf("segment %d removed", seg.Index)
}

// Resident returns the number of segments currently in the scene.
func (k *Sink) Resident() int {
	return len(k.resident)
}

// Props returns the props that are still standing, oldest segment first.
func (k *Sink) Props() []*Prop {
	indices := make([]int, 0, len(k.resident))
	for i := range k.resident {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	var out []*Prop
	for _, i := range indices {
		for _, p := range k.resident[i].Props {
			if !p.Absorbed {
				out = append(out, p)
			}
		}
	}
	return out
}
