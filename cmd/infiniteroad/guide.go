package main

import (
	"github.com/go-gl/mathgl/mgl32"

	"infiniteroad/core"
	"infiniteroad/road"
	"infiniteroad/scene"
)

// guideLift keeps the centreline above the slab to avoid z-fighting.
const guideLift = 0.05

// guideLine draws the road centreline over the resident segments. It is
// rebuilt whenever the stream's window moves.
type guideLine struct {
	path    road.Path
	scene   *scene.Scene
	release road.ReleaseFunc
	node    *scene.Node
	span    [2]float64
}

func newGuideLine(path road.Path, s *scene.Scene, release road.ReleaseFunc) *guideLine {
	return &guideLine{path: path, scene: s, release: release}
}

// Update rebuilds the line when the resident span [near, far] has changed.
func (g *guideLine) Update(near, far float64) {
	if g.node != nil && g.span == [2]float64{near, far} {
		return
	}
	g.Clear()
	steps := int((near-far)/2) + 1
	pts := g.path.Points(float32(near), float32(far), steps)
	g.node = scene.NewMeshNode("centreline", scene.CreatePolyline(pts, core.ColorYellow))
	g.node.SetPosition(mgl32.Vec3{0, guideLift, 0})
	g.scene.Add(g.node)
	g.span = [2]float64{near, far}
}

func (g *guideLine) Clear() {
	if g.node == nil {
		return
	}
	g.scene.Remove(g.node)
	if g.release != nil {
		g.release(g.node)
	}
	g.node = nil
}
