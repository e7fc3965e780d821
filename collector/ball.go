// Package collector implements the ball that rolls along the road picking up
// props small enough to stick to it.
package collector

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"infiniteroad/config"
	"infiniteroad/core"
	"infiniteroad/logger"
	"infiniteroad/road"
	"infiniteroad/scene"
)

// maxStuck bounds the props carried on the ball; older ones are shed.
const maxStuck = 48

var ballColor = core.ColorHex(0xd94f70)

// Ball grows as it absorbs props. Node is the group to add to the scene; it
// holds the sphere and every stuck prop.
type Ball struct {
	Node      *scene.Node
	Radius    float32
	Growth    float32
	MaxRadius float32
	Absorbed  int

	core    *scene.Node
	stuck   []*road.Prop
	release road.ReleaseFunc
	log     logger.Logger
	placed  bool
}

// New returns a ball sized from cfg. release, if set, frees the nodes of
// props shed from the ball.
func New(cfg config.Collector, release road.ReleaseFunc, log logger.Logger) *Ball {
	b := &Ball{
		Node:      scene.NewNode("ball"),
		Radius:    cfg.Radius,
		Growth:    cfg.Growth,
		MaxRadius: cfg.MaxRadius,
		release:   release,
		log:       log,
	}
	b.core = scene.NewMeshNode("core", scene.CreateSphere(1, 24, 16, ballColor))
	b.core.SetUniformScale(b.Radius)
	b.Node.AddChild(b.core)
	return b
}

// Follow moves the ball onto ground point pos, rolling it by the distance
// covered.
func (b *Ball) Follow(pos mgl32.Vec3) {
	target := mgl32.Vec3{pos.X(), b.Radius, pos.Z()}
	if !b.placed {
		b.placed = true
		b.Node.SetPosition(target)
		return
	}

	delta := target.Sub(b.Node.Transform.Position)
	delta[1] = 0
	if d := delta.Len(); d > 1e-6 {
		axis := mgl32.Vec3{0, 1, 0}.Cross(delta).Normalize()
		spin := mgl32.QuatRotate(d/b.Radius, axis)
		b.Node.SetRotation(spin.Mul(b.Node.Transform.Rotation).Normalize())
	}
	b.Node.SetPosition(target)
}

// Collect absorbs every prop that touches the ball and is no bigger than
// it, returning how many were picked up.
func (b *Ball) Collect(props []*road.Prop) int {
	center := b.Node.WorldPosition()
	n := 0
	for _, p := range props {
		if p.Absorbed || p.Radius > b.Radius {
			continue
		}
		pos := p.WorldPosition()
		if pos.Sub(center).Len() > b.Radius+p.Radius {
			continue
		}
		b.absorb(p, pos)
		n++
	}
	return n
}

func (b *Ball) absorb(p *road.Prop, world mgl32.Vec3) {
	p.Absorbed = true
	b.Absorbed++

	// Pin the prop on the surface where it touched, in ball-local space.
	inv := b.Node.GetWorldMatrix().Inv()
	local := inv.Mul4x1(world.Vec4(1)).Vec3()
	if local.Len() < 1e-6 {
		local = mgl32.Vec3{0, 1, 0}
	}
	p.Node.Detach()
	p.Node.SetPosition(local.Normalize().Mul(b.Radius))
	b.Node.AddChild(p.Node)
	b.stuck = append(b.stuck, p)

	b.grow(p.Radius)
	b.log.Debugf("absorbed prop from segment %d, radius now %.2f", p.Segment, b.Radius)

	if len(b.stuck) > maxStuck {
		shed := b.stuck[0]
		b.stuck = b.stuck[1:]
		shed.Node.Detach()
		if b.release != nil {
			b.release(shed.Node)
		}
	}
}

// grow adds a share of the prop's volume to the ball.
func (b *Ball) grow(r float32) {
	vol := b.Radius*b.Radius*b.Radius + b.Growth*r*r*r
	b.Radius = math32.Min(math32.Pow(vol, 1.0/3), b.MaxRadius)
	b.core.SetUniformScale(b.Radius)
	b.Node.Translate(mgl32.Vec3{0, b.Radius - b.Node.Transform.Position.Y(), 0})
}

// Stuck returns the number of props currently carried.
func (b *Ball) Stuck() int {
	return len(b.stuck)
}
