package road

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"infiniteroad/config"
	"infiniteroad/core"
	"infiniteroad/scene"
)

// ErrNonFinitePosition is returned for NaN or infinite segment anchors.
var ErrNonFinitePosition = errors.New("road: non-finite segment position")

const (
	stripeWidth  = 0.3
	stripeHeight = 0.02
	stripDivs    = 10 // quads along the segment per strip
	propClear    = 2  // gap between road edge and the nearest prop
	propSpread   = 10 // props are scattered this far beyond propClear
	vergeDrop    = 0.05
	vergeDivs    = 4
)

var vergeColor = core.ColorHex(0x3b5323)

var propPalette = []core.Color{
	core.ColorHex(0x2e7d32),
	core.ColorHex(0x558b2f),
	core.ColorHex(0xf9a825),
	core.ColorHex(0x6d4c41),
}

// Builder is the segment factory. Output for a given index depends only on
// the settings and the seed, so a replayed road looks the same.
type Builder struct {
	road     config.Road
	path     Path
	length   float32
	template *scene.Node // optional prop model
	// templateRadius is the template's bounding radius at unit scale.
	templateRadius float32
}

// NewBuilder validates the road settings. template may be nil, in which
// case props are coloured boxes.
func NewBuilder(road config.Road, path Path, segmentLength float64, template *scene.Node) (*Builder, error) {
	switch {
	case road.Width <= 0:
		return nil, fmt.Errorf("%w: road width must be > 0", config.ErrInvalid)
	case road.Lanes < 1:
		return nil, fmt.Errorf("%w: road needs at least one lane", config.ErrInvalid)
	case len(road.Colors) == 0:
		return nil, fmt.Errorf("%w: road needs at least one colour", config.ErrInvalid)
	case path.Wavelength <= 0:
		return nil, fmt.Errorf("%w: path wavelength must be > 0", config.ErrInvalid)
	case segmentLength <= 0:
		return nil, fmt.Errorf("%w: segment length must be > 0", config.ErrInvalid)
	}
	b := &Builder{road: road, path: path, length: float32(segmentLength), template: template}
	if template != nil {
		for _, m := range template.Meshes() {
			b.templateRadius = max(b.templateRadius, m.BoundingRadius())
		}
	}
	return b, nil
}

// Build creates the geometry for segment index anchored at depth position.
// Its signature matches stream.Factory.
func (b *Builder) Build(index int, position float64) (*Segment, error) {
	if math.IsNaN(position) || math.IsInf(position, 0) {
		return nil, fmt.Errorf("%w: %v", ErrNonFinitePosition, position)
	}
	z0 := float32(position)

	root := scene.NewNode(fmt.Sprintf("segment-%d", index))
	root.SetPosition(mgl32.Vec3{0, 0, z0})

	color := core.ColorHex(b.road.Colors[index%len(b.road.Colors)])
	slab := b.strip(z0, 0, b.road.Width, 0, color)
	slab.Wireframe = b.road.Wireframe
	root.AddChild(scene.NewMeshNode("slab", slab))

	// Grass either side, wide enough to cover the winding and the props.
	vergeWidth := b.road.Width + 2*(propClear+propSpread+b.path.Amplitude)
	verge := scene.NewMeshNode("verge", scene.CreatePlane(vergeWidth, b.length, vergeDivs, vergeColor))
	verge.SetPosition(mgl32.Vec3{b.path.X(z0), -vergeDrop, 0})
	root.AddChild(verge)

	if b.road.SlabThickness > 0 {
		base := scene.CreateBox(b.road.Width, b.road.SlabThickness, b.length, color.Scale(0.6))
		baseNode := scene.NewMeshNode("base", base)
		baseNode.SetPosition(mgl32.Vec3{b.path.X(z0), -b.road.SlabThickness/2 - stripeHeight, 0})
		root.AddChild(baseNode)
	}

	laneWidth := b.road.Width / float32(b.road.Lanes)
	for lane := 1; lane < b.road.Lanes; lane++ {
		offset := -b.road.Width/2 + laneWidth*float32(lane)
		stripe := b.strip(z0, offset, stripeWidth, stripeHeight, core.ColorWhite)
		root.AddChild(scene.NewMeshNode(fmt.Sprintf("stripe-%d", lane), stripe))
	}

	seg := &Segment{Index: index, Position: position, Node: root}
	rng := rand.New(rand.NewSource(b.road.Seed*1_000_003 + int64(index)))
	for i := 0; i < b.road.PropsPerSegment; i++ {
		prop := b.prop(rng, z0, i)
		prop.Segment = index
		root.AddChild(prop.Node)
		seg.Props = append(seg.Props, prop)
	}
	return seg, nil
}

// strip builds a flat ribbon in segment-local space that follows the path,
// offset sideways by offset and raised by y.
func (b *Builder) strip(z0, offset, width, y float32, color core.Color) *scene.Mesh {
	half := width / 2
	vertices := make([]core.Vertex, 0, (stripDivs+1)*2)
	for i := 0; i <= stripDivs; i++ {
		lz := b.length/2 - b.length*float32(i)/stripDivs
		cx := b.path.X(z0+lz) + offset
		for _, x := range [2]float32{cx - half, cx + half} {
			vertices = append(vertices, core.Vertex{
				Position: mgl32.Vec3{x, y, lz},
				Normal:   mgl32.Vec3{0, 1, 0},
				UV:       mgl32.Vec2{(x - cx + half) / width, float32(i) / stripDivs},
				Color:    color,
			})
		}
	}
	indices := make([]uint32, 0, stripDivs*6)
	for i := uint32(0); i < stripDivs; i++ {
		a := i * 2
		indices = append(indices, a, a+1, a+3, a+3, a+2, a)
	}
	return scene.CreateMeshFromData("strip", vertices, indices)
}

func (b *Builder) prop(rng *rand.Rand, z0 float32, i int) *Prop {
	side := float32(1)
	if i%2 == 0 {
		side = -1
	}
	lz := (rng.Float32() - 0.5) * b.length
	x := b.path.X(z0+lz) + side*(b.road.Width/2+propClear+rng.Float32()*propSpread)
	size := 0.5 + rng.Float32()*2

	color := propPalette[rng.Intn(len(propPalette))]

	radius := size / 2
	var node *scene.Node
	if b.template != nil {
		node = b.template.Clone()
		node.Name = "prop"
		node.SetUniformScale(size)
		for _, m := range node.Meshes() {
			m.SetColor(color)
		}
		if b.templateRadius > 0 {
			radius = size * b.templateRadius
		}
	} else {
		node = scene.NewMeshNode("prop", scene.CreateBox(size, size, size, color))
	}
	node.SetPosition(mgl32.Vec3{x, size / 2, lz})
	return &Prop{Node: node, Radius: radius}
}
