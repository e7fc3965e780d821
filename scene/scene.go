package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"infiniteroad/core"
)

// Scene owns the node graph, the active camera and the lights.
// Add and Remove make it usable directly as a segment sink.
type Scene struct {
	Root     *Node
	Camera   *Camera
	Lights   []*Light
	Ambient  core.Color
	SkyColor core.Color
}

// Light types
const (
	LightTypeDirectional = iota
	LightTypePoint
)

// Light represents a light source
type Light struct {
	Type      int
	Position  mgl32.Vec3
	Direction mgl32.Vec3
	Color     core.Color
	Intensity float32
	Range     float32
}

func NewScene() *Scene {
	return &Scene{
		Root:     NewNode("Root"),
		Ambient:  core.Color{R: 0.5, G: 0.5, B: 0.5, A: 1.0},
		SkyColor: core.Color{R: 0.55, G: 0.45, B: 0.6, A: 1.0},
	}
}

func (s *Scene) SetCamera(camera *Camera) {
	s.Camera = camera
}

// Add attaches node under the root.
func (s *Scene) Add(node *Node) {
	s.Root.AddChild(node)
}

// Remove detaches node from the root. Nodes owned by another parent are left
// alone.
func (s *Scene) Remove(node *Node) {
	s.Root.RemoveChild(node)
}

func (s *Scene) AddLight(light *Light) {
	s.Lights = append(s.Lights, light)
}

// FirstLight returns the first light of the given type, or nil.
func (s *Scene) FirstLight(lightType int) *Light {
	for _, l := range s.Lights {
		if l.Type == lightType {
			return l
		}
	}
	return nil
}

// VisibleNodes returns the nodes with meshes that should be drawn. When cull
// is non-nil, nodes whose world AABB lies outside it are skipped. Hidden
// nodes hide their whole subtree.
func (s *Scene) VisibleNodes(cull *Frustum) []*Node {
	var visible []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if !n.Visible {
			return
		}
		if n.Mesh != nil {
			if cull == nil || ComputeAABB(n.Mesh, n.GetWorldMatrix()).IntersectsFrustum(cull) {
				visible = append(visible, n)
			}
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(s.Root)
	return visible
}

// NewRoadScene builds the empty scene used by the road demo: ambient fill,
// a directional sun and a red point light that follows the camera.
func NewRoadScene(aspect float32) *Scene {
	s := NewScene()

	camera := NewCamera(mgl32.DegToRad(60), aspect, 1.0, 1000.0)
	camera.SetPosition(mgl32.Vec3{0, 5, 0})
	camera.LookAt(mgl32.Vec3{0, 5, -10}, mgl32.Vec3{0, 1, 0})
	s.SetCamera(camera)

	s.AddLight(&Light{
		Type:      LightTypeDirectional,
		Direction: mgl32.Vec3{-50, -100, -50}.Normalize(),
		Color:     core.ColorWhite,
		Intensity: 0.8,
	})
	s.AddLight(&Light{
		Type:      LightTypePoint,
		Color:     core.ColorRed,
		Intensity: 1,
		Range:     50,
	})
	return s
}
