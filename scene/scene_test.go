package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infiniteroad/core"
)

func TestSceneAddRemove(t *testing.T) {
	s := NewScene()
	a := NewMeshNode("a", CreateBox(1, 1, 1, core.ColorRed))
	b := NewMeshNode("b", CreateBox(1, 1, 1, core.ColorBlue))

	s.Add(a)
	s.Add(b)
	require.Len(t, s.Root.Children, 2)
	assert.Same(t, s.Root, a.Parent)

	s.Remove(a)
	assert.Equal(t, []*Node{b}, s.Root.Children)
	assert.Nil(t, a.Parent)

	// Removing twice is harmless.
	s.Remove(a)
	assert.Len(t, s.Root.Children, 1)
}

func TestSceneRemoveIgnoresForeignNodes(t *testing.T) {
	s := NewScene()
	parent := NewNode("segment")
	child := NewMeshNode("prop", CreateBox(1, 1, 1, core.ColorWhite))
	parent.AddChild(child)
	s.Add(parent)

	s.Remove(child)
	assert.Same(t, parent, child.Parent)
}

func TestWorldMatrixFollowsParent(t *testing.T) {
	parent := NewNode("segment")
	child := NewNode("prop")
	parent.AddChild(child)
	child.SetPosition(mgl32.Vec3{1, 0, 0})
	parent.SetPosition(mgl32.Vec3{0, 0, -50})

	assert.True(t, child.WorldPosition().ApproxEqual(mgl32.Vec3{1, 0, -50}))

	child.Detach()
	assert.True(t, child.WorldPosition().ApproxEqual(mgl32.Vec3{1, 0, 0}))
}

func TestVisibleNodesSkipsHiddenSubtrees(t *testing.T) {
	s := NewScene()
	seg := NewNode("segment")
	seg.AddChild(NewMeshNode("slab", CreateBox(20, 1, 50, core.ColorGrey)))
	seg.Visible = false
	s.Add(seg)
	s.Add(NewMeshNode("ball", CreateSphere(1, 8, 6, core.ColorYellow)))

	nodes := s.VisibleNodes(nil)
	require.Len(t, nodes, 1)
	assert.Equal(t, "ball", nodes[0].Name)
}

func TestVisibleNodesCullsBehindCamera(t *testing.T) {
	s := NewRoadScene(16.0 / 9.0)
	ahead := NewMeshNode("ahead", CreateBox(2, 2, 2, core.ColorWhite))
	ahead.SetPosition(mgl32.Vec3{0, 5, -30})
	behind := NewMeshNode("behind", CreateBox(2, 2, 2, core.ColorWhite))
	behind.SetPosition(mgl32.Vec3{0, 5, 30})
	s.Add(ahead)
	s.Add(behind)

	f := s.Camera.Frustum()
	nodes := s.VisibleNodes(&f)
	require.Len(t, nodes, 1)
	assert.Equal(t, "ahead", nodes[0].Name)
}

func TestRoadSceneLights(t *testing.T) {
	s := NewRoadScene(1)
	require.NotNil(t, s.FirstLight(LightTypeDirectional))
	point := s.FirstLight(LightTypePoint)
	require.NotNil(t, point)
	assert.Equal(t, float32(50), point.Range)
	assert.Nil(t, NewScene().FirstLight(LightTypePoint))
}

func TestNodeFindAndMeshes(t *testing.T) {
	root := NewNode("root")
	seg := NewNode("segment")
	seg.AddChild(NewMeshNode("slab", CreateBox(1, 1, 1, core.ColorGrey)))
	seg.AddChild(NewMeshNode("stripe", CreatePlane(1, 1, 1, core.ColorWhite)))
	root.AddChild(seg)

	assert.Same(t, seg, root.Find("segment"))
	assert.Nil(t, root.Find("missing"))
	assert.Len(t, root.Meshes(), 2)
}
