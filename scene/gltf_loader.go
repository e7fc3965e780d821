package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"infiniteroad/core"
)

// LoadGLTF opens a .glb or .gltf file and returns its default scene as a
// single node tree. Base-colour factors are baked into vertex colours;
// textures are ignored.
func LoadGLTF(path string) (*Node, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	return buildGLTF(doc, path)
}

func buildGLTF(doc *gltf.Document, name string) (*Node, error) {
	colors := make([]core.Color, len(doc.Materials))
	for i, gm := range doc.Materials {
		colors[i] = core.ColorWhite
		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			cf := pbr.BaseColorFactorOrDefault()
			colors[i] = core.Color{R: float32(cf[0]), G: float32(cf[1]), B: float32(cf[2]), A: float32(cf[3])}
		}
	}

	meshPrims := make([][]*Mesh, len(doc.Meshes))
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			color := core.ColorWhite
			if prim.Material != nil && *prim.Material < len(colors) {
				color = colors[*prim.Material]
			}
			m, err := loadGLTFPrimitive(doc, gm.Name, pi, prim, color)
			if err != nil {
				return nil, fmt.Errorf("gltf mesh %d prim %d: %w", mi, pi, err)
			}
			meshPrims[mi] = append(meshPrims[mi], m)
		}
	}

	nodes := make([]*Node, len(doc.Nodes))
	for i, gn := range doc.Nodes {
		nodeName := gn.Name
		if nodeName == "" {
			nodeName = fmt.Sprintf("node_%d", i)
		}
		n := NewNode(nodeName)

		t := gn.TranslationOrDefault()
		n.SetPosition(mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])})
		sc := gn.ScaleOrDefault()
		n.SetScale(mgl32.Vec3{float32(sc[0]), float32(sc[1]), float32(sc[2])})
		r := gn.RotationOrDefault() // [x, y, z, w]
		n.SetRotation(mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}})

		if gn.Mesh != nil && *gn.Mesh < len(meshPrims) {
			prims := meshPrims[*gn.Mesh]
			if len(prims) == 1 {
				n.Mesh = prims[0]
			} else {
				for pi, p := range prims {
					n.AddChild(NewMeshNode(fmt.Sprintf("%s_prim%d", nodeName, pi), p))
				}
			}
		}
		nodes[i] = n
	}

	hasParent := make([]bool, len(nodes))
	for i, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c < len(nodes) {
				nodes[i].AddChild(nodes[c])
				hasParent[c] = true
			}
		}
	}

	root := NewNode(name)
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		for _, idx := range doc.Scenes[*doc.Scene].Nodes {
			if idx < len(nodes) {
				root.AddChild(nodes[idx])
			}
		}
	} else {
		for i, n := range nodes {
			if !hasParent[i] {
				root.AddChild(n)
			}
		}
	}
	if len(root.Meshes()) == 0 {
		return nil, fmt.Errorf("gltf %q: no geometry", name)
	}
	return root, nil
}

// loadGLTFPrimitive converts one glTF mesh primitive into a Mesh.
func loadGLTFPrimitive(doc *gltf.Document, meshName string, primIdx int, prim *gltf.Primitive, color core.Color) (*Mesh, error) {
	name := fmt.Sprintf("%s_p%d", meshName, primIdx)

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, _ = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
	}

	verts := make([]core.Vertex, len(positions))
	for i, p := range positions {
		v := core.Vertex{
			Position: mgl32.Vec3(p),
			Normal:   worldUp,
			Color:    color,
		}
		if i < len(normals) {
			v.Normal = mgl32.Vec3(normals[i])
		}
		verts[i] = v
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	}

	return CreateMeshFromData(name, verts, indices), nil
}

// Clone deep-copies the subtree, giving every copy its own mesh data so
// each can be released independently.
func (n *Node) Clone() *Node {
	c := NewNode(n.Name)
	c.Transform = n.Transform
	c.Visible = n.Visible
	if n.Mesh != nil {
		m := *n.Mesh
		m.Vertices = append([]core.Vertex(nil), n.Mesh.Vertices...)
		m.Indices = append([]uint32(nil), n.Mesh.Indices...)
		m.GPUData = nil
		c.Mesh = &m
	}
	for _, child := range n.Children {
		c.AddChild(child.Clone())
	}
	return c
}
