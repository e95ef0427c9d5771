// Package model decodes glTF 2.0 models into CPU geometry.
package model

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/experience/internal/engine/mesh"
)

// ErrNoGeometry is returned for documents without triangle primitives.
var ErrNoGeometry = errors.New("model has no triangle geometry")

// Primitive is one drawable piece of a model in model space.
type Primitive struct {
	Mesh      string
	Geometry  *mesh.Geometry
	BaseColor mgl32.Vec3
	Roughness float32
	Metalness float32
}

// Model is a decoded glTF scene with node transforms baked into positions.
type Model struct {
	Path       string
	Primitives []Primitive
}

// Bounds returns the bounding box across every primitive.
func (m *Model) Bounds() (minV, maxV mgl32.Vec3) {
	for i, p := range m.Primitives {
		lo, hi := p.Geometry.Bounds()
		if i == 0 {
			minV, maxV = lo, hi
			continue
		}
		for a := 0; a < 3; a++ {
			minV[a] = min(minV[a], lo[a])
			maxV[a] = max(maxV[a], hi[a])
		}
	}
	return
}

// Decode opens a .gltf or .glb file. gltf.Open cannot be interrupted, so ctx
// is only checked before and after it.
func Decode(ctx context.Context, path string) (*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening model: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := FromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}
	m.Path = path
	return m, nil
}

// FromDocument walks the default scene (or every mesh when the document has
// no scenes) and extracts triangle primitives.
func FromDocument(doc *gltf.Document) (*Model, error) {
	m := &Model{}

	if len(doc.Scenes) == 0 {
		for i := range doc.Meshes {
			if err := m.addMesh(doc, i, mgl32.Ident4()); err != nil {
				return nil, err
			}
		}
	} else {
		sceneIdx := 0
		if doc.Scene != nil {
			sceneIdx = *doc.Scene
		}
		if sceneIdx < 0 || sceneIdx >= len(doc.Scenes) {
			return nil, fmt.Errorf("scene index %d out of range", sceneIdx)
		}
		for _, n := range doc.Scenes[sceneIdx].Nodes {
			if err := m.addNode(doc, n, mgl32.Ident4(), 0); err != nil {
				return nil, err
			}
		}
	}

	if len(m.Primitives) == 0 {
		return nil, ErrNoGeometry
	}
	return m, nil
}

const maxNodeDepth = 64

func (m *Model) addNode(doc *gltf.Document, idx int, parent mgl32.Mat4, depth int) error {
	if depth > maxNodeDepth {
		return errors.New("node hierarchy too deep")
	}
	if idx < 0 || idx >= len(doc.Nodes) {
		return fmt.Errorf("node index %d out of range", idx)
	}
	node := doc.Nodes[idx]
	world := parent.Mul4(nodeMatrix(node))

	if node.Mesh != nil {
		if err := m.addMesh(doc, *node.Mesh, world); err != nil {
			return err
		}
	}
	for _, child := range node.Children {
		if err := m.addNode(doc, child, world, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func nodeMatrix(n *gltf.Node) mgl32.Mat4 {
	if mat := n.MatrixOrDefault(); mat != gltf.DefaultMatrix {
		var out mgl32.Mat4
		for i, v := range mat {
			out[i] = float32(v)
		}
		return out
	}
	t := n.TranslationOrDefault()
	r := n.RotationOrDefault()
	s := n.ScaleOrDefault()
	q := mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}
	return mgl32.Translate3D(float32(t[0]), float32(t[1]), float32(t[2])).
		Mul4(q.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(float32(s[0]), float32(s[1]), float32(s[2])))
}

func (m *Model) addMesh(doc *gltf.Document, idx int, world mgl32.Mat4) error {
	if idx < 0 || idx >= len(doc.Meshes) {
		return fmt.Errorf("mesh index %d out of range", idx)
	}
	gm := doc.Meshes[idx]
	normalMat := world.Mat3().Inv().Transpose()

	for pi, prim := range gm.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		geom, err := readPrimitive(doc, prim, world, normalMat)
		if err != nil {
			return fmt.Errorf("mesh %q primitive %d: %w", gm.Name, pi, err)
		}
		p := Primitive{Mesh: gm.Name, Geometry: geom, BaseColor: mgl32.Vec3{1, 1, 1}, Roughness: 1, Metalness: 1}
		if prim.Material != nil && *prim.Material < len(doc.Materials) {
			if pbr := doc.Materials[*prim.Material].PBRMetallicRoughness; pbr != nil {
				c := pbr.BaseColorFactorOrDefault()
				p.BaseColor = mgl32.Vec3{float32(c[0]), float32(c[1]), float32(c[2])}
				p.Roughness = float32(pbr.RoughnessFactorOrDefault())
				p.Metalness = float32(pbr.MetallicFactorOrDefault())
			}
		}
		m.Primitives = append(m.Primitives, p)
	}
	return nil
}

func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor index %d out of range", idx)
	}
	return doc.Accessors[idx], nil
}

func readPrimitive(doc *gltf.Document, prim *gltf.Primitive, world mgl32.Mat4, normalMat mgl32.Mat3) (*mesh.Geometry, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, errors.New("missing POSITION attribute")
	}
	acr, err := accessor(doc, posIdx)
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("reading positions: %w", err)
	}

	g := &mesh.Geometry{
		Positions: make([]float32, 0, len(positions)*3),
		Normals:   make([]float32, 0, len(positions)*3),
		UVs:       make([]float32, 0, len(positions)*2),
	}
	for _, p := range positions {
		v := world.Mul4x1(mgl32.Vec4{p[0], p[1], p[2], 1})
		g.Positions = append(g.Positions, v[0], v[1], v[2])
	}

	if nIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
		acr, err := accessor(doc, nIdx)
		if err != nil {
			return nil, err
		}
		normals, err := modeler.ReadNormal(doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("reading normals: %w", err)
		}
		for _, n := range normals {
			v := normalMat.Mul3x1(mgl32.Vec3{n[0], n[1], n[2]}).Normalize()
			g.Normals = append(g.Normals, v[0], v[1], v[2])
		}
	}

	if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		acr, err := accessor(doc, uvIdx)
		if err != nil {
			return nil, err
		}
		uvs, err := modeler.ReadTextureCoord(doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("reading uvs: %w", err)
		}
		for _, uv := range uvs {
			g.UVs = append(g.UVs, uv[0], uv[1])
		}
	}

	if prim.Indices != nil {
		acr, err := accessor(doc, *prim.Indices)
		if err != nil {
			return nil, err
		}
		indices, err := modeler.ReadIndices(doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("reading indices: %w", err)
		}
		g.Indices = indices
	} else {
		g.Indices = make([]uint32, len(positions))
		for i := range g.Indices {
			g.Indices[i] = uint32(i)
		}
	}

	for _, idx := range g.Indices {
		if int(idx) >= len(positions) {
			return nil, fmt.Errorf("index %d out of range", idx)
		}
	}
	return g, nil
}
