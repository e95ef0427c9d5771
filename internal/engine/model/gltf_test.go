package model

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

func triangleDoc(translation [3]float64) *gltf.Document {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	nrm := modeler.WriteNormal(doc, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})

	doc.Materials = append(doc.Materials, &gltf.Material{
		Name: "red",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{1, 0, 0, 1},
		},
	})
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: "triangle",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Material:   gltf.Index(0),
			Attributes: map[string]int{gltf.POSITION: pos, gltf.NORMAL: nrm},
		}},
	})
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: "root", Mesh: gltf.Index(0), Translation: translation})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return doc
}

func TestDecodeGLB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triangle.glb")
	if err := gltf.SaveBinary(triangleDoc([3]float64{2, 0, 0}), path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}

	m, err := Decode(context.Background(), path)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.Path != path {
		t.Errorf("Path = %q, want %q", m.Path, path)
	}
	if len(m.Primitives) != 1 {
		t.Fatalf("got %d primitives, want 1", len(m.Primitives))
	}
	p := m.Primitives[0]
	if p.Mesh != "triangle" {
		t.Errorf("Mesh = %q", p.Mesh)
	}
	if p.BaseColor != (mgl32.Vec3{1, 0, 0}) {
		t.Errorf("BaseColor = %v, want red", p.BaseColor)
	}
	if n := len(p.Geometry.Indices); n != 3 {
		t.Errorf("index count = %d, want 3", n)
	}

	minV, maxV := m.Bounds()
	if !minV.ApproxEqual(mgl32.Vec3{2, 0, 0}) || !maxV.ApproxEqual(mgl32.Vec3{3, 1, 0}) {
		t.Errorf("bounds = %v..%v, want node translation applied", minV, maxV)
	}
	if n := p.Geometry.Normals; len(n) != 9 || n[2] < 0.99 {
		t.Errorf("normals = %v", n)
	}
}

func TestDecodeNoGeometry(t *testing.T) {
	doc := gltf.NewDocument()
	path := filepath.Join(t.TempDir(), "empty.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}
	if _, err := Decode(context.Background(), path); !errors.Is(err, ErrNoGeometry) {
		t.Errorf("error = %v, want ErrNoGeometry", err)
	}
}

func TestDecodeMissingFile(t *testing.T) {
	if _, err := Decode(context.Background(), filepath.Join(t.TempDir(), "nope.gltf")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDecodeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Decode(ctx, "unused.glb"); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestFromDocumentWithoutScenes(t *testing.T) {
	doc := triangleDoc([3]float64{5, 5, 5})
	doc.Scenes = nil
	doc.Scene = nil

	m, err := FromDocument(doc)
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	minV, _ := m.Bounds()
	if !minV.ApproxEqual(mgl32.Vec3{0, 0, 0}) {
		t.Errorf("min = %v, want untransformed mesh", minV)
	}
}
