package mesh

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/experience/internal/engine/scene"
)

const floatsPerVertex = 8

// Mesh is uploaded geometry drawn with a material.
type Mesh struct {
	Name     string
	Material Material
	Visible  bool

	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3

	vao, vbo, ebo uint32
	indexCount    int32
}

// New uploads g to the GPU. Must run on the GL thread.
func New(name string, g *Geometry, mat Material) *Mesh {
	m := &Mesh{
		Name:       name,
		Material:   mat,
		Visible:    true,
		Rotation:   mgl32.QuatIdent(),
		Scale:      mgl32.Vec3{1, 1, 1},
		indexCount: int32(len(g.Indices)),
	}

	vertices := g.Interleaved()

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(g.Indices)*4, gl.Ptr(g.Indices), gl.STATIC_DRAW)

	stride := int32(floatsPerVertex * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(6*4)))
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	return m
}

// Model returns the model matrix: translate * rotate * scale.
func (m *Mesh) Model() mgl32.Mat4 {
	t := mgl32.Translate3D(m.Position[0], m.Position[1], m.Position[2])
	s := mgl32.Scale3D(m.Scale[0], m.Scale[1], m.Scale[2])
	return t.Mul4(m.Rotation.Mat4()).Mul4(s)
}

// Draw implements scene.Drawable.
func (m *Mesh) Draw(ctx *scene.DrawContext) {
	if !m.Visible || m.indexCount == 0 || m.Material == nil {
		return
	}
	p := m.Material.Bind(ctx)
	p.SetMat4("uModel", m.Model())
	p.SetMat4("uView", ctx.View)
	p.SetMat4("uProjection", ctx.Projection)

	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// DrawDepth implements scene.Caster.
func (m *Mesh) DrawDepth(setModel func(mgl32.Mat4)) {
	if !m.Visible || m.indexCount == 0 {
		return
	}
	setModel(m.Model())
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// Delete releases the GL buffers. The material is not deleted.
func (m *Mesh) Delete() {
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
	}
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
	}
	m.vao, m.vbo, m.ebo = 0, 0, 0
}

// Group draws several meshes in order, such as the primitives of a model.
type Group struct {
	Name   string
	Meshes []*Mesh
}

// Draw implements scene.Drawable.
func (g *Group) Draw(ctx *scene.DrawContext) {
	for _, m := range g.Meshes {
		m.Draw(ctx)
	}
}

// DrawDepth implements scene.Caster.
func (g *Group) DrawDepth(setModel func(mgl32.Mat4)) {
	for _, m := range g.Meshes {
		m.DrawDepth(setModel)
	}
}

// Delete releases every mesh.
func (g *Group) Delete() {
	for _, m := range g.Meshes {
		m.Delete()
	}
}
