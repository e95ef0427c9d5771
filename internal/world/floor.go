package world

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/experience/internal/engine/mesh"
	"github.com/Faultbox/experience/internal/engine/shader"
)

// Floor is a finely tessellated ground plane under the knot. It receives
// the key light's shadow and carries the optional surface texture.
type Floor struct {
	Mesh     *mesh.Mesh
	Material *mesh.StandardMaterial
}

// NewFloor uploads a 2x2 plane with 128x128 segments and lays it flat.
func NewFloor(program *shader.Program) *Floor {
	mat := mesh.NewStandardMaterial(program, mgl32.Vec3{0.8, 0.8, 0.8})
	mat.Roughness = 0.9
	m := mesh.New("floor", mesh.Plane(2, 2, 128, 128), mat)
	placeFloor(m)
	return &Floor{Mesh: m, Material: mat}
}

// placeFloor turns the XY plane to face +Y and moves it below the knot.
func placeFloor(m *mesh.Mesh) {
	m.Rotation = mgl32.QuatRotate(-mgl32.DegToRad(90), mgl32.Vec3{1, 0, 0})
	m.Scale = mgl32.Vec3{3, 3, 1}
	m.Position = mgl32.Vec3{0, -1.3, 0}
}
