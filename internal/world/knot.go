package world

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/experience/internal/engine/clock"
	"github.com/Faultbox/experience/internal/engine/mesh"
	"github.com/Faultbox/experience/internal/engine/shader/shaders"
)

// Knot is a torus knot drawn with a custom shader whose waves follow the
// elapsed time.
type Knot struct {
	Mesh     *mesh.Mesh
	Material *mesh.ShaderMaterial

	// Spin is the rotation about Y in radians per second.
	Spin float32
}

// NewKnot compiles the knot shader and uploads the geometry.
func NewKnot() (*Knot, error) {
	mat, err := mesh.NewShaderMaterial(shaders.KnotVertexShader, shaders.KnotFragmentShader)
	if err != nil {
		return nil, err
	}
	setKnotUniforms(mat)
	m := mesh.New("knot", mesh.TorusKnot(0.8, 0.12, 256, 24, 2, 3), mat)
	return &Knot{Mesh: m, Material: mat, Spin: 0.3}, nil
}

func setKnotUniforms(mat *mesh.ShaderMaterial) {
	mat.Uniforms["uTime"] = float32(0)
	mat.Uniforms["uAmplitude"] = float32(0.03)
	mat.Uniforms["uColorA"] = mgl32.Vec3{0.1, 0.3, 0.9}
	mat.Uniforms["uColorB"] = mgl32.Vec3{0.95, 0.5, 0.2}
}

// Update feeds elapsed time to the shader and spins the mesh.
func (k *Knot) Update(t *clock.Time) {
	elapsed := float32(t.ElapsedSeconds())
	k.Material.Uniforms["uTime"] = elapsed
	k.Mesh.Rotation = mgl32.QuatRotate(elapsed*k.Spin, mgl32.Vec3{0, 1, 0})
}

// Close releases the mesh and its program.
func (k *Knot) Close() {
	k.Mesh.Delete()
	k.Material.Program.Delete()
}
