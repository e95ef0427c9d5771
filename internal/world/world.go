// Package world builds the demo scene: a cube, an animated torus knot, a
// floor, the key light and the environment map, plus any models listed as
// sources.
package world

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/experience/internal/engine/clock"
	"github.com/Faultbox/experience/internal/engine/mesh"
	"github.com/Faultbox/experience/internal/engine/model"
	"github.com/Faultbox/experience/internal/engine/resources"
	"github.com/Faultbox/experience/internal/engine/scene"
	"github.com/Faultbox/experience/internal/engine/shader"
	"github.com/Faultbox/experience/internal/engine/texture"
)

// GPU creates GPU objects from decoded assets.
type GPU interface {
	UploadHDR(img *texture.HDRImage) *texture.Texture
	UploadTexture(img *texture.Image) *texture.Texture
	BuildModel(m *model.Model) scene.Drawable
}

// Options configures a World.
type Options struct {
	Scene     *scene.Scene
	Resources *resources.Loader
	GPU       GPU
	Logger    *zap.Logger

	// Environment names the source holding the HDR environment map. Empty
	// picks the first hdrEnvironment source.
	Environment string
	// SurfaceTexture names the texture source mapped onto the floor. Empty
	// picks the first texture source.
	SurfaceTexture string
}

// World owns the scene content.
type World struct {
	scene *scene.Scene
	log   *zap.Logger

	Cube        *Cube
	Knot        *Knot
	Floor       *Floor
	Environment *Environment
	Surface     *SurfaceMap
	Models      *Models

	program *shader.Program
}

// New compiles the materials, adds the cube, knot and floor to the scene and
// watches resources for the environment map, the floor texture and models. Must run on the GL
// thread.
func New(opts Options) (*World, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	w := &World{scene: opts.Scene, log: opts.Logger}

	program, err := mesh.NewStandardProgram()
	if err != nil {
		return nil, err
	}
	w.program = program
	if opts.GPU == nil {
		opts.GPU = GLBuilder{Program: program}
	}

	w.Cube = NewCube(program)
	opts.Scene.Add(w.Cube.Mesh)

	w.Knot, err = NewKnot()
	if err != nil {
		program.Delete()
		return nil, fmt.Errorf("knot: %w", err)
	}
	opts.Scene.Add(w.Knot.Mesh)

	w.Floor = NewFloor(program)
	opts.Scene.Add(w.Floor.Mesh)

	w.Environment = NewEnvironment(opts.Scene, opts.Resources, opts.GPU, opts.Environment, opts.Logger)
	w.Surface = NewSurfaceMap(w.Floor.Material, opts.Resources, opts.GPU, opts.SurfaceTexture, opts.Logger)
	w.Models = NewModels(opts.Scene, opts.Resources, opts.GPU, opts.Logger)

	w.log.Info("world created", zap.Int("objects", opts.Scene.Len()))
	return w, nil
}

// Update advances animations by one tick.
func (w *World) Update(t *clock.Time) {
	w.Knot.Update(t)
}

// Close releases GPU objects.
func (w *World) Close() {
	w.Models.Close()
	w.Surface.Close()
	w.Environment.Close()
	w.Floor.Mesh.Delete()
	w.Knot.Close()
	w.Cube.Mesh.Delete()
	if w.program != nil {
		w.program.Delete()
	}
}

// GLBuilder is the GPU implementation backed by the current GL context.
type GLBuilder struct {
	Program *shader.Program
}

// UploadHDR implements GPU.
func (GLBuilder) UploadHDR(img *texture.HDRImage) *texture.Texture {
	return texture.UploadHDR(img)
}

// UploadTexture implements GPU.
func (GLBuilder) UploadTexture(img *texture.Image) *texture.Texture {
	return texture.Upload2D(img)
}

// BuildModel implements GPU. Each primitive becomes a mesh with a standard
// material taking the primitive's base color.
func (b GLBuilder) BuildModel(m *model.Model) scene.Drawable {
	program := b.Program
	if program == nil {
		var err error
		if program, err = mesh.NewStandardProgram(); err != nil {
			return nil
		}
	}
	g := &mesh.Group{Name: m.Path}
	for _, p := range m.Primitives {
		mat := mesh.NewStandardMaterial(program, p.BaseColor)
		mat.Roughness = p.Roughness
		mat.Metalness = p.Metalness
		g.Meshes = append(g.Meshes, mesh.New(p.Mesh, p.Geometry, mat))
	}
	return g
}

// Cube is a white half-unit box at the origin.
type Cube struct {
	Mesh *mesh.Mesh
}

// NewCube uploads the box.
func NewCube(program *shader.Program) *Cube {
	mat := mesh.NewStandardMaterial(program, mgl32.Vec3{1, 1, 1})
	return &Cube{Mesh: mesh.New("cube", mesh.Box(0.5, 0.5, 0.5), mat)}
}
