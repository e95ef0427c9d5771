// Package scene holds the objects drawn each frame and the lighting they share.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/experience/internal/engine/texture"
)

// DefaultAmbient lights the scene when no environment map is set.
var DefaultAmbient = mgl32.Vec3{0.25, 0.25, 0.28}

// DirectionalLight shines from Position toward the origin.
type DirectionalLight struct {
	Position   mgl32.Vec3
	Color      mgl32.Vec3
	Intensity  float32
	CastShadow bool
	NormalBias float32
}

// Direction returns the unit vector the light travels along.
func (l DirectionalLight) Direction() mgl32.Vec3 {
	if l.Position.Len() == 0 {
		return mgl32.Vec3{0, -1, 0}
	}
	return l.Position.Mul(-1).Normalize()
}

// DrawContext carries per-frame state to drawables.
type DrawContext struct {
	View         mgl32.Mat4
	Projection   mgl32.Mat4
	CameraPos    mgl32.Vec3
	Light        DirectionalLight
	Ambient      mgl32.Vec3
	Environment  *texture.Texture
	EnvIntensity float32
	Exposure     float32

	// ShadowMap is the light's depth texture, 0 when shadows are off.
	ShadowMap  uint32
	LightSpace mgl32.Mat4
}

// Drawable is anything the renderer can submit.
type Drawable interface {
	Draw(ctx *DrawContext)
}

// Caster is a drawable that writes into the shadow map. setModel loads the
// model matrix into the depth program before each draw call.
type Caster interface {
	DrawDepth(setModel func(mgl32.Mat4))
}

// Scene is an ordered list of drawables plus lighting.
type Scene struct {
	objects []Drawable

	Light        DirectionalLight
	Ambient      mgl32.Vec3
	Environment  *texture.Texture
	EnvIntensity float32
	Background   mgl32.Vec4
}

// New returns an empty scene with a white key light and default ambient.
func New() *Scene {
	return &Scene{
		Light: DirectionalLight{
			Position:   mgl32.Vec3{3, 3, -2},
			Color:      mgl32.Vec3{1, 1, 1},
			Intensity:  1,
			CastShadow: true,
			NormalBias: 0.05,
		},
		Ambient:      DefaultAmbient,
		EnvIntensity: 1,
		Background:   mgl32.Vec4{0.1, 0.1, 0.15, 1},
	}
}

// Add appends d. Adding the same drawable twice draws it twice.
func (s *Scene) Add(d Drawable) {
	s.objects = append(s.objects, d)
}

// Remove deletes the first occurrence of d and reports whether it was found.
func (s *Scene) Remove(d Drawable) bool {
	for i, o := range s.objects {
		if o == d {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of drawables.
func (s *Scene) Len() int { return len(s.objects) }

// Traverse calls fn for each drawable in insertion order.
func (s *Scene) Traverse(fn func(Drawable)) {
	for _, o := range s.objects {
		fn(o)
	}
}

// SetEnvironment sets the image-based lighting texture. Nil restores the
// default ambient term.
func (s *Scene) SetEnvironment(env *texture.Texture) {
	s.Environment = env
}

// Context builds the draw context for a camera.
func (s *Scene) Context(view, projection mgl32.Mat4, cameraPos mgl32.Vec3, exposure float32) *DrawContext {
	return &DrawContext{
		View:         view,
		Projection:   projection,
		CameraPos:    cameraPos,
		Light:        s.Light,
		Ambient:      s.Ambient,
		Environment:  s.Environment,
		EnvIntensity: s.EnvIntensity,
		Exposure:     exposure,
	}
}
