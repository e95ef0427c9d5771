// Package camera provides the perspective camera and orbit controls.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Defaults for the scene camera.
const (
	DefaultFOV  = 35
	DefaultNear = 0.1
	DefaultFar  = 100
)

// PerspectiveCamera projects with a vertical field of view in degrees.
type PerspectiveCamera struct {
	FOV    float32
	Aspect float32
	Near   float32
	Far    float32

	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3

	projection mgl32.Mat4
}

// NewPerspective creates a camera at (0, 0, 5) looking at the origin.
func NewPerspective(fov, aspect, near, far float32) *PerspectiveCamera {
	c := &PerspectiveCamera{
		FOV:      fov,
		Aspect:   aspect,
		Near:     near,
		Far:      far,
		Position: mgl32.Vec3{0, 0, 5},
		Up:       mgl32.Vec3{0, 1, 0},
	}
	c.UpdateProjectionMatrix()
	return c
}

// UpdateProjectionMatrix recomputes the projection after FOV, Aspect, Near or
// Far changed.
func (c *PerspectiveCamera) UpdateProjectionMatrix() {
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// Resize sets the aspect ratio and updates the projection.
func (c *PerspectiveCamera) Resize(aspect float32) {
	c.Aspect = aspect
	c.UpdateProjectionMatrix()
}

// LookAt points the camera at target.
func (c *PerspectiveCamera) LookAt(target mgl32.Vec3) {
	c.Target = target
}

// Projection returns the cached projection matrix.
func (c *PerspectiveCamera) Projection() mgl32.Mat4 { return c.projection }

// View returns the world-to-camera matrix.
func (c *PerspectiveCamera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

// Eye returns the camera position in world space.
func (c *PerspectiveCamera) Eye() mgl32.Vec3 { return c.Position }

// Basis returns the camera's right and up vectors in world space.
func (c *PerspectiveCamera) Basis() (right, up mgl32.Vec3) {
	v := c.View()
	right = mgl32.Vec3{v[0], v[4], v[8]}
	up = mgl32.Vec3{v[1], v[5], v[9]}
	return right, up
}
