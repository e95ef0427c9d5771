package shadow

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is the orthographic volume a directional light renders its depth
// pass through.
type Camera struct {
	HalfSize float32
	Near     float32
	Far      float32
}

// DefaultCamera covers a 10 unit square out to 10 units from the light.
func DefaultCamera() Camera {
	return Camera{HalfSize: 5, Near: 0.5, Far: 10}
}

// LightMatrix returns the view-projection that maps world space into the
// light's clip space for a light at position aimed at target.
func LightMatrix(position, target mgl32.Vec3, cam Camera) mgl32.Mat4 {
	dir := target.Sub(position)
	up := mgl32.Vec3{0, 1, 0}
	// Use another up vector when the light is nearly vertical
	if l := dir.Len(); l > 0 && abs32(dir.Y()/l) > 0.99 {
		up = mgl32.Vec3{0, 0, 1}
	}

	view := mgl32.LookAtV(position, target, up)
	proj := mgl32.Ortho(-cam.HalfSize, cam.HalfSize, -cam.HalfSize, cam.HalfSize, cam.Near, cam.Far)
	return proj.Mul4(view)
}

// abs32 returns the absolute value of a float32.
func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
