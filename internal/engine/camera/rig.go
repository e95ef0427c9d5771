package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Rig is the scene camera with its orbit controls.
type Rig struct {
	*PerspectiveCamera
	Controls *OrbitControls
}

// RigConfig holds the camera settings.
type RigConfig struct {
	FOV           float32
	Near          float32
	Far           float32
	Position      mgl32.Vec3
	Target        mgl32.Vec3
	Damping       bool
	DampingFactor float32
	MinDistance   float32
	MaxDistance   float32
}

// DefaultRigConfig returns a camera at (0, 0, 5) orbiting the origin.
func DefaultRigConfig() RigConfig {
	return RigConfig{
		FOV:           DefaultFOV,
		Near:          DefaultNear,
		Far:           DefaultFar,
		Position:      mgl32.Vec3{0, 0, 5},
		Damping:       true,
		DampingFactor: 0.05,
		MinDistance:   2,
		MaxDistance:   10,
	}
}

// NewRig builds the camera and settles the controls once.
func NewRig(cfg RigConfig, aspect float32) *Rig {
	cam := NewPerspective(cfg.FOV, aspect, cfg.Near, cfg.Far)
	cam.Position = cfg.Position
	cam.LookAt(cfg.Target)

	ctl := NewOrbitControls(cam)
	ctl.EnableDamping = cfg.Damping
	if cfg.DampingFactor > 0 {
		ctl.DampingFactor = cfg.DampingFactor
	}
	if cfg.MinDistance > 0 {
		ctl.MinDistance = cfg.MinDistance
	}
	if cfg.MaxDistance > 0 {
		ctl.MaxDistance = cfg.MaxDistance
	}
	ctl.Update()

	return &Rig{PerspectiveCamera: cam, Controls: ctl}
}

// Resize updates the aspect ratio.
func (r *Rig) Resize(width, height int) {
	if height <= 0 {
		height = 1
	}
	r.PerspectiveCamera.Resize(float32(width) / float32(height))
	r.Controls.SetViewportHeight(float32(height))
}

// Update advances the controls by one frame.
func (r *Rig) Update() bool {
	return r.Controls.Update()
}
