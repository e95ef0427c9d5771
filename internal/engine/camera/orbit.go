package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	minPolar = 1e-6
	maxPolar = math.Pi - 1e-6
	epsilon  = 1e-6
)

// OrbitControls orbits a camera around a target. Input methods accumulate
// deltas and Update applies them, gradually when damping is on.
type OrbitControls struct {
	Camera *PerspectiveCamera
	Target mgl32.Vec3

	EnableDamping bool
	DampingFactor float32
	MinDistance   float32
	MaxDistance   float32
	RotateSpeed   float32
	ZoomSpeed     float32
	PanSpeed      float32

	// ScreenSpacePanning pans along the camera's up vector instead of the
	// horizontal plane.
	ScreenSpacePanning bool

	// Height of the viewport in pixels, used to convert drags to angles.
	Height float32

	deltaTheta float32
	deltaPhi   float32
	scale      float32
	pan        mgl32.Vec3
}

// NewOrbitControls attaches controls to cam with damping factor 0.05 and a
// 2..10 distance range.
func NewOrbitControls(cam *PerspectiveCamera) *OrbitControls {
	return &OrbitControls{
		Camera:             cam,
		Target:             cam.Target,
		EnableDamping:      true,
		DampingFactor:      0.05,
		MinDistance:        2,
		MaxDistance:        10,
		RotateSpeed:        1,
		ZoomSpeed:          1,
		PanSpeed:           1,
		ScreenSpacePanning: true,
		Height:             1,
		scale:              1,
	}
}

// SetViewportHeight records the viewport height used by Drag and Pan.
func (o *OrbitControls) SetViewportHeight(h float32) {
	if h > 0 {
		o.Height = h
	}
}

// Rotate queues an orbit by the given azimuth and polar angles in radians.
func (o *OrbitControls) Rotate(theta, phi float32) {
	o.deltaTheta -= theta
	o.deltaPhi -= phi
}

// Drag converts a pointer drag in pixels to an orbit.
func (o *OrbitControls) Drag(dx, dy float32) {
	k := 2 * math.Pi * o.RotateSpeed / o.Height
	o.Rotate(dx*k, dy*k)
}

// Zoom dollies toward the target for positive steps and away for negative.
func (o *OrbitControls) Zoom(steps float32) {
	o.scale *= float32(math.Pow(0.95, float64(steps*o.ZoomSpeed)))
}

// Pan moves the target by a pointer delta in pixels.
func (o *OrbitControls) Pan(dx, dy float32) {
	cam := o.Camera
	dist := cam.Position.Sub(o.Target).Len()
	dist *= float32(math.Tan(float64(mgl32.DegToRad(cam.FOV / 2))))

	right, up := cam.Basis()
	if !o.ScreenSpacePanning {
		up = mgl32.Vec3{0, 1, 0}.Cross(right)
	}
	k := 2 * dist * o.PanSpeed / o.Height
	o.pan = o.pan.Add(right.Mul(-dx * k)).Add(up.Mul(dy * k))
}

// Update applies queued input to the camera and reports whether it moved.
// It must run once per frame for damping to settle.
func (o *OrbitControls) Update() bool {
	cam := o.Camera
	before := cam.Position
	offset := cam.Position.Sub(o.Target)

	radius := offset.Len()
	theta := float32(math.Atan2(float64(offset.X()), float64(offset.Z())))
	phi := float32(0)
	if radius > 0 {
		phi = float32(math.Acos(float64(mgl32.Clamp(offset.Y()/radius, -1, 1))))
	}

	f := float32(1)
	if o.EnableDamping {
		f = o.DampingFactor
	}
	theta += o.deltaTheta * f
	phi += o.deltaPhi * f
	phi = mgl32.Clamp(phi, minPolar, maxPolar)

	radius = mgl32.Clamp(radius*o.scale, o.MinDistance, o.MaxDistance)
	o.Target = o.Target.Add(o.pan.Mul(f))

	sinPhi := float32(math.Sin(float64(phi)))
	offset = mgl32.Vec3{
		radius * sinPhi * float32(math.Sin(float64(theta))),
		radius * float32(math.Cos(float64(phi))),
		radius * sinPhi * float32(math.Cos(float64(theta))),
	}
	cam.Position = o.Target.Add(offset)
	cam.LookAt(o.Target)

	if o.EnableDamping {
		o.deltaTheta *= 1 - o.DampingFactor
		o.deltaPhi *= 1 - o.DampingFactor
		o.pan = o.pan.Mul(1 - o.DampingFactor)
	} else {
		o.deltaTheta, o.deltaPhi = 0, 0
		o.pan = mgl32.Vec3{}
	}
	o.scale = 1

	return cam.Position.Sub(before).LenSqr() > epsilon
}
