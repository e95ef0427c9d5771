package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestPerspectiveResize(t *testing.T) {
	c := NewPerspective(DefaultFOV, 800.0/600.0, DefaultNear, DefaultFar)
	before := c.Projection()

	c.Resize(1024.0 / 768.0)
	if !c.Projection().ApproxEqual(before) {
		t.Error("same aspect should give the same projection")
	}

	c.Resize(2)
	if c.Projection().ApproxEqual(before) {
		t.Error("projection not updated after aspect change")
	}
	want := mgl32.Perspective(mgl32.DegToRad(35), 2, 0.1, 100)
	if !c.Projection().ApproxEqual(want) {
		t.Errorf("projection = %v, want %v", c.Projection(), want)
	}
}

func TestPerspectiveZeroAspect(t *testing.T) {
	c := NewPerspective(DefaultFOV, 0, DefaultNear, DefaultFar)
	for i, v := range c.Projection() {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("projection[%d] = %v", i, v)
		}
	}
}

func TestViewLooksAtTarget(t *testing.T) {
	c := NewPerspective(DefaultFOV, 1, DefaultNear, DefaultFar)
	// The origin sits on the camera's -Z axis at distance 5.
	p := c.View().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if !p.Vec3().ApproxEqualThreshold(mgl32.Vec3{0, 0, -5}, 1e-5) {
		t.Errorf("origin in view space = %v", p)
	}
}

func TestOrbitRotateWithoutDamping(t *testing.T) {
	c := NewPerspective(DefaultFOV, 1, DefaultNear, DefaultFar)
	o := NewOrbitControls(c)
	o.EnableDamping = false

	o.Rotate(-math.Pi/2, 0)
	if !o.Update() {
		t.Fatal("Update reported no movement")
	}
	if !c.Position.ApproxEqualThreshold(mgl32.Vec3{5, 0, 0}, 1e-4) {
		t.Errorf("position = %v, want (5, 0, 0)", c.Position)
	}
	if o.Update() {
		t.Error("second Update moved without input")
	}
}

func TestOrbitDampingSettles(t *testing.T) {
	c := NewPerspective(DefaultFOV, 1, DefaultNear, DefaultFar)
	o := NewOrbitControls(c)
	o.Rotate(1, 0)

	o.Update()
	first := c.Position
	if first.Sub(mgl32.Vec3{0, 0, 5}).Len() > 0.5 {
		t.Errorf("damped step moved too far: %v", first)
	}

	moved := 0
	for i := 0; i < 1000; i++ {
		if o.Update() {
			moved++
		}
	}
	if moved == 0 {
		t.Error("damping should keep moving after the first frame")
	}
	if o.Update() {
		t.Error("controls never settled")
	}
	if d := c.Position.Len(); math.Abs(float64(d)-5) > 1e-3 {
		t.Errorf("distance drifted to %v", d)
	}
}

func TestOrbitZoomClamped(t *testing.T) {
	tests := []struct {
		name  string
		steps float32
		want  float32
	}{
		{"in", 100, 2},
		{"out", -100, 10},
		{"small", 1, 5 * 0.95},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewPerspective(DefaultFOV, 1, DefaultNear, DefaultFar)
			o := NewOrbitControls(c)
			o.Zoom(tt.steps)
			o.Update()
			if d := c.Position.Sub(o.Target).Len(); math.Abs(float64(d-tt.want)) > 1e-3 {
				t.Errorf("distance = %v, want %v", d, tt.want)
			}
		})
	}
}

func TestOrbitPolarClamp(t *testing.T) {
	c := NewPerspective(DefaultFOV, 1, DefaultNear, DefaultFar)
	o := NewOrbitControls(c)
	o.EnableDamping = false

	o.Rotate(0, 10)
	o.Update()
	if c.Position.Y() > 5 || c.Position.Y() < 4.99 {
		t.Errorf("camera should stop just short of the pole, got %v", c.Position)
	}
}

func TestOrbitScreenSpacePan(t *testing.T) {
	c := NewPerspective(DefaultFOV, 1, DefaultNear, DefaultFar)
	o := NewOrbitControls(c)
	o.EnableDamping = false
	o.SetViewportHeight(600)

	o.Pan(0, 100)
	o.Update()
	if o.Target.Y() <= 0 {
		t.Errorf("dragging down should raise the target, got %v", o.Target)
	}
	if math.Abs(float64(o.Target.X())) > 1e-5 || math.Abs(float64(o.Target.Z())) > 1e-5 {
		t.Errorf("screen-space pan left the view plane: %v", o.Target)
	}
	if d := c.Position.Sub(o.Target).Len(); math.Abs(float64(d)-5) > 1e-3 {
		t.Errorf("pan changed orbit distance to %v", d)
	}
}

func TestRigDefaults(t *testing.T) {
	r := NewRig(DefaultRigConfig(), 4.0/3.0)
	if r.Controls.MinDistance != 2 || r.Controls.MaxDistance != 10 {
		t.Errorf("distance range = %v..%v", r.Controls.MinDistance, r.Controls.MaxDistance)
	}
	if !r.Eye().ApproxEqualThreshold(mgl32.Vec3{0, 0, 5}, 1e-4) {
		t.Errorf("eye = %v", r.Eye())
	}

	r.Resize(1000, 500)
	if r.Aspect != 2 {
		t.Errorf("aspect = %v, want 2", r.Aspect)
	}
	if r.Controls.Height != 500 {
		t.Errorf("controls height = %v", r.Controls.Height)
	}
	if r.Update() {
		t.Error("rig moved without input")
	}
}
