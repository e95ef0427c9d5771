package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/experience/internal/engine/texture"
)

type stubDrawable struct {
	name  string
	drawn int
}

func (d *stubDrawable) Draw(ctx *DrawContext) { d.drawn++ }

func TestAddTraverseOrder(t *testing.T) {
	s := New()
	a, b := &stubDrawable{name: "a"}, &stubDrawable{name: "b"}
	s.Add(a)
	s.Add(b)

	var names []string
	s.Traverse(func(d Drawable) { names = append(names, d.(*stubDrawable).name) })
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("traversal = %v, want [a b]", names)
	}
}

func TestRemove(t *testing.T) {
	s := New()
	a, b := &stubDrawable{name: "a"}, &stubDrawable{name: "b"}
	s.Add(a)
	s.Add(b)

	if !s.Remove(a) {
		t.Error("Remove(a) = false")
	}
	if s.Remove(a) {
		t.Error("second Remove(a) = true")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestLightDirection(t *testing.T) {
	l := DirectionalLight{Position: mgl32.Vec3{0, 5, 0}}
	if d := l.Direction(); !d.ApproxEqual(mgl32.Vec3{0, -1, 0}) {
		t.Errorf("Direction = %v, want (0,-1,0)", d)
	}
	if d := (DirectionalLight{}).Direction(); !d.ApproxEqual(mgl32.Vec3{0, -1, 0}) {
		t.Errorf("zero light Direction = %v, want (0,-1,0)", d)
	}
}

func TestContextCarriesEnvironment(t *testing.T) {
	s := New()
	ctx := s.Context(mgl32.Ident4(), mgl32.Ident4(), mgl32.Vec3{0, 0, 5}, 1.75)
	if ctx.Environment != nil {
		t.Error("expected no environment by default")
	}
	if ctx.Ambient != DefaultAmbient {
		t.Errorf("Ambient = %v, want default", ctx.Ambient)
	}

	env := &texture.Texture{ID: 7, Mapping: texture.MappingEquirectangular}
	s.SetEnvironment(env)
	ctx = s.Context(mgl32.Ident4(), mgl32.Ident4(), mgl32.Vec3{}, 1)
	if ctx.Environment != env {
		t.Error("environment not propagated to draw context")
	}
	if ctx.Exposure != 1 {
		t.Errorf("Exposure = %v, want 1", ctx.Exposure)
	}
}

func TestNewLightCastsShadow(t *testing.T) {
	s := New()
	if !s.Light.CastShadow || s.Light.NormalBias != 0.05 {
		t.Errorf("light = %+v, want shadow caster with normal bias 0.05", s.Light)
	}

	ctx := s.Context(mgl32.Ident4(), mgl32.Ident4(), mgl32.Vec3{}, 1)
	if ctx.ShadowMap != 0 {
		t.Errorf("ShadowMap = %d, want 0 until the renderer fills it", ctx.ShadowMap)
	}
	if ctx.Light != s.Light {
		t.Error("context should carry the scene light")
	}
}
