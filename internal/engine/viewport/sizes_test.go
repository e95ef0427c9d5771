package viewport

import (
	"testing"

	"github.com/Faultbox/experience/internal/events"
)

func TestResize(t *testing.T) {
	s := New(800, 600, 1)

	var got *Sizes
	count := 0
	s.On(events.EventResize, func(args ...any) {
		got = args[0].(*Sizes)
		count++
	})

	s.Resize(1024, 768, 3)

	if s.Width != 1024 || s.Height != 768 {
		t.Errorf("size = %dx%d, want 1024x768", s.Width, s.Height)
	}
	if s.PixelRatio != MaxPixelRatio {
		t.Errorf("PixelRatio = %v, want %v", s.PixelRatio, MaxPixelRatio)
	}
	if count != 1 || got != s {
		t.Errorf("expected one resize event carrying Sizes, got %d", count)
	}
}

func TestPixelRatioCap(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		opts  []Option
		want  float64
	}{
		{"standard", 1, nil, 1},
		{"retina", 2, nil, 2},
		{"high density", 3.5, nil, 2},
		{"zero reported", 0, nil, 1},
		{"lower cap", 2, []Option{WithMaxPixelRatio(1.5)}, 1.5},
		{"cap above max ignored", 3, []Option{WithMaxPixelRatio(4)}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(100, 100, tt.ratio, tt.opts...)
			if s.PixelRatio != tt.want {
				t.Errorf("PixelRatio = %v, want %v", s.PixelRatio, tt.want)
			}
		})
	}
}

func TestDegenerateSize(t *testing.T) {
	s := New(0, -5, 1)
	if s.Width != 1 || s.Height != 1 {
		t.Errorf("size = %dx%d, want 1x1", s.Width, s.Height)
	}
	if s.Aspect() != 1 {
		t.Errorf("Aspect = %v, want 1", s.Aspect())
	}
}

func TestCoalescing(t *testing.T) {
	s := New(800, 600, 1, WithCoalescing())
	count := 0
	s.On(events.EventResize, func(args ...any) { count++ })

	s.Resize(900, 600, 1)
	s.Resize(1000, 700, 1)
	s.Resize(1024, 768, 1)
	if count != 0 {
		t.Fatalf("expected no events before Flush, got %d", count)
	}

	if !s.Flush() {
		t.Error("Flush reported nothing pending")
	}
	if s.Flush() {
		t.Error("second Flush fired again")
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if s.Width != 1024 || s.Height != 768 {
		t.Errorf("size = %dx%d, want last measurement 1024x768", s.Width, s.Height)
	}
}

func TestDrawableSize(t *testing.T) {
	s := New(640, 480, 2)
	w, h := s.DrawableSize()
	if w != 1280 || h != 960 {
		t.Errorf("DrawableSize = %dx%d, want 1280x960", w, h)
	}
}
