package debug

import (
	"testing"
	"time"

	"github.com/Faultbox/experience/internal/engine/ui2d"
)

type canvasCall struct {
	kind string
	x, y float32
	w, h float32
	text string
}

type fakeCanvas struct {
	calls []canvasCall
}

func (c *fakeCanvas) DrawPanel(x, y, w, h float32, bg, border ui2d.Color) {
	c.calls = append(c.calls, canvasCall{kind: "panel", x: x, y: y, w: w, h: h})
}

func (c *fakeCanvas) DrawRect(x, y, w, h float32, color ui2d.Color) {
	c.calls = append(c.calls, canvasCall{kind: "rect", x: x, y: y, w: w, h: h})
}

func (c *fakeCanvas) DrawText(x, y float32, text string, scale float32, color ui2d.Color) {
	c.calls = append(c.calls, canvasCall{kind: "text", x: x, y: y, text: text})
}

func (c *fakeCanvas) count(kind string) int {
	n := 0
	for _, call := range c.calls {
		if call.kind == kind {
			n++
		}
	}
	return n
}

// runUntilSample drives frames of the given length until stats samples.
func runUntilSample(t *testing.T, s *FrameStats, clk *stepClock, frame time.Duration) {
	t.Helper()
	for i := 0; i < 1000; i++ {
		s.Begin()
		clk.advance(frame)
		if s.End() {
			return
		}
	}
	t.Fatal("no sample taken")
}

func TestStatsPanelHistory(t *testing.T) {
	clk := &stepClock{t: time.Unix(0, 0)}
	s := NewFrameStats(100*time.Millisecond, WithNow(clk.now))
	p := NewStatsPanel(s)

	if got := p.Label(); got != "-- FPS" {
		t.Errorf("Label before samples = %q", got)
	}

	runUntilSample(t, s, clk, 10*time.Millisecond)
	p.Update()
	runUntilSample(t, s, clk, 20*time.Millisecond)
	p.Update()
	p.Update()

	h := p.History()
	if len(h) != 2 {
		t.Fatalf("history = %v, want 2 samples", h)
	}
	if h[0] < 99 || h[0] > 101 || h[1] < 49 || h[1] > 51 {
		t.Errorf("history = %v, want [100 50]", h)
	}
	if got := p.Label(); got != "50 FPS (50-100)" {
		t.Errorf("Label = %q, want %q", got, "50 FPS (50-100)")
	}
}

func TestStatsPanelHistoryWraps(t *testing.T) {
	clk := &stepClock{t: time.Unix(0, 0)}
	s := NewFrameStats(10*time.Millisecond, WithNow(clk.now))
	p := NewStatsPanel(s)

	n := len(p.history) + 5
	for i := 0; i < n; i++ {
		runUntilSample(t, s, clk, 10*time.Millisecond)
		p.Update()
	}

	h := p.History()
	if len(h) != len(p.history) {
		t.Fatalf("history length = %d, want %d", len(h), len(p.history))
	}
	if s.Samples() != uint64(n) {
		t.Errorf("Samples = %d, want %d", s.Samples(), n)
	}
}

func TestStatsPanelDraw(t *testing.T) {
	clk := &stepClock{t: time.Unix(0, 0)}
	s := NewFrameStats(100*time.Millisecond, WithNow(clk.now))
	p := NewStatsPanel(s)

	runUntilSample(t, s, clk, 10*time.Millisecond)
	runUntilSample(t, s, clk, 10*time.Millisecond)

	c := &fakeCanvas{}
	p.Draw(c)

	if c.count("panel") != 1 || c.count("text") != 1 {
		t.Fatalf("calls = %+v", c.calls)
	}
	// Draw picks up only the latest sample
	if got := c.count("rect"); got != 1 {
		t.Errorf("graph bars = %d, want 1", got)
	}
	panel := c.calls[0]
	if panel.x != 0 || panel.y != 0 || panel.w != PanelWidth || panel.h != PanelHeight {
		t.Errorf("panel at %+v, want top-left %dx%d", panel, PanelWidth, PanelHeight)
	}
	bar := c.calls[len(c.calls)-1]
	if bar.y+bar.h != PanelHeight-graphInset {
		t.Errorf("bar bottom = %v, want %v", bar.y+bar.h, PanelHeight-graphInset)
	}
}

func TestStatsPanelDisabled(t *testing.T) {
	s := NewFrameStats(0)
	s.Enabled = false
	c := &fakeCanvas{}
	NewStatsPanel(s).Draw(c)
	if len(c.calls) != 0 {
		t.Errorf("disabled panel drew %d calls", len(c.calls))
	}
}

type fakeSurface struct {
	fakeCanvas
	frames int
}

func (s *fakeSurface) Begin() { s.frames++ }
func (s *fakeSurface) End()   {}

func TestOverlayDraw(t *testing.T) {
	s := NewFrameStats(0)
	surf := &fakeSurface{}
	o := &Overlay{Surface: surf, Panel: NewStatsPanel(s)}

	o.Draw()
	if surf.frames != 1 || surf.count("panel") != 1 {
		t.Errorf("frames = %d, panels = %d, want 1 and 1", surf.frames, surf.count("panel"))
	}

	s.Enabled = false
	o.Draw()
	if surf.frames != 1 {
		t.Error("disabled overlay began a frame")
	}
}
