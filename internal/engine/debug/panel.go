package debug

import (
	"fmt"

	"github.com/Faultbox/experience/internal/engine/ui2d"
)

// Panel geometry in points.
const (
	PanelWidth  = 112
	PanelHeight = 48
	graphTop    = 17
	graphInset  = 3
)

// Canvas is the 2D surface a StatsPanel draws on.
type Canvas interface {
	DrawPanel(x, y, width, height float32, bg, border ui2d.Color)
	DrawRect(x, y, width, height float32, color ui2d.Color)
	DrawText(x, y float32, text string, scale float32, color ui2d.Color)
}

// StatsPanel shows the latest fps, its observed range and a scrolling
// history graph in the top-left corner.
type StatsPanel struct {
	stats   *FrameStats
	history []float64
	next    int
	filled  bool
	seen    uint64

	min, max float64
}

// NewStatsPanel returns a panel that reads from stats.
func NewStatsPanel(stats *FrameStats) *StatsPanel {
	return &StatsPanel{
		stats:   stats,
		history: make([]float64, PanelWidth-2*graphInset),
	}
}

// Update records any fps sample taken since the last call.
func (p *StatsPanel) Update() {
	if p.stats.Samples() == p.seen {
		return
	}
	p.seen = p.stats.Samples()
	fps := p.stats.FPS()

	if !p.filled && p.next == 0 {
		p.min, p.max = fps, fps
	}
	p.min = min(p.min, fps)
	p.max = max(p.max, fps)

	p.history[p.next] = fps
	p.next = (p.next + 1) % len(p.history)
	if p.next == 0 {
		p.filled = true
	}
}

// History returns recorded samples from oldest to newest.
func (p *StatsPanel) History() []float64 {
	if !p.filled {
		return append([]float64(nil), p.history[:p.next]...)
	}
	out := make([]float64, 0, len(p.history))
	out = append(out, p.history[p.next:]...)
	return append(out, p.history[:p.next]...)
}

// Label returns the text line, e.g. "60 FPS (58-61)".
func (p *StatsPanel) Label() string {
	if p.seen == 0 {
		return "-- FPS"
	}
	return fmt.Sprintf("%.0f FPS (%.0f-%.0f)", p.stats.FPS(), p.min, p.max)
}

// Draw updates the history and draws the panel when stats are enabled.
func (p *StatsPanel) Draw(c Canvas) {
	if !p.stats.Enabled {
		return
	}
	p.Update()

	c.DrawPanel(0, 0, PanelWidth, PanelHeight, ui2d.ColorPanelBg, ui2d.ColorPanelBorder)
	c.DrawText(graphInset, 2, p.Label(), 1, ui2d.ColorText)

	graphH := float32(PanelHeight - graphTop - graphInset)
	bottom := float32(PanelHeight - graphInset)
	if p.max <= 0 {
		return
	}
	for i, fps := range p.History() {
		h := float32(fps/p.max) * graphH
		c.DrawRect(float32(graphInset+i), bottom-h, 1, h, ui2d.ColorGraph)
	}
}

// Surface is a Canvas with a frame bracket, such as *ui2d.Renderer.
type Surface interface {
	Canvas
	Begin()
	End()
}

// Overlay draws the stats panel onto a surface once per frame.
type Overlay struct {
	Surface Surface
	Panel   *StatsPanel
}

// Draw implements the frame overlay hook. Nothing is drawn while stats
// are disabled.
func (o *Overlay) Draw() {
	if !o.Panel.stats.Enabled {
		return
	}
	o.Surface.Begin()
	o.Panel.Draw(o.Surface)
	o.Surface.End()
}
