package experience

import (
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/experience/internal/engine/input"
)

// Exposure bounds and step for the exposure keys.
const (
	minExposure  = 0.1
	maxExposure  = 10
	exposureStep = 1.1
)

// exposureControl is implemented by renderers with adjustable tone mapping.
type exposureControl interface {
	Exposure() float32
	SetExposure(e float32)
}

// HandleInput routes a window event: resizes go to Sizes, drags and the
// wheel to the camera controls. Escape stops, F3 toggles frame stats, F12
// takes a screenshot and = or - raise or lower the exposure.
func (e *Experience) HandleInput(ev input.Event) {
	switch ev.Type {
	case input.EventQuit:
		e.Stop()

	case input.EventResize:
		ratio := ev.PixelRatio
		if ratio <= 0 {
			ratio = e.opts.Sizes.PixelRatio
		}
		e.opts.Sizes.Resize(ev.Width, ev.Height, ratio)

	case input.EventMouseMove:
		c := e.opts.Controls
		if c == nil {
			return
		}
		switch {
		case ev.Dragging(input.ButtonLeft):
			c.Drag(ev.DX, ev.DY)
		case ev.Dragging(input.ButtonRight), ev.Dragging(input.ButtonMiddle):
			c.Pan(ev.DX, ev.DY)
		}

	case input.EventWheel:
		if e.opts.Controls != nil {
			e.opts.Controls.Zoom(ev.WheelY)
		}

	case input.EventKeyDown:
		switch ev.Key {
		case sdl.SCANCODE_ESCAPE:
			e.Stop()
		case sdl.SCANCODE_F3:
			if e.opts.Stats != nil {
				e.opts.Stats.SetEnabled(!e.opts.Stats.Enabled)
			}
		case sdl.SCANCODE_F12:
			if e.opts.Screenshot != nil {
				e.opts.Screenshot()
			}
		case sdl.SCANCODE_EQUALS, sdl.SCANCODE_KP_PLUS:
			e.scaleExposure(exposureStep)
		case sdl.SCANCODE_MINUS, sdl.SCANCODE_KP_MINUS:
			e.scaleExposure(1 / exposureStep)
		}
	}
}

func (e *Experience) scaleExposure(factor float32) {
	ec, ok := e.opts.Renderer.(exposureControl)
	if !ok {
		return
	}
	next := min(max(ec.Exposure()*factor, minExposure), maxExposure)
	ec.SetExposure(next)
	e.log.Debug("exposure changed", zap.Float32("exposure", next))
}
