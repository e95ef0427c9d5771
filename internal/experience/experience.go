// Package experience wires the viewport, clock, resources, camera, renderer
// and scene together and drives them from the frame loop.
package experience

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/experience/internal/engine/clock"
	"github.com/Faultbox/experience/internal/engine/debug"
	"github.com/Faultbox/experience/internal/engine/renderer"
	"github.com/Faultbox/experience/internal/engine/resources"
	"github.com/Faultbox/experience/internal/engine/scene"
	"github.com/Faultbox/experience/internal/engine/viewport"
	"github.com/Faultbox/experience/internal/events"
)

// ErrIncomplete is returned by New when a required collaborator is missing.
var ErrIncomplete = errors.New("experience: missing collaborator")

// Camera is the scene camera.
type Camera interface {
	renderer.Camera
	Resize(width, height int)
	Update() bool
}

// Controls turns pointer input into camera motion.
type Controls interface {
	Drag(dx, dy float32)
	Pan(dx, dy float32)
	Zoom(steps float32)
}

// Renderer draws the scene.
type Renderer interface {
	Resize(width, height int, pixelRatio float64)
	Render(s *scene.Scene, cam renderer.Camera)
}

// World animates scene content once per tick, before the camera moves.
type World interface {
	Update(t *clock.Time)
}

// Overlay draws screen-space content after the scene.
type Overlay interface {
	Draw()
}

// Options carries the collaborators. Sizes, Time, Camera, Renderer and
// Scene are required.
type Options struct {
	Sizes     *viewport.Sizes
	Time      *clock.Time
	Resources *resources.Loader
	Camera    Camera
	Controls  Controls
	Renderer  Renderer
	Scene     *scene.Scene
	World     World
	Stats     *debug.FrameStats
	Overlay   Overlay
	Logger    *zap.Logger

	// Screenshot is called when the user asks for a capture.
	Screenshot func()
}

type subscription struct {
	emitter *events.Emitter
	name    string
	id      events.ListenerID
}

// Experience reacts to "resize" by resizing the camera and renderer and to
// "tick" by updating and rendering one frame.
type Experience struct {
	opts Options
	log  *zap.Logger
	subs []subscription
}

// New validates the collaborators, subscribes to their events and applies
// the initial size.
func New(opts Options) (*Experience, error) {
	var missing []string
	if opts.Sizes == nil {
		missing = append(missing, "sizes")
	}
	if opts.Time == nil {
		missing = append(missing, "time")
	}
	if opts.Camera == nil {
		missing = append(missing, "camera")
	}
	if opts.Renderer == nil {
		missing = append(missing, "renderer")
	}
	if opts.Scene == nil {
		missing = append(missing, "scene")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrIncomplete, missing)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	e := &Experience{opts: opts, log: opts.Logger}

	e.subscribe(&opts.Sizes.Emitter, events.EventResize, func(...any) { e.Resize() })
	e.subscribe(&opts.Time.Emitter, events.EventTick, func(...any) { e.tick() })
	if r := opts.Resources; r != nil {
		e.subscribe(&r.Emitter, events.EventProgress, func(args ...any) {
			if len(args) == 2 {
				e.log.Debug("loading", zap.Any("loaded", args[0]), zap.Any("to_load", args[1]))
			}
		})
		e.subscribe(&r.Emitter, events.EventReady, func(...any) {
			e.log.Info("resources ready", zap.Int("count", r.ToLoad()))
		})
	}

	e.Resize()
	e.log.Info("experience created",
		zap.Int("width", opts.Sizes.Width),
		zap.Int("height", opts.Sizes.Height),
		zap.Float64("pixel_ratio", opts.Sizes.PixelRatio),
	)
	return e, nil
}

func (e *Experience) subscribe(em *events.Emitter, name string, h events.Handler) {
	id := em.On(name, h)
	e.subs = append(e.subs, subscription{emitter: em, name: name, id: id})
}

// Resize propagates the current size to the camera and renderer.
func (e *Experience) Resize() {
	s := e.opts.Sizes
	e.opts.Camera.Resize(s.Width, s.Height)
	e.opts.Renderer.Resize(s.Width, s.Height, s.PixelRatio)
}

// tick applies finished loads and pending resizes, then runs one frame.
func (e *Experience) tick() {
	if e.opts.Resources != nil {
		e.opts.Resources.Poll()
	}
	e.opts.Sizes.Flush()
	e.Update()
}

// Update advances the world and camera, renders one frame and draws the
// overlay on top.
func (e *Experience) Update() {
	if e.opts.Stats != nil {
		e.opts.Stats.Begin()
	}
	if e.opts.World != nil {
		e.opts.World.Update(e.opts.Time)
	}
	e.opts.Camera.Update()
	e.opts.Renderer.Render(e.opts.Scene, e.opts.Camera)
	if e.opts.Overlay != nil {
		e.opts.Overlay.Draw()
	}
	if e.opts.Stats != nil {
		e.opts.Stats.End()
	}
}

// Run starts loading resources and ticks until ctx is cancelled, Stop is
// called or the scheduler fails. Cancellation and Stop return nil.
func (e *Experience) Run(ctx context.Context, sched clock.Scheduler) error {
	if r := e.opts.Resources; r != nil {
		if err := r.Start(ctx); err != nil && !errors.Is(err, resources.ErrAlreadyStarted) {
			return fmt.Errorf("starting resources: %w", err)
		}
	}

	e.log.Info("experience running")
	err := e.opts.Time.Run(ctx, sched)
	switch {
	case errors.Is(err, clock.ErrStopped), errors.Is(err, context.Canceled):
		e.log.Info("experience stopped", zap.Uint64("frames", e.opts.Time.Frame()))
		return nil
	case err != nil:
		return err
	}
	return nil
}

// Stop ends Run after the current frame.
func (e *Experience) Stop() {
	e.opts.Time.Stop()
}

// Close unsubscribes from every collaborator and cancels outstanding loads.
func (e *Experience) Close() {
	for _, s := range e.subs {
		s.emitter.Off(s.name, s.id)
	}
	e.subs = nil
	if e.opts.Resources != nil {
		e.opts.Resources.Close()
	}
}
