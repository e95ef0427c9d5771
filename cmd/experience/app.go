package main

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/experience/internal/config"
	"github.com/Faultbox/experience/internal/engine/camera"
	"github.com/Faultbox/experience/internal/engine/clock"
	"github.com/Faultbox/experience/internal/engine/debug"
	"github.com/Faultbox/experience/internal/engine/model"
	"github.com/Faultbox/experience/internal/engine/renderer"
	"github.com/Faultbox/experience/internal/engine/resources"
	"github.com/Faultbox/experience/internal/engine/scene"
	"github.com/Faultbox/experience/internal/engine/texture"
	"github.com/Faultbox/experience/internal/engine/ui2d"
	"github.com/Faultbox/experience/internal/engine/viewport"
	"github.com/Faultbox/experience/internal/engine/window"
	"github.com/Faultbox/experience/internal/events"
	"github.com/Faultbox/experience/internal/experience"
	"github.com/Faultbox/experience/internal/logger"
	"github.com/Faultbox/experience/internal/world"
)

// maxTextureSize bounds flat textures before upload.
const maxTextureSize = 4096

const windowTitle = "Experience"

// loadingTitle is the window title while sources are loading.
func loadingTitle(loaded, total int) string {
	return fmt.Sprintf("%s - loading %d/%d", windowTitle, loaded, total)
}

type titler interface {
	SetTitle(title string)
}

// showProgress mirrors loader progress in the window title until ready.
func showProgress(win titler, loader *resources.Loader) {
	if total := len(loader.Sources()); total > 0 {
		win.SetTitle(loadingTitle(0, total))
	}
	progress := loader.On(events.EventProgress, func(args ...any) {
		win.SetTitle(loadingTitle(args[0].(int), args[1].(int)))
	})
	loader.Once(events.EventReady, func(...any) {
		loader.Off(events.EventProgress, progress)
		win.SetTitle(windowTitle)
	})
}

type app struct {
	win      *window.Window
	renderer *renderer.Renderer
	ui       *ui2d.Renderer
	world    *world.World
	exp      *experience.Experience
	sched    clock.Scheduler
	ticker   *clock.TickerScheduler
}

// decoders maps each source type to the package that loads it.
func decoders() resources.Decoders {
	textures := texture.Loader{MaxSize: maxTextureSize}
	return resources.Decoders{
		resources.TypeModel: resources.DecoderFunc(func(ctx context.Context, path string) (resources.Asset, error) {
			return model.Decode(ctx, path)
		}),
		resources.TypeTexture: resources.DecoderFunc(func(ctx context.Context, path string) (resources.Asset, error) {
			return textures.Load(ctx, path)
		}),
		resources.TypeHDREnvironment: resources.DecoderFunc(func(ctx context.Context, path string) (resources.Asset, error) {
			return texture.LoadHDR(ctx, path)
		}),
	}
}

func newApp(cfg *config.Config) (*app, error) {
	sources, err := cfg.Resources.LoadSources()
	if err != nil {
		return nil, fmt.Errorf("loading sources: %w", err)
	}
	loader, err := resources.New(sources, decoders(),
		resources.WithBaseDir(cfg.Resources.BaseDir),
		resources.WithMaxConcurrent(cfg.Resources.MaxConcurrent),
		resources.WithStrict(cfg.Resources.Strict),
		resources.WithLogger(logger.Named("resources")),
	)
	if err != nil {
		return nil, fmt.Errorf("resources: %w", err)
	}

	samples := 0
	if cfg.Graphics.Antialias {
		samples = 4
	}
	win, err := window.New(window.Config{
		Title:      windowTitle,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Samples:    samples,
		Logger:     logger.Named("window"),
	})
	if err != nil {
		return nil, err
	}
	a := &app{win: win}
	showProgress(win, loader)

	width, height := win.Size()
	sizeOpts := []viewport.Option{
		viewport.WithMaxPixelRatio(cfg.Graphics.MaxPixelRatio),
		viewport.WithLogger(logger.Named("sizes")),
	}
	if cfg.Graphics.CoalesceResize {
		sizeOpts = append(sizeOpts, viewport.WithCoalescing())
	}
	sizes := viewport.New(width, height, win.PixelRatio(), sizeOpts...)

	a.renderer, err = renderer.New(renderer.Config{
		Width:      sizes.Width,
		Height:     sizes.Height,
		PixelRatio: sizes.PixelRatio,
		Exposure:   cfg.Graphics.Exposure,
		Antialias:  cfg.Graphics.Antialias,
		Logger:     logger.Named("renderer"),

		Shadows:       cfg.Graphics.Shadows,
		ShadowMapSize: int32(cfg.Graphics.ShadowMapSize),
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	cc := cfg.Camera
	rig := camera.NewRig(camera.RigConfig{
		FOV:           cc.FOV,
		Near:          cc.Near,
		Far:           cc.Far,
		Position:      mgl32.Vec3(cc.Position),
		Target:        mgl32.Vec3(cc.Target),
		Damping:       cc.Damping,
		DampingFactor: cc.DampingFactor,
		MinDistance:   cc.MinDistance,
		MaxDistance:   cc.MaxDistance,
	}, sizes.Aspect())

	sc := scene.New()
	a.world, err = world.New(world.Options{
		Scene:       sc,
		Resources:   loader,
		Logger:      logger.Named("world"),
		Environment: cfg.Resources.Environment,

		SurfaceTexture: cfg.Resources.SurfaceTexture,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	stats := debug.NewFrameStats(cfg.Debug.StatsInterval, debug.WithStatsLogger(logger.Named("stats")))
	stats.Enabled = cfg.Debug.ShowStats
	a.ui, err = ui2d.New(sizes.Width, sizes.Height)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("overlay: %w", err)
	}
	sizes.On(events.EventResize, func(...any) { a.ui.Resize(sizes.Width, sizes.Height) })
	shots := debug.NewScreenshotCapture(cfg.Debug.ScreenshotDir, "experience")

	a.exp, err = experience.New(experience.Options{
		Sizes:     sizes,
		Time:      clock.New(clock.WithLogger(logger.Named("time"))),
		Resources: loader,
		Camera:    rig,
		Controls:  rig.Controls,
		Renderer:  a.renderer,
		Scene:     sc,
		World:     a.world,
		Stats:     stats,
		Overlay:   &debug.Overlay{Surface: a.ui, Panel: debug.NewStatsPanel(stats)},
		Logger:    logger.Named("experience"),
		Screenshot: func() {
			pixels, w, h := a.renderer.ReadPixels()
			path, err := shots.CaptureFromPixels(pixels, w, h)
			if err != nil {
				logger.Warn("screenshot failed", zap.Error(err))
				return
			}
			logger.Info("screenshot saved", zap.String("path", path))
		},
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	win.OnEvent = a.exp.HandleInput

	a.sched = win
	if cfg.Graphics.FPSLimit > 0 {
		a.ticker = clock.NewTickerScheduler(cfg.Graphics.FPSLimit)
		a.sched = paced{limit: a.ticker, frame: win}
	}
	return a, nil
}

// paced waits for the fps limit before presenting.
type paced struct {
	limit clock.Scheduler
	frame clock.Scheduler
}

func (p paced) NextFrame(ctx context.Context) error {
	if err := p.limit.NextFrame(ctx); err != nil {
		return err
	}
	return p.frame.NextFrame(ctx)
}

func (a *app) Run(ctx context.Context) error {
	return a.exp.Run(ctx, a.sched)
}

// Close releases everything in reverse order of creation.
func (a *app) Close() {
	if a.exp != nil {
		a.exp.Close()
	}
	if a.ticker != nil {
		a.ticker.Close()
	}
	if a.ui != nil {
		a.ui.Close()
	}
	if a.world != nil {
		a.world.Close()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.win != nil {
		a.win.Close()
	}
}
