// Package renderer provides OpenGL rendering functionality.
package renderer

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/experience/internal/engine/scene"
	"github.com/Faultbox/experience/internal/engine/shader"
	"github.com/Faultbox/experience/internal/engine/shader/shaders"
	"github.com/Faultbox/experience/internal/engine/shadow"
)

// ErrShadowMap is returned by New when shadows are enabled but the shadow
// map cannot be built.
var ErrShadowMap = errors.New("shadows unavailable")

// DefaultExposure is the tone mapping exposure.
const DefaultExposure = 1.75

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	PixelRatio float64
	Exposure   float32
	Antialias  bool
	ClearColor mgl32.Vec4
	Logger     *zap.Logger

	// Shadows enables the directional light's depth pass.
	Shadows       bool
	ShadowMapSize int32
}

// Camera supplies the matrices for a render pass.
type Camera interface {
	View() mgl32.Mat4
	Projection() mgl32.Mat4
	Eye() mgl32.Vec3
}

// Renderer draws a scene through a camera into the default framebuffer.
type Renderer struct {
	config Config
	log    *zap.Logger

	shadowMap *shadow.Map
	depth     *shader.Program
	shadowCam shadow.Camera
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	if cfg.Exposure == 0 {
		cfg.Exposure = DefaultExposure
	}
	if cfg.PixelRatio <= 0 {
		cfg.PixelRatio = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	r := &Renderer{config: cfg, log: cfg.Logger}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	if cfg.Antialias {
		gl.Enable(gl.MULTISAMPLE)
	}
	if cfg.Shadows {
		if err := r.initShadows(); err != nil {
			return nil, err
		}
	}
	r.applyViewport()
	return r, nil
}

func (r *Renderer) initShadows() error {
	depth, err := shader.NewProgram(shaders.DepthVertexShader, shaders.DepthFragmentShader)
	if err != nil {
		return fmt.Errorf("depth program: %w", err)
	}
	sm, err := shadow.NewMap(r.config.ShadowMapSize)
	if err != nil {
		depth.Delete()
		return fmt.Errorf("%w: %w", ErrShadowMap, err)
	}
	r.depth = depth
	r.shadowMap = sm
	r.shadowCam = shadow.DefaultCamera()
	r.log.Info("shadows enabled", zap.Int32("resolution", sm.Size()))
	return nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	if r.shadowMap != nil {
		r.shadowMap.Delete()
		r.shadowMap = nil
	}
	if r.depth != nil {
		r.depth.Delete()
		r.depth = nil
	}
	r.log.Info("closing renderer")
}

// Exposure returns the tone mapping exposure.
func (r *Renderer) Exposure() float32 { return r.config.Exposure }

// SetExposure changes the tone mapping exposure.
func (r *Renderer) SetExposure(e float32) { r.config.Exposure = e }

// SetSize sets the output size in points.
func (r *Renderer) SetSize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	r.applyViewport()
}

// SetPixelRatio sets the points-to-pixels scale.
func (r *Renderer) SetPixelRatio(ratio float64) {
	if ratio <= 0 {
		ratio = 1
	}
	r.config.PixelRatio = ratio
	r.applyViewport()
}

// Resize applies a new surface size and pixel ratio.
func (r *Renderer) Resize(width, height int, pixelRatio float64) {
	r.config.Width = width
	r.config.Height = height
	if pixelRatio > 0 {
		r.config.PixelRatio = pixelRatio
	}
	r.applyViewport()
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Float64("pixel_ratio", r.config.PixelRatio),
	)
}

// DrawableSize returns the framebuffer size in pixels.
func (r *Renderer) DrawableSize() (int32, int32) {
	return drawableSize(r.config.Width, r.config.Height, r.config.PixelRatio)
}

func drawableSize(width, height int, ratio float64) (int32, int32) {
	w := int32(float64(width) * ratio)
	h := int32(float64(height) * ratio)
	return max(w, 1), max(h, 1)
}

func (r *Renderer) applyViewport() {
	w, h := r.DrawableSize()
	gl.Viewport(0, 0, w, h)
}

// Render clears the framebuffer and draws every object in s. With shadows
// on, casters are first drawn into the light's depth map.
func (r *Renderer) Render(s *scene.Scene, cam Camera) {
	var lightSpace mgl32.Mat4
	shadowed := r.shadowMap != nil && s.Light.CastShadow
	if shadowed {
		lightSpace = r.renderShadows(s)
	}

	bg := r.config.ClearColor
	if bg == (mgl32.Vec4{}) {
		bg = s.Background
	}
	gl.ClearColor(bg[0], bg[1], bg[2], bg[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	ctx := s.Context(cam.View(), cam.Projection(), cam.Eye(), r.config.Exposure)
	if shadowed {
		ctx.ShadowMap = r.shadowMap.Texture()
		ctx.LightSpace = lightSpace
	}
	s.Traverse(func(d scene.Drawable) {
		d.Draw(ctx)
	})
}

func (r *Renderer) renderShadows(s *scene.Scene) mgl32.Mat4 {
	lightSpace := shadow.LightMatrix(s.Light.Position, mgl32.Vec3{}, r.shadowCam)

	setModel := func(m mgl32.Mat4) { r.depth.SetMat4("uModel", m) }
	r.shadowMap.Render(func() {
		r.depth.Use()
		r.depth.SetMat4("uLightSpace", lightSpace)
		s.Traverse(func(d scene.Drawable) {
			if c, ok := d.(scene.Caster); ok {
				c.DrawDepth(setModel)
			}
		})
	})
	return lightSpace
}

// ReadPixels returns the framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.DrawableSize()
	buf := make([]byte, int(w)*int(h)*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, w, h, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(buf))
	return buf, int(w), int(h)
}
