package world

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/experience/internal/engine/resources"
	"github.com/Faultbox/experience/internal/engine/scene"
	"github.com/Faultbox/experience/internal/engine/texture"
)

// Environment sets the key light and, once its source loads, the HDR
// environment map. Without a usable map the scene keeps its default
// ambient lighting.
type Environment struct {
	scene *scene.Scene
	gpu   GPU
	name  string
	log   *zap.Logger

	Texture *texture.Texture
}

// NewEnvironment configures the light and watches the environment source.
// name empty picks the first hdrEnvironment source.
func NewEnvironment(s *scene.Scene, assets *resources.Loader, gpu GPU, name string, log *zap.Logger) *Environment {
	e := &Environment{
		scene: s,
		gpu:   gpu,
		name:  firstSource(assets, name, resources.TypeHDREnvironment),
		log:   log,
	}

	s.Light = scene.DirectionalLight{
		Position:   mgl32.Vec3{3, 3, -2},
		Color:      mgl32.Vec3{1, 1, 1},
		Intensity:  1,
		CastShadow: true,
		NormalBias: 0.05,
	}

	watchSource(assets, e.name, e.apply)
	return e
}

func (e *Environment) apply(asset resources.Asset, loaded bool) {
	if e.name == "" {
		e.log.Warn("no environment map source, using default lighting")
		return
	}
	if !loaded {
		e.log.Warn("environment map not loaded, using default lighting", zap.String("name", e.name))
		return
	}
	img, ok := asset.(*texture.HDRImage)
	if !ok {
		e.log.Warn("environment source is not an HDR image, using default lighting",
			zap.String("name", e.name), zap.String("type", typeName(asset)))
		return
	}

	tex := e.gpu.UploadHDR(img)
	if tex == nil {
		e.log.Warn("environment upload failed, using default lighting", zap.String("name", e.name))
		return
	}
	tex.Mapping = texture.MappingEquirectangular
	e.Texture = tex
	e.scene.SetEnvironment(tex)
	e.log.Info("environment map applied",
		zap.String("name", e.name),
		zap.Int("width", img.Width),
		zap.Int("height", img.Height),
	)
}

// Close releases the environment texture.
func (e *Environment) Close() {
	if e.Texture != nil {
		e.scene.SetEnvironment(nil)
		e.Texture.Delete()
		e.Texture = nil
	}
}
