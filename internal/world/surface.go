package world

import (
	"go.uber.org/zap"

	"github.com/Faultbox/experience/internal/engine/mesh"
	"github.com/Faultbox/experience/internal/engine/resources"
	"github.com/Faultbox/experience/internal/engine/texture"
)

// SurfaceMap uploads a flat texture source and sets it as a material's
// color map as soon as the source loads.
type SurfaceMap struct {
	material *mesh.StandardMaterial
	gpu      GPU
	name     string
	log      *zap.Logger

	Texture *texture.Texture
}

// NewSurfaceMap watches the texture source for mat. name empty picks the
// first texture source; with none the material keeps its flat color.
func NewSurfaceMap(mat *mesh.StandardMaterial, assets *resources.Loader, gpu GPU, name string, log *zap.Logger) *SurfaceMap {
	sm := &SurfaceMap{
		material: mat,
		gpu:      gpu,
		name:     firstSource(assets, name, resources.TypeTexture),
		log:      log,
	}
	if sm.name == "" {
		return sm
	}
	watchSource(assets, sm.name, sm.apply)
	return sm
}

func (sm *SurfaceMap) apply(asset resources.Asset, loaded bool) {
	if !loaded {
		sm.log.Warn("surface texture not loaded", zap.String("name", sm.name))
		return
	}
	img, ok := asset.(*texture.Image)
	if !ok {
		sm.log.Warn("surface source is not a flat image",
			zap.String("name", sm.name), zap.String("type", typeName(asset)))
		return
	}
	tex := sm.gpu.UploadTexture(img)
	if tex == nil {
		sm.log.Warn("surface texture upload failed", zap.String("name", sm.name))
		return
	}
	tex.Mapping = texture.MappingUV
	sm.Texture = tex
	sm.material.Map = tex
	sm.log.Info("surface texture applied",
		zap.String("name", sm.name),
		zap.String("format", img.Format),
		zap.Int("width", img.Width()),
		zap.Int("height", img.Height()),
	)
}

// Close detaches and releases the texture.
func (sm *SurfaceMap) Close() {
	if sm.Texture != nil {
		sm.material.Map = nil
		sm.Texture.Delete()
		sm.Texture = nil
	}
}
