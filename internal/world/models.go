package world

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/experience/internal/engine/model"
	"github.com/Faultbox/experience/internal/engine/resources"
	"github.com/Faultbox/experience/internal/engine/scene"
	"github.com/Faultbox/experience/internal/events"
)

type deleter interface {
	Delete()
}

// Models adds every loaded model source to the scene once resources are
// ready.
type Models struct {
	scene  *scene.Scene
	assets *resources.Loader
	gpu    GPU
	log    *zap.Logger

	Added map[string]scene.Drawable
}

// NewModels subscribes to "ready".
func NewModels(s *scene.Scene, assets *resources.Loader, gpu GPU, log *zap.Logger) *Models {
	m := &Models{scene: s, assets: assets, gpu: gpu, log: log, Added: make(map[string]scene.Drawable)}
	assets.Once(events.EventReady, func(...any) { m.apply() })
	return m
}

func (m *Models) apply() {
	for _, src := range m.assets.Sources() {
		if src.Type != resources.TypeModel {
			continue
		}
		asset, ok := m.assets.Get(src.Name)
		if !ok {
			continue
		}
		mdl, ok := asset.(*model.Model)
		if !ok {
			m.log.Warn("model source holds unexpected asset",
				zap.String("name", src.Name), zap.String("type", typeName(asset)))
			continue
		}
		d := m.gpu.BuildModel(mdl)
		if d == nil {
			m.log.Warn("model upload failed", zap.String("name", src.Name))
			continue
		}
		m.scene.Add(d)
		m.Added[src.Name] = d
		m.log.Debug("model added", zap.String("name", src.Name), zap.Int("primitives", len(mdl.Primitives)))
	}
}

// Close removes the models from the scene and releases them.
func (m *Models) Close() {
	for name, d := range m.Added {
		m.scene.Remove(d)
		if del, ok := d.(deleter); ok {
			del.Delete()
		}
		delete(m.Added, name)
	}
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
