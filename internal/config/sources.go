package config

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/Faultbox/experience/internal/engine/resources"
)

// ManifestPath resolves the manifest against the base directory.
func (r ResourcesConfig) ManifestPath() string {
	if r.Manifest == "" || filepath.IsAbs(r.Manifest) || r.BaseDir == "" {
		return r.Manifest
	}
	return filepath.Join(r.BaseDir, r.Manifest)
}

// LoadSources returns the manifest entries followed by the inline sources.
// A missing manifest file is not an error; the inline list is used alone.
func (r ResourcesConfig) LoadSources() ([]resources.Source, error) {
	var sources []resources.Source
	if path := r.ManifestPath(); path != "" {
		fromFile, err := resources.LoadManifest(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			sources = append(sources, fromFile...)
		}
	}
	return append(sources, r.Sources...), nil
}
