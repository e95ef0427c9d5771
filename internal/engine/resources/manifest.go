package resources

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the on-disk list of sources.
type Manifest struct {
	Sources []Source `yaml:"sources"`
}

// LoadManifest reads a YAML manifest file.
func LoadManifest(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	sources, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return sources, nil
}

// ParseManifest decodes YAML manifest data. Entry-level problems such as
// unknown types are left for Validate.
func ParseManifest(data []byte) ([]Source, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m.Sources, nil
}
