// Package resources loads a declarative set of named assets and announces
// when all of them are available.
package resources

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Type selects the decoder used for a source.
type Type int

const (
	TypeInvalid Type = iota
	TypeModel
	TypeTexture
	TypeHDREnvironment
)

// Source validation errors.
var (
	ErrUnknownType   = errors.New("unknown source type")
	ErrDuplicateName = errors.New("duplicate source name")
	ErrEmptyName     = errors.New("empty source name")
	ErrEmptyPath     = errors.New("empty source path")
	ErrNoDecoder     = errors.New("no decoder for source type")
)

var typeNames = map[Type]string{
	TypeModel:          "model",
	TypeTexture:        "texture",
	TypeHDREnvironment: "hdrEnvironment",
}

// Manifest spellings accepted in addition to the canonical names.
var typeAliases = map[string]Type{
	"model":          TypeModel,
	"gltfmodel":      TypeModel,
	"gltf":           TypeModel,
	"texture":        TypeTexture,
	"hdrenvironment": TypeHDREnvironment,
	"hdri_texture":   TypeHDREnvironment,
	"hdr":            TypeHDREnvironment,
}

// ParseType converts a manifest type name, case-insensitively.
func ParseType(s string) (Type, error) {
	if t, ok := typeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t, nil
	}
	return TypeInvalid, fmt.Errorf("%w %q", ErrUnknownType, s)
}

// String returns the canonical name.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Valid reports whether t is a known type.
func (t Type) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

// MarshalYAML writes the canonical name.
func (t Type) MarshalYAML() (any, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w %d", ErrUnknownType, int(t))
	}
	return t.String(), nil
}

// UnmarshalYAML accepts any spelling known to ParseType. Unknown names decode
// to TypeInvalid without error so validation can report every bad entry.
func (t *Type) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseType(s)
	if err != nil {
		*t = TypeInvalid
		return nil
	}
	*t = parsed
	return nil
}

// Source describes one asset to load.
type Source struct {
	Name string `yaml:"name"`
	Type Type   `yaml:"type"`
	Path string `yaml:"path"`
}

func (s Source) String() string {
	return fmt.Sprintf("%s(%s:%s)", s.Name, s.Type, s.Path)
}

// Validate checks every source and returns all problems combined.
func Validate(sources []Source) error {
	_, err := partition(sources)
	return err
}

// partition returns the loadable sources in input order together with the
// combined error for the rejected ones. For duplicate names the first entry wins.
func partition(sources []Source) ([]Source, error) {
	var errs error
	seen := make(map[string]bool, len(sources))
	valid := make([]Source, 0, len(sources))

	for i, src := range sources {
		var bad error
		switch {
		case src.Name == "":
			bad = fmt.Errorf("source %d: %w", i, ErrEmptyName)
		case !src.Type.Valid():
			bad = fmt.Errorf("source %q: %w", src.Name, ErrUnknownType)
		case src.Path == "":
			bad = fmt.Errorf("source %q: %w", src.Name, ErrEmptyPath)
		case seen[src.Name]:
			bad = fmt.Errorf("source %q: %w", src.Name, ErrDuplicateName)
		}
		if bad != nil {
			errs = multierr.Append(errs, bad)
			continue
		}
		seen[src.Name] = true
		valid = append(valid, src)
	}
	return valid, errs
}

// SourceError reports a failed load.
type SourceError struct {
	Source Source
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("loading %s %q from %s: %v", e.Source.Type, e.Source.Name, e.Source.Path, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }
