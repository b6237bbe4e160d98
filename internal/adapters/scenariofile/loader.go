// Package scenariofile reads hand-written scenarios from YAML or TOML.
package scenariofile

import (
	"bytes"
	"errors"
	"fmt"
	"logistics-sim/internal/domain"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("scenario file %s: unsupported extension", path)
}

// Load reads a scenario file.
func Load(path string) (*domain.ScenarioSpec, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	spec, err := Parse(raw, format)
	if err != nil {
		return nil, fmt.Errorf("scenario file %s: %w", path, err)
	}
	if spec.Name == "" {
		spec.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return spec, nil
}

// Parse decodes a scenario. Unknown keys are rejected so that typos do not
// silently drop entities.
func Parse(raw []byte, format Format) (*domain.ScenarioSpec, error) {
	var spec domain.ScenarioSpec

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(&spec); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case FormatTOML:
		md, err := toml.Decode(string(raw), &spec)
		if err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			return nil, fmt.Errorf("parse toml: unknown key %s", keys[0])
		}
	default:
		return nil, fmt.Errorf("unknown scenario format %q", format)
	}

	if err := validate(&spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

func validate(spec *domain.ScenarioSpec) error {
	if len(spec.Nodes) == 0 && len(spec.Edges) == 0 {
		return errors.New("scenario has no nodes")
	}
	if len(spec.Trucks) > 0 && len(spec.Garages) == 0 {
		return errors.New("scenario has trucks but no garages")
	}
	if len(spec.Packages) > 0 && len(spec.Trucks) == 0 {
		return errors.New("scenario has packages but no trucks")
	}

	ids := make(map[int]bool, len(spec.Packages))
	for _, p := range spec.Packages {
		if ids[p.ID] {
			return fmt.Errorf("duplicate package id %d", p.ID)
		}
		ids[p.ID] = true
	}
	return nil
}
