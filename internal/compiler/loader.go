package compiler

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Parse decodes and validates a YAML definition.
// Unknown keys are rejected so typos surface before the server starts.
func Parse(data []byte) (*Definition, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse definition: %w", err)
	}

	var def Definition
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &def,
		TagName:     "json",
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode definition: %w", err)
	}

	if err := validate.Struct(def); err != nil {
		return nil, fmt.Errorf("invalid definition %q: %w", def.Controller, err)
	}
	return &def, nil
}

// Load reads and parses a definition file.
func Load(fsys afero.Fs, path string) (*Definition, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition %s: %w", path, err)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// LoadAll reads every path in order and rejects duplicate controller names.
func LoadAll(fsys afero.Fs, paths []string) ([]*Definition, error) {
	seen := make(map[string]string, len(paths))
	defs := make([]*Definition, 0, len(paths))
	for _, p := range paths {
		def, err := Load(fsys, p)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[def.Controller]; ok {
			return nil, fmt.Errorf("controller %q defined in both %s and %s", def.Controller, prev, p)
		}
		seen[def.Controller] = p
		defs = append(defs, def)
	}
	return defs, nil
}
