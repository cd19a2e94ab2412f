// Package descriptor loads layer-type descriptors from YAML files.
package descriptor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/GiovanniAiello/deck.gl/pkg/layer"
)

// file is the on-disk YAML shape of a layer-type descriptor. Custom
// comparators cannot be declared in YAML; register those in code.
type file struct {
	Name          string              `yaml:"name"`
	DefaultProps  map[string]any      `yaml:"defaultProps"`
	Rules         map[string]string   `yaml:"rules"`
	Accessors     map[string][]string `yaml:"accessors"`
	AttributeDeps map[string][]string `yaml:"attributeDeps"`
}

// Parse builds a descriptor from YAML bytes.
func Parse(data []byte) (*layer.Descriptor, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing descriptor: %w", err)
	}

	rules := make(map[string]layer.Rule, len(f.Rules))
	for key, kind := range f.Rules {
		switch kind {
		case "shallow":
			rules[key] = layer.Rule{Kind: layer.RuleShallow}
		case "always":
			rules[key] = layer.Rule{Kind: layer.RuleAlways}
		default:
			return nil, fmt.Errorf("prop %q: unknown rule kind %q", key, kind)
		}
	}

	d := &layer.Descriptor{
		Name:               f.Name,
		DefaultProps:       layer.Props(f.DefaultProps),
		Rules:              rules,
		AccessorAttributes: f.Accessors,
		AttributePropDeps:  f.AttributeDeps,
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Load reads and parses a descriptor file.
func Load(path string) (*layer.Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading descriptor: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// LoadDir loads every .yaml/.yml descriptor in a directory, keyed by
// type name. A missing directory yields an empty map so a fresh data
// dir starts clean.
func LoadDir(dir string) (map[string]*layer.Descriptor, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]*layer.Descriptor{}, nil
		}
		return nil, fmt.Errorf("reading descriptor dir: %w", err)
	}

	out := make(map[string]*layer.Descriptor)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		d, err := Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if _, exists := out[d.Name]; exists {
			return nil, fmt.Errorf("duplicate descriptor name %q", d.Name)
		}
		out[d.Name] = d
	}
	return out, nil
}
