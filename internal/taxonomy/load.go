package taxonomy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type taxonomyFile struct {
	Fallback   string     `yaml:"fallback"`
	Categories []Category `yaml:"categories"`
}

// LoadFile reads a user taxonomy from a YAML file. An empty fallback falls
// back to the built-in one.
func LoadFile(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy file: %w", err)
	}
	var tf taxonomyFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parse taxonomy file %s: %w", path, err)
	}
	if tf.Fallback == "" {
		tf.Fallback = DefaultFallback
	}
	t, err := New(tf.Categories, tf.Fallback)
	if err != nil {
		return nil, fmt.Errorf("taxonomy file %s: %w", path, err)
	}
	return t, nil
}
