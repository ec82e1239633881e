package rubric

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML rubric and validates it.
func LoadFile(path string) (Rubric, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Rubric{}, fmt.Errorf("rubric: read %s: %w", path, err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (Rubric, error) {
	var r Rubric
	if err := yaml.Unmarshal(raw, &r); err != nil {
		return Rubric{}, fmt.Errorf("rubric: parse yaml: %w", err)
	}
	if err := r.Validate(); err != nil {
		return Rubric{}, err
	}
	return r.clone(), nil
}
