package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// TetherGunSpec is the yaml tuning block for one tether weapon variant.
type TetherGunSpec struct {
	Name           string  `yaml:"name"`
	MaxDistance    float64 `yaml:"max_distance"`
	MassLimit      float64 `yaml:"mass_limit"`
	CanTetherAlive bool    `yaml:"can_tether_alive"`
	CanUnanchor    bool    `yaml:"can_unanchor"`
	Frequency      float64 `yaml:"frequency"`
	DampingRatio   float64 `yaml:"damping_ratio"`
	MaxForce       float64 `yaml:"max_force"`
	Sound          string  `yaml:"sound"`
	// Script names an optional tengo eligibility script in scripts/.
	Script string `yaml:"script"`
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// LoadTetherGunSpec reads a gun variant, e.g. "tether_gun.yaml".
func LoadTetherGunSpec(filename string) (*TetherGunSpec, error) {
	spec, err := LoadSpec[TetherGunSpec](filename)
	if err != nil {
		return nil, err
	}
	if spec.Name == "" {
		return nil, fmt.Errorf("prefabs: %s: missing name", filename)
	}
	return &spec, nil
}
