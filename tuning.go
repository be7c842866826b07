package phys2d

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning bundles the solver knobs that are safe to adjust per world. The
// defaults suit most scenes; raise the iteration counts for heavy stacks
// or stiff joint chains.
type Tuning struct {
	// VelocityIterations is the number of impulse passes over joints and
	// contacts per substep.
	VelocityIterations int `yaml:"velocity_iterations"`
	// PositionIterations is the number of penetration-correction passes
	// per substep.
	PositionIterations int `yaml:"position_iterations"`
}

// DefaultTuning returns 8 velocity / 3 position iterations.
func DefaultTuning() Tuning {
	return Tuning{
		VelocityIterations: 8,
		PositionIterations: 3,
	}
}

// Validate rejects iteration counts the solver cannot run with.
func (t Tuning) Validate() error {
	if t.VelocityIterations < 1 {
		return configErr("Tuning", "velocity_iterations must be at least 1, got %d", t.VelocityIterations)
	}
	if t.PositionIterations < 0 {
		return configErr("Tuning", "position_iterations must be non-negative, got %d", t.PositionIterations)
	}
	return nil
}

// LoadTuning reads a tuning file. A missing file yields the defaults; a
// present but invalid file is an error.
func LoadTuning(path string) (Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultTuning(), nil
		}
		return Tuning{}, fmt.Errorf("load tuning: %w", err)
	}
	t := DefaultTuning()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tuning{}, fmt.Errorf("load tuning %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, err
	}
	return t, nil
}

// SaveTuning writes the tuning as YAML.
func SaveTuning(path string, t Tuning) error {
	if err := t.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("save tuning: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
