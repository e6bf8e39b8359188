package calculator

import (
	"errors"
	"fmt"

	"pipefield/model"
)

// Configuration and geometry errors. These reject a calculation before any
// solve runs; numeric degeneracies inside a solve never surface as errors.
var (
	ErrMissingTemperature      = errors.New("heat source pipe has no temperature")
	ErrPipeTooShallow          = errors.New("pipe depth does not exceed its total outer radius")
	ErrNoSoilLayers            = errors.New("no soil layers defined")
	ErrNonPositiveThickness    = errors.New("layer thickness must be positive")
	ErrNonPositiveConductivity = errors.New("layer conductivity must be positive")
	ErrNonPositiveDiameter     = errors.New("pipe outer diameter must be positive")
)

// ValidateScenario checks every pipe and layer record before a solve.
// It returns the first violation found.
func ValidateScenario(pipes []model.Pipe, layers []model.SoilLayer) error {
	if len(layers) == 0 {
		return ErrNoSoilLayers
	}
	for i, l := range layers {
		if l.Thickness <= 0 {
			return fmt.Errorf("soil layer %d: %w", i, ErrNonPositiveThickness)
		}
		if l.Conductivity <= 0 {
			return fmt.Errorf("soil layer %d: %w", i, ErrNonPositiveConductivity)
		}
	}
	for _, p := range pipes {
		if err := validatePipe(p); err != nil {
			return err
		}
	}
	return nil
}

func validatePipe(p model.Pipe) error {
	if p.OuterDiameter <= 0 {
		return fmt.Errorf("pipe %d (%s): %w", p.ID, p.Name, ErrNonPositiveDiameter)
	}
	if p.IsHeatSource() && p.Temperature == nil {
		return fmt.Errorf("pipe %d (%s): %w", p.ID, p.Name, ErrMissingTemperature)
	}
	if p.Z <= p.TotalOuterRadius() {
		return fmt.Errorf("pipe %d (%s): depth %.3f m, outer radius %.3f m: %w",
			p.ID, p.Name, p.Z, p.TotalOuterRadius(), ErrPipeTooShallow)
	}
	return nil
}
