package calculator

import (
	"math"

	log "github.com/sirupsen/logrus"

	"pipefield/model"
)

// cylindricalResistance is the series resistance of one cylindrical layer,
// ln(rOuter/rInner) / (2πk), K·m/W. Absent layers (rOuter == rInner) and
// non-conducting or degenerate geometry contribute zero.
func cylindricalResistance(rOuter, rInner, k float64) float64 {
	if k <= 0 || rInner <= 0 || rOuter <= rInner {
		return 0
	}
	return math.Log(rOuter/rInner) / (2 * math.Pi * k)
}

// soilResistance is the buried-cylinder resistance against the adiabatic
// ground plane, ln(2z/r) / (2πk), a single-cylinder method-of-images result.
func soilResistance(z, rOuter, kEff float64) float64 {
	if kEff <= 0 || rOuter <= 0 {
		return 0
	}
	return math.Log(2*z/rOuter) / (2 * math.Pi * kEff)
}

// SolveSources validates the scenario and computes the four series
// resistances and the linear heat flux Q of every heat-source pipe.
func SolveSources(pipes []model.Pipe, layers []model.SoilLayer, soilTemperature float64) ([]model.SourceResult, error) {
	if err := ValidateScenario(pipes, layers); err != nil {
		return nil, err
	}

	soil := NewSoilModel(layers)
	results := make([]model.SourceResult, 0, len(pipes))
	for _, p := range pipes {
		if !p.IsHeatSource() {
			continue
		}
		r := solveSource(p, soil, soilTemperature)
		log.WithFields(log.Fields{
			"pipe":   p.Name,
			"rTotal": r.RTotal,
			"q":      r.Q,
		}).Info("source solved")
		results = append(results, r)
	}
	return results, nil
}

func solveSource(p model.Pipe, soil *SoilModel, soilTemperature float64) model.SourceResult {
	rInner := p.OuterRadius() - p.WallThickness
	rOuter := p.OuterRadius()
	rInsulation := p.InsulationOuterRadius()
	rBedding := p.TotalOuterRadius()

	kEff := soil.EffectiveConductivityForPipe(p)

	result := model.SourceResult{
		PipeID:      p.ID,
		RPipe:       cylindricalResistance(rOuter, rInner, p.ConductivityPipe),
		RInsulation: cylindricalResistance(rInsulation, rOuter, p.ConductivityInsulation),
		RBedding:    cylindricalResistance(rBedding, rInsulation, p.ConductivityBedding),
		RSoil:       soilResistance(p.Z, rBedding, kEff),
	}
	result.RTotal = result.RPipe + result.RInsulation + result.RBedding + result.RSoil

	// zero flux on non-positive total resistance, the geometry is
	// ill-conditioned and an infinite flux would poison every consumer
	if result.RTotal > 0 {
		result.Q = (*p.Temperature - soilTemperature) / result.RTotal
	}
	return result
}
