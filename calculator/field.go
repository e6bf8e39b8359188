package calculator

import (
	"math"

	"pipefield/model"
)

// sourceState is a heat source with its solved flux, frozen for the lifetime
// of one Evaluator.
type sourceState struct {
	pipe  model.Pipe
	q     float64
	rSoil float64
}

// Evaluator computes temperatures by method-of-images superposition: soil
// temperature plus the summed rise contributed by every solved heat source.
// It is purely functional over its inputs; one instance may be shared across
// goroutines.
type Evaluator struct {
	sources         []sourceState
	soil            *SoilModel
	soilTemperature float64
}

// NewEvaluator pairs the pipes with their solved source results. Pipes
// without a matching result (affected pipes) carry no source term.
func NewEvaluator(pipes []model.Pipe, results []model.SourceResult, layers []model.SoilLayer, soilTemperature float64) *Evaluator {
	byID := make(map[int]model.SourceResult, len(results))
	for _, r := range results {
		byID[r.PipeID] = r
	}

	e := &Evaluator{
		soil:            NewSoilModel(layers),
		soilTemperature: soilTemperature,
	}
	for _, p := range pipes {
		r, ok := byID[p.ID]
		if !ok || !p.IsHeatSource() {
			continue
		}
		e.sources = append(e.sources, sourceState{pipe: p, q: r.Q, rSoil: r.RSoil})
	}
	return e
}

func (e *Evaluator) SoilTemperature() float64 {
	return e.soilTemperature
}

// crossCoordinate is the horizontal coordinate of a point in the given
// pipe orientation's cross-section plane.
func crossCoordinate(o model.Orientation, x, y float64) float64 {
	if o == model.OrientationPerpendicular {
		return y
	}
	return x
}

// EvaluateAt returns the temperature at an arbitrary point. Above ground the
// model has no meaning and the ambient soil temperature is returned directly.
func (e *Evaluator) EvaluateAt(x, y, z float64) float64 {
	if z < 0 {
		return e.soilTemperature
	}

	// a point inside a source's own footprint cannot be evaluated by the
	// far-field formula: inside the bare pipe it is at pipe temperature,
	// inside the annulus it sits at the analytic surface temperature
	for _, s := range e.sources {
		dh := crossCoordinate(s.pipe.Orientation, x, y) - crossCoordinate(s.pipe.Orientation, s.pipe.X, s.pipe.Y)
		dist := math.Hypot(dh, z-s.pipe.Z)
		if dist < s.pipe.OuterRadius() {
			return *s.pipe.Temperature
		}
		if dist < s.pipe.TotalOuterRadius() {
			return e.soilTemperature + s.q*s.rSoil
		}
	}

	total := e.soilTemperature
	for _, s := range e.sources {
		h := crossCoordinate(s.pipe.Orientation, x, y)
		hs := crossCoordinate(s.pipe.Orientation, s.pipe.X, s.pipe.Y)
		dReal := math.Hypot(h-hs, z-s.pipe.Z)
		dImage := math.Hypot(h-hs, z+s.pipe.Z)
		k := e.soil.EffectiveConductivityAlongPath(h, z, hs, s.pipe.Z)
		total += rise(s.q, k, dReal, dImage, s.pipe.TotalOuterRadius())
	}
	return total
}

// EvaluateAtPipe computes the temperature at a pipe's centerline with the
// per-source interaction breakdown. The pipe's own term is always excluded.
func (e *Evaluator) EvaluateAtPipe(target model.Pipe) model.AffectedResult {
	result := model.AffectedResult{PipeID: target.ID}
	for _, s := range e.sources {
		if s.pipe.ID == target.ID {
			continue
		}

		var dReal, dImage, k float64
		if s.pipe.Orientation == target.Orientation {
			// both cross-sections line up, full 2D centerline distance
			dh := crossCoordinate(s.pipe.Orientation, target.X, target.Y) -
				crossCoordinate(s.pipe.Orientation, s.pipe.X, s.pipe.Y)
			dReal = math.Hypot(dh, target.Z-s.pipe.Z)
			dImage = math.Hypot(dh, target.Z+s.pipe.Z)
			k = e.soil.EffectiveConductivityAlongPath(
				crossCoordinate(s.pipe.Orientation, target.X, target.Y), target.Z,
				crossCoordinate(s.pipe.Orientation, s.pipe.X, s.pipe.Y), s.pipe.Z)
		} else {
			// crossing pipes: point-of-closest-approach approximation,
			// distances collapse to the vertical separation
			dReal = math.Abs(target.Z - s.pipe.Z)
			dImage = target.Z + s.pipe.Z
			k = e.soil.ConductivityAtDepth(target.Z)
		}

		clamped := math.Max(dReal, s.pipe.TotalOuterRadius())
		result.Interactions = append(result.Interactions, model.InteractionResult{
			SourcePipeID:     s.pipe.ID,
			PathConductivity: k,
			RealDistance:     clamped,
			ImageDistance:    dImage,
			TemperatureRise:  rise(s.q, k, dReal, dImage, s.pipe.TotalOuterRadius()),
		})
	}

	for _, in := range result.Interactions {
		result.TotalRise += in.TemperatureRise
	}
	result.Temperature = e.soilTemperature + result.TotalRise
	return result
}

// rise is the single-source method-of-images temperature rise,
// Q/(2πk)·ln(dImage/dReal). dReal is clamped to the source's footprint
// radius; degenerate inputs and non-finite results contribute nothing.
func rise(q, k, dReal, dImage, minReal float64) float64 {
	dReal = math.Max(dReal, minReal)
	if k <= 0 || dImage <= dReal {
		return 0
	}
	dt := q / (2 * math.Pi * k) * math.Log(dImage/dReal)
	if math.IsNaN(dt) || math.IsInf(dt, 0) {
		return 0
	}
	return dt
}
