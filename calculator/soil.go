package calculator

import (
	"math"

	log "github.com/sirupsen/logrus"

	"pipefield/model"
)

// coincidenceEps is the 2D distance below which two path endpoints are
// treated as the same point.
const coincidenceEps = 1e-6

// SoilModel answers conductivity queries against an ordered, contiguous layer
// stack. It is rebuilt fresh from the input layers on every calculation.
type SoilModel struct {
	layers   []model.SoilLayer
	fallback float64
}

// NewSoilModel stacks the layers from the ground surface down, accumulating
// thickness into the depth ranges. An empty layer list is allowed for direct
// engine use but answers every query with the fallback conductivity.
func NewSoilModel(layers []model.SoilLayer) *SoilModel {
	stack := make([]model.SoilLayer, 0, len(layers))
	depth := 0.0
	for _, l := range layers {
		l.DepthTop = depth
		depth += l.Thickness
		l.DepthBottom = depth
		stack = append(stack, l)
	}
	if len(stack) == 0 {
		log.Warn("soil model built without layers, falling back to k = ", calCfg.FallbackConductivity)
	}
	return &SoilModel{
		layers:   stack,
		fallback: calCfg.FallbackConductivity,
	}
}

// Layers returns the stacked layers with resolved depth ranges.
func (s *SoilModel) Layers() []model.SoilLayer {
	return s.layers
}

// ConductivityAtDepth returns the conductivity of the layer containing z.
// Below the deepest layer the soil is assumed to continue at the deepest
// defined conductivity; above the first layer (z < 0) the first layer answers.
func (s *SoilModel) ConductivityAtDepth(z float64) float64 {
	if len(s.layers) == 0 {
		return s.fallback
	}
	for _, l := range s.layers {
		if z >= l.DepthTop && z < l.DepthBottom {
			return l.Conductivity
		}
	}
	last := s.layers[len(s.layers)-1]
	if z >= last.DepthBottom {
		return last.Conductivity
	}
	return s.layers[0].Conductivity
}

// EffectiveConductivityForPipe averages the conductivity of every layer whose
// depth range intersects the pipe's bedding-inclusive radius band around its
// centerline depth.
func (s *SoilModel) EffectiveConductivityForPipe(p model.Pipe) float64 {
	if len(s.layers) == 0 {
		return s.fallback
	}
	top := p.Z - p.TotalOuterRadius()
	bottom := p.Z + p.TotalOuterRadius()

	sum := 0.0
	n := 0
	for _, l := range s.layers {
		if l.DepthBottom > top && l.DepthTop < bottom {
			sum += l.Conductivity
			n++
		}
	}
	if n == 0 {
		return s.layers[0].Conductivity
	}
	return sum / float64(n)
}

// EffectiveConductivityAlongPath approximates the harmonic-mean conductivity
// along the straight 2D line between (h1, z1) and (h2, z2), h being the
// horizontal offset in the cross-section plane. The segment is discretized
// into a fixed number of sub-segments treated as series resistances.
func (s *SoilModel) EffectiveConductivityAlongPath(h1, z1, h2, z2 float64) float64 {
	length := math.Hypot(h2-h1, z2-z1)
	if length < coincidenceEps {
		return s.ConductivityAtDepth(z1)
	}

	segments := calCfg.PathSegments
	segLen := length / float64(segments)
	resistance := 0.0
	for i := 0; i < segments; i++ {
		// conductivity sampled at the sub-segment midpoint depth
		frac := (float64(i) + 0.5) / float64(segments)
		k := s.ConductivityAtDepth(z1 + (z2-z1)*frac)
		if k > 0 {
			resistance += segLen / k
		}
	}
	if resistance == 0 {
		// conductivity was zero everywhere along the path, a configuration
		// error absorbed with the fallback rather than dividing by zero
		return s.fallback
	}
	return length / resistance
}
