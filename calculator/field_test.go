package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipefield/model"
)

func sourceAt(id int, x, z, temperature float64) model.Pipe {
	return model.Pipe{
		ID:               id,
		Role:             model.RoleHeatSource,
		Orientation:      model.OrientationParallel,
		X:                x,
		Z:                z,
		Temperature:      floatPtr(temperature),
		OuterDiameter:    0.1,
		WallThickness:    0.005,
		ConductivityPipe: 50,
	}
}

func affectedAt(id int, x, z float64) model.Pipe {
	return model.Pipe{
		ID:               id,
		Role:             model.RoleAffected,
		Orientation:      model.OrientationParallel,
		X:                x,
		Z:                z,
		OuterDiameter:    0.1,
		WallThickness:    0.005,
		ConductivityPipe: 50,
	}
}

func solvedEvaluator(t *testing.T, pipes []model.Pipe) (*Evaluator, []model.SourceResult) {
	t.Helper()
	results, err := SolveSources(pipes, singleLayer(), 15)
	require.NoError(t, err)
	return NewEvaluator(pipes, results, singleLayer(), 15), results
}

func TestEvaluateAboveGround(t *testing.T) {
	pipes := []model.Pipe{sourceAt(1, 0, 1.5, 200)}
	eval, _ := solvedEvaluator(t, pipes)
	// above the adiabatic boundary the ambient always answers
	assert.Equal(t, 15.0, eval.EvaluateAt(0, 0, -0.1))
	assert.Equal(t, 15.0, eval.EvaluateAt(123, -4, -2))
}

func TestEvaluateInsidePipe(t *testing.T) {
	pipes := []model.Pipe{sourceAt(1, 0, 1.5, 200)}
	eval, _ := solvedEvaluator(t, pipes)
	assert.Equal(t, 200.0, eval.EvaluateAt(0.01, 0, 1.51))
}

func TestEvaluateInsideBeddingAnnulus(t *testing.T) {
	p := sourceAt(1, 0, 1.5, 200)
	p.BeddingThickness = 0.1
	p.ConductivityBedding = 1.1
	pipes := []model.Pipe{p}
	eval, results := solvedEvaluator(t, pipes)

	// inside the bedding annulus the analytic surface temperature applies
	got := eval.EvaluateAt(0.1, 0, 1.5)
	want := 15 + results[0].Q*results[0].RSoil
	assert.InDelta(t, want, got, 1e-9)
}

func TestEvaluatePointRise(t *testing.T) {
	pipes := []model.Pipe{sourceAt(1, 0, 1.5, 200)}
	eval, results := solvedEvaluator(t, pipes)

	q := results[0].Q
	dReal := math.Hypot(1.0, 0.5)
	dImage := math.Hypot(1.0, 3.5)
	want := 15 + q/(2*math.Pi*1.5)*math.Log(dImage/dReal)
	assert.InDelta(t, want, eval.EvaluateAt(1.0, 0, 2.0), 1e-9)
}

func TestSuperpositionLinearity(t *testing.T) {
	s1 := sourceAt(1, 0, 1.5, 200)
	s2 := sourceAt(2, 2, 2.0, 150)
	target := affectedAt(3, 1, 1.8)
	pipes := []model.Pipe{s1, s2, target}

	results, err := SolveSources(pipes, singleLayer(), 15)
	require.NoError(t, err)

	both := NewEvaluator(pipes, results, singleLayer(), 15).EvaluateAtPipe(target)

	only := func(keep int) model.AffectedResult {
		muted := make([]model.SourceResult, len(results))
		copy(muted, results)
		for i := range muted {
			if muted[i].PipeID != keep {
				muted[i].Q = 0
			}
		}
		return NewEvaluator(pipes, muted, singleLayer(), 15).EvaluateAtPipe(target)
	}

	assert.InDelta(t, only(1).TotalRise+only(2).TotalRise, both.TotalRise, 1e-9)
}

func TestMirrorSymmetry(t *testing.T) {
	left, _ := solvedEvaluator(t, []model.Pipe{sourceAt(1, -1, 1.5, 200), affectedAt(2, -2, 1.5)})
	right, _ := solvedEvaluator(t, []model.Pipe{sourceAt(1, 1, 1.5, 200), affectedAt(2, 2, 1.5)})

	a := left.EvaluateAtPipe(affectedAt(2, -2, 1.5))
	b := right.EvaluateAtPipe(affectedAt(2, 2, 1.5))
	assert.InDelta(t, a.Temperature, b.Temperature, 1e-9)

	// the whole field mirrors with the sources
	assert.InDelta(t, left.EvaluateAt(-0.5, 0, 2.0), right.EvaluateAt(0.5, 0, 2.0), 1e-9)
}

func TestSelfExclusion(t *testing.T) {
	src := sourceAt(1, 0, 1.5, 200)
	eval, _ := solvedEvaluator(t, []model.Pipe{src})

	r := eval.EvaluateAtPipe(src)
	assert.Empty(t, r.Interactions)
	assert.Zero(t, r.TotalRise)
	assert.Equal(t, 15.0, r.Temperature)
}

func TestMixedOrientationInteraction(t *testing.T) {
	src := sourceAt(1, 0, 1.5, 200)
	target := affectedAt(2, 5, 2.0)
	target.Y = 5
	target.Orientation = model.OrientationPerpendicular
	pipes := []model.Pipe{src, target}

	eval, results := solvedEvaluator(t, pipes)
	r := eval.EvaluateAtPipe(target)
	require.Len(t, r.Interactions, 1)
	in := r.Interactions[0]

	// crossing pipes reduce to pure vertical separation
	assert.InDelta(t, 0.5, in.RealDistance, 1e-12)
	assert.InDelta(t, 3.5, in.ImageDistance, 1e-12)
	want := results[0].Q / (2 * math.Pi * 1.5) * math.Log(3.5/0.5)
	assert.InDelta(t, want, in.TemperatureRise, 1e-9)
}

func TestInteractionClampsRealDistance(t *testing.T) {
	src := sourceAt(1, 0, 1.5, 200)
	// affected centerline closer than the source's footprint radius
	target := affectedAt(2, 0.01, 1.5)
	eval, _ := solvedEvaluator(t, []model.Pipe{src, target})

	r := eval.EvaluateAtPipe(target)
	require.Len(t, r.Interactions, 1)
	assert.Equal(t, src.TotalOuterRadius(), r.Interactions[0].RealDistance)
	assert.False(t, math.IsNaN(r.Interactions[0].TemperatureRise))
	assert.False(t, math.IsInf(r.Interactions[0].TemperatureRise, 0))
}

func TestBuildAffected(t *testing.T) {
	src := sourceAt(1, 0, 1.5, 200)
	target := affectedAt(2, 1.5, 1.5)
	pipes := []model.Pipe{src, target}
	eval, _ := solvedEvaluator(t, pipes)

	results := eval.BuildAffected(pipes)
	require.Len(t, results, 2)
	// a heat source keeps its fixed input temperature
	assert.Equal(t, 200.0, results[0].Temperature)
	assert.Empty(t, results[0].Interactions)
	// the affected pipe warms above ambient
	assert.Greater(t, results[1].Temperature, 15.0)
	assert.Less(t, results[1].Temperature, 200.0)
}
