package calculator

import (
	"pipefield/model"
)

// fluxDelta is the positional offset of the central-difference gradient
// estimate, metres.
const fluxDelta = 0.01

// BuildAffected assembles the per-pipe result tree. Heat sources keep their
// own fixed input temperature; affected pipes get the full interaction
// breakdown from the evaluator.
func (e *Evaluator) BuildAffected(pipes []model.Pipe) []model.AffectedResult {
	results := make([]model.AffectedResult, 0, len(pipes))
	for _, p := range pipes {
		if p.IsHeatSource() {
			results = append(results, model.AffectedResult{
				PipeID:      p.ID,
				Temperature: *p.Temperature,
			})
			continue
		}
		results = append(results, e.EvaluateAtPipe(p))
	}
	return results
}

// BuildHeatmap samples the vertical (x, z) cross-section at the spec's y
// into a row-major matrix, rows running down the z (depth) axis. One
// evaluator call per cell, the way the canvas shader consumes it.
func (e *Evaluator) BuildHeatmap(spec model.HeatmapSpec) [][]float64 {
	nx, nz := spec.NX, spec.NZ
	if nx < 2 {
		nx = calCfg.GridResolution
	}
	if nz < 2 {
		nz = calCfg.GridResolution
	}

	stepX := (spec.MaxX - spec.MinX) / float64(nx-1)
	stepZ := (spec.MaxZ - spec.MinZ) / float64(nz-1)

	rows := make([][]float64, nz)
	for iz := 0; iz < nz; iz++ {
		row := make([]float64, nx)
		z := spec.MinZ + float64(iz)*stepZ
		for ix := 0; ix < nx; ix++ {
			row[ix] = e.EvaluateAt(spec.MinX+float64(ix)*stepX, spec.Y, z)
		}
		rows[iz] = row
	}
	return rows
}

// FluxVectors estimates the heat flux density over the cross-section by
// central differences, four evaluator calls per cell: q = -k ∇T.
func (e *Evaluator) FluxVectors(spec model.HeatmapSpec) []model.FluxVector {
	nx, nz := spec.NX, spec.NZ
	if nx < 2 {
		nx = calCfg.GridResolution
	}
	if nz < 2 {
		nz = calCfg.GridResolution
	}

	stepX := (spec.MaxX - spec.MinX) / float64(nx-1)
	stepZ := (spec.MaxZ - spec.MinZ) / float64(nz-1)

	vectors := make([]model.FluxVector, 0, nx*nz)
	for iz := 0; iz < nz; iz++ {
		z := spec.MinZ + float64(iz)*stepZ
		if z < 0 {
			continue
		}
		k := e.soil.ConductivityAtDepth(z)
		for ix := 0; ix < nx; ix++ {
			x := spec.MinX + float64(ix)*stepX
			dTdx := (e.EvaluateAt(x+fluxDelta, spec.Y, z) - e.EvaluateAt(x-fluxDelta, spec.Y, z)) / (2 * fluxDelta)
			dTdz := (e.EvaluateAt(x, spec.Y, z+fluxDelta) - e.EvaluateAt(x, spec.Y, z-fluxDelta)) / (2 * fluxDelta)
			vectors = append(vectors, model.FluxVector{
				X:  x,
				Z:  z,
				QX: -k * dTdx,
				QZ: -k * dTdz,
			})
		}
	}
	return vectors
}
