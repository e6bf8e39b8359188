package calculator

import (
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"

	"pipefield/isosurface"
	"pipefield/model"
)

// SampleGrid fills a dense 3D lattice with temperatures by evaluating every
// node. Nodes are mutually independent, so the fill fans out across a fixed
// number of workers, each owning an interleaved set of z slabs (disjoint
// writes, shared immutable reads).
func (e *Evaluator) SampleGrid(spec model.GridSpec) *isosurface.ScalarField {
	nx, ny, nz := spec.NX, spec.NY, spec.NZ
	if nx < 2 {
		nx = calCfg.GridResolution
	}
	if ny < 2 {
		ny = calCfg.GridResolution
	}
	if nz < 2 {
		nz = calCfg.GridResolution
	}

	field := isosurface.NewScalarField(isosurface.Bounds{
		Min: r3.Vec{X: spec.MinX, Y: spec.MinY, Z: spec.MinZ},
		Max: r3.Vec{X: spec.MaxX, Y: spec.MaxY, Z: spec.MaxZ},
	}, nx, ny, nz)

	workers := calCfg.Workers
	if workers < 1 {
		workers = 1
	}

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			for z := w; z < nz; z += workers {
				for y := 0; y < ny; y++ {
					for x := 0; x < nx; x++ {
						p := field.World(x, y, z)
						if p.Z < 0 {
							// above the adiabatic boundary the model has no
							// meaning, ambient applies directly
							field.Set(x, y, z, e.soilTemperature)
							continue
						}
						field.Set(x, y, z, e.EvaluateAt(p.X, p.Y, p.Z))
					}
				}
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	return field
}
