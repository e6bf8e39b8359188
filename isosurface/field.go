package isosurface

import "gonum.org/v1/gonum/spatial/r3"

// Bounds is the axis-aligned world-space box a field was sampled over.
type Bounds struct {
	Min r3.Vec `json:"min"`
	Max r3.Vec `json:"max"`
}

// ScalarField is a dense 3D lattice of samples, x-major. It is read-only
// once filled; the extractor never mutates it.
type ScalarField struct {
	Bounds Bounds
	NX     int
	NY     int
	NZ     int

	values []float64
}

func NewScalarField(b Bounds, nx, ny, nz int) *ScalarField {
	return &ScalarField{
		Bounds: b,
		NX:     nx,
		NY:     ny,
		NZ:     nz,
		values: make([]float64, nx*ny*nz),
	}
}

func (f *ScalarField) index(x, y, z int) int {
	return (z*f.NY+y)*f.NX + x
}

// At returns the sample at a lattice node. Nodes outside the sampled bounds
// read as zero.
func (f *ScalarField) At(x, y, z int) float64 {
	if x < 0 || y < 0 || z < 0 || x >= f.NX || y >= f.NY || z >= f.NZ {
		return 0
	}
	return f.values[f.index(x, y, z)]
}

func (f *ScalarField) Set(x, y, z int, v float64) {
	f.values[f.index(x, y, z)] = v
}

// World maps a lattice node to its world-space position.
func (f *ScalarField) World(x, y, z int) r3.Vec {
	return r3.Vec{
		X: f.Bounds.Min.X + float64(x)*f.spacing(f.Bounds.Min.X, f.Bounds.Max.X, f.NX),
		Y: f.Bounds.Min.Y + float64(y)*f.spacing(f.Bounds.Min.Y, f.Bounds.Max.Y, f.NY),
		Z: f.Bounds.Min.Z + float64(z)*f.spacing(f.Bounds.Min.Z, f.Bounds.Max.Z, f.NZ),
	}
}

// Spacing returns the per-axis node spacing, for lattice-to-world scaling by
// the rendering collaborator.
func (f *ScalarField) Spacing() r3.Vec {
	return r3.Vec{
		X: f.spacing(f.Bounds.Min.X, f.Bounds.Max.X, f.NX),
		Y: f.spacing(f.Bounds.Min.Y, f.Bounds.Max.Y, f.NY),
		Z: f.spacing(f.Bounds.Min.Z, f.Bounds.Max.Z, f.NZ),
	}
}

func (f *ScalarField) spacing(min, max float64, n int) float64 {
	if n < 2 {
		return 0
	}
	return (max - min) / float64(n-1)
}
