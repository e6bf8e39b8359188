package isosurface

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonum.org/v1/gonum/spatial/r3"
)

// sphereField samples the signed distance to a sphere centered in an n³
// lattice (lattice units, node spacing 1).
func sphereField(n int, radius float64) *ScalarField {
	b := Bounds{Min: r3.Vec{}, Max: r3.Vec{X: float64(n - 1), Y: float64(n - 1), Z: float64(n - 1)}}
	f := NewScalarField(b, n, n, n)
	c := float64(n-1) / 2
	for z := 0; z < n; z++ {
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				d := math.Sqrt(sq(float64(x)-c) + sq(float64(y)-c) + sq(float64(z)-c))
				f.Set(x, y, z, d-radius)
			}
		}
	}
	return f
}

func sq(v float64) float64 { return v * v }

func TestExtractSphere(t *testing.T) {
	const n = 24
	const radius = 8.0
	f := sphereField(n, radius)

	triangles := Extract(f, 0)
	require.NotEmpty(t, triangles)

	c := float64(n-1) / 2
	for _, tri := range triangles {
		for _, v := range tri {
			require.True(t, finite(v.X) && finite(v.Y) && finite(v.Z))
			d := math.Sqrt(sq(v.X-c) + sq(v.Y-c) + sq(v.Z-c))
			assert.InDelta(t, radius, d, 0.1)
		}
	}
}

func TestExtractTriangleCountScalesWithArea(t *testing.T) {
	// doubling the lattice resolution roughly quadruples the triangle
	// count, tracking the sphere's surface area
	coarse := len(Extract(sphereField(16, 5), 0))
	fine := len(Extract(sphereField(32, 10), 0))
	require.Greater(t, coarse, 0)
	assert.Greater(t, fine, 2*coarse)
}

func TestExtractDegenerateEdge(t *testing.T) {
	// adjacent corners straddle the isovalue by less than the interpolation
	// epsilon: every crossing snaps to an edge endpoint instead of blowing up
	f := NewScalarField(Bounds{Max: r3.Vec{X: 2, Y: 2, Z: 2}}, 3, 3, 3)
	for z := 0; z < 3; z++ {
		for y := 0; y < 3; y++ {
			for x := 0; x < 3; x++ {
				f.Set(x, y, z, 4e-10)
			}
		}
	}
	f.Set(1, 1, 1, -4e-10)

	// the negative node is a corner of eight cubes, one triangle each
	triangles := Extract(f, 0)
	require.Len(t, triangles, 8)
	for _, tri := range triangles {
		for _, v := range tri {
			require.True(t, finite(v.X) && finite(v.Y) && finite(v.Z))
			assert.Equal(t, math.Trunc(v.X), v.X)
			assert.Equal(t, math.Trunc(v.Y), v.Y)
			assert.Equal(t, math.Trunc(v.Z), v.Z)
		}
	}
}

func TestExtractCapsAtLatticeBoundary(t *testing.T) {
	// a level set hotter than the whole sampled box must close against the
	// ghost layer, where nodes read as zero
	const n = 4
	f := NewScalarField(Bounds{Max: r3.Vec{X: n - 1, Y: n - 1, Z: n - 1}}, n, n, n)
	for z := 0; z < n; z++ {
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				f.Set(x, y, z, 200)
			}
		}
	}

	triangles := Extract(f, 100)
	require.NotEmpty(t, triangles)

	// all crossings sit halfway between a boundary node and its ghost
	// neighbor, and every face of the box gets capped
	var lo, hi [3]bool
	for _, tri := range triangles {
		for _, v := range tri {
			for axis, c := range []float64{v.X, v.Y, v.Z} {
				assert.GreaterOrEqual(t, c, -0.5)
				assert.LessOrEqual(t, c, n-0.5)
				if c == -0.5 {
					lo[axis] = true
				}
				if c == n-0.5 {
					hi[axis] = true
				}
			}
		}
	}
	for axis := 0; axis < 3; axis++ {
		assert.True(t, lo[axis], "no cap on low face of axis %d", axis)
		assert.True(t, hi[axis], "no cap on high face of axis %d", axis)
	}
}

func TestExtractEmptyField(t *testing.T) {
	f := NewScalarField(Bounds{Max: r3.Vec{X: 3, Y: 3, Z: 3}}, 4, 4, 4)
	// constant field crosses nothing
	assert.Empty(t, Extract(f, 1))
}

func TestExtractSafeRecovers(t *testing.T) {
	triangles, err := ExtractSafe(sphereField(8, 2.5), 0)
	require.NoError(t, err)
	assert.NotEmpty(t, triangles)

	// a nil field panics inside extraction and must come back as an error
	_, err = ExtractSafe(nil, 0)
	require.Error(t, err)
}

func TestScalarFieldOutOfBoundsReadsZero(t *testing.T) {
	f := NewScalarField(Bounds{Max: r3.Vec{X: 1, Y: 1, Z: 1}}, 2, 2, 2)
	f.Set(0, 0, 0, 7)
	assert.Zero(t, f.At(-1, 0, 0))
	assert.Zero(t, f.At(0, 2, 0))
	assert.Zero(t, f.At(0, 0, 5))
}

func TestScalarFieldSpacing(t *testing.T) {
	f := NewScalarField(Bounds{
		Min: r3.Vec{X: -2, Y: 0, Z: -1},
		Max: r3.Vec{X: 2, Y: 4, Z: 3},
	}, 5, 5, 5)
	assert.Equal(t, r3.Vec{X: 1, Y: 1, Z: 1}, f.Spacing())
	assert.Equal(t, r3.Vec{X: -2, Y: 0, Z: -1}, f.World(0, 0, 0))
	assert.Equal(t, r3.Vec{X: 2, Y: 4, Z: 3}, f.World(4, 4, 4))
}
