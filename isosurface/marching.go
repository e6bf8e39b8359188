package isosurface

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// interpEps: corner values closer than this are treated as equal and the
// crossing snaps to the first endpoint instead of interpolating.
const interpEps = 1e-9

// Triangle is three vertices in lattice space. World scaling and normals are
// the rendering collaborator's job.
type Triangle [3]r3.Vec

// cube corner offsets and the corner pair of each of the 12 edges, in the
// classic table's numbering.
var cornerOffset = [8][3]int{
	{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
}

var edgeCorners = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// Extract produces the triangle soup approximating the level set
// field(x) = isovalue. Output vertices are in lattice coordinates. The march
// includes a one-cube ghost layer around the lattice, where nodes read as
// zero, so level sets leaving the sampled box are capped at the boundary.
// The mesh may contain cracks between ambiguous cube configurations; that is
// an accepted limitation of the table-based algorithm.
func Extract(f *ScalarField, isovalue float64) []Triangle {
	var triangles []Triangle

	var pos [8]r3.Vec
	var val [8]float64
	var verts [12]r3.Vec

	for z := -1; z < f.NZ; z++ {
		for y := -1; y < f.NY; y++ {
			for x := -1; x < f.NX; x++ {
				cubeIndex := 0
				for i, off := range cornerOffset {
					cx, cy, cz := x+off[0], y+off[1], z+off[2]
					pos[i] = r3.Vec{X: float64(cx), Y: float64(cy), Z: float64(cz)}
					val[i] = f.At(cx, cy, cz)
					if val[i] < isovalue {
						cubeIndex |= 1 << i
					}
				}

				edges := edgeTable[cubeIndex]
				if edges == 0 {
					continue
				}
				for e := 0; e < 12; e++ {
					if edges&(1<<e) == 0 {
						continue
					}
					a, b := edgeCorners[e][0], edgeCorners[e][1]
					verts[e] = interpolateVertex(isovalue, pos[a], pos[b], val[a], val[b])
				}

				row := triTable[cubeIndex]
				for i := 0; row[i] != -1; i += 3 {
					triangles = append(triangles, Triangle{
						verts[row[i]],
						verts[row[i+1]],
						verts[row[i+2]],
					})
				}
			}
		}
	}
	return triangles
}

// ExtractSafe isolates a failure during mesh assembly to the requested
// isovalue, so one broken level cannot take down the other extractions.
func ExtractSafe(f *ScalarField, isovalue float64) (triangles []Triangle, err error) {
	defer func() {
		if r := recover(); r != nil {
			triangles = nil
			err = fmt.Errorf("isosurface extraction at %v failed: %v", isovalue, r)
		}
	}()
	return Extract(f, isovalue), nil
}

// interpolateVertex places the surface crossing on the edge p1-p2 by linear
// interpolation. Near-equal corner values snap to p1, and a non-finite
// result falls back to p1, so no NaN/Inf vertex ever reaches the mesh.
func interpolateVertex(isovalue float64, p1, p2 r3.Vec, v1, v2 float64) r3.Vec {
	if math.Abs(v2-v1) < interpEps {
		return p1
	}
	mu := (isovalue - v1) / (v2 - v1)
	p := r3.Add(p1, r3.Scale(mu, r3.Sub(p2, p1)))
	if !finite(p.X) || !finite(p.Y) || !finite(p.Z) {
		return p1
	}
	return p
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
