package polyhedra

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/meshops/polyframe/pkg/mesh"
)

// angleSentinel is the initial minimum for the angular search; any real
// candidate beats it, and exact ties keep the first-seen candidate
// because the comparison is a strict less-than.
const angleSentinel = 10000.0

// windsForward reports whether the edge's canonical vertex order
// matches the face's winding, i.e. the face traverses e.V[1] directly
// followed by e.V[0].
func windsForward(f *mesh.Face, e *mesh.Edge) bool {
	va := f.VertIndex(e.V[0])
	vb := f.VertIndex(e.V[1])
	return va == (vb+1)%len(f.Verts)
}

// selectClosest returns the candidate whose (possibly negated) normal,
// flattened into the plane basis, has the minimum polar angle. Returns
// zero when there is no candidate.
func selectClosest(ids []ID, normals []r3.Vec, planeX, planeY r3.Vec, negate bool) ID {
	var best ID
	minAngle := angleSentinel
	for i, id := range ids {
		n := normals[i]
		if negate {
			n = r3.Scale(-1, n)
		}
		x, y := mesh.ProjectToBasis(n, planeX, planeY)
		if a := mesh.PolarAngle(x, y); a < minAngle {
			best = id
			minAngle = a
		}
	}
	return best
}

// resolveEdges walks every edge of the source mesh once and feeds the
// selected face-instance pairings into the disjoint set. It returns the
// number of instances that found no partner at some edge (tolerated:
// the merge for that half is skipped).
func resolveEdges(src *mesh.Mesh, ds *disjointSet) (unmatched int, err error) {
	for _, e := range src.Edges {
		if len(e.Faces) < 2 {
			return unmatched, fmt.Errorf("edge %d (%d..%d): %w",
				e.Index, e.V[0].Index, e.V[1].Index, mesh.ErrNakedEdge)
		}

		done := make(map[ID]bool)
		edgeVec := r3.Sub(e.V[1].Co, e.V[0].Co)

		for i1 := 0; i1 < len(e.Faces)-1; i1++ {
			f1 := e.Faces[i1]
			dir1 := windsForward(f1, e)
			edgeVec1 := edgeVec
			if !dir1 {
				edgeVec1 = r3.Scale(-1, edgeVec)
			}

			// Record each later face once, signed by normal consistency
			// across this edge: opposite winding means the normals agree,
			// same winding means the sweep continues on the face's other
			// side, so both id and normal flip.
			var candIDs []ID
			var candNormals []r3.Vec
			for i2 := i1 + 1; i2 < len(e.Faces); i2++ {
				f2 := e.Faces[i2]
				f2.RecalcNormal()
				if dir1 != windsForward(f2, e) {
					candIDs = append(candIDs, Forward(f2.Index))
					candNormals = append(candNormals, f2.Normal)
				} else {
					candIDs = append(candIDs, Reverse(f2.Index))
					candNormals = append(candNormals, r3.Scale(-1, f2.Normal))
				}
			}

			// Positive cell rooted at f1's outward side.
			if id1 := Forward(f1.Index); !done[id1] {
				planeX := f1.Normal
				planeY := r3.Cross(planeX, edgeVec1)
				id2 := selectClosest(candIDs, candNormals, planeX, planeY, true)
				if id2 != 0 {
					done[id2] = true
					ds.union(id1, id2)
				} else {
					ds.makeSet(id1)
					unmatched++
				}
			}

			// Mirrored cell on f1's back side: mirrored basis, mirrored
			// candidate signs.
			if id1 := Reverse(f1.Index); !done[id1] {
				planeX := r3.Scale(-1, f1.Normal)
				planeY := r3.Cross(planeX, r3.Scale(-1, edgeVec1))
				var best ID
				minAngle := angleSentinel
				for i, cid := range candIDs {
					x, y := mesh.ProjectToBasis(candNormals[i], planeX, planeY)
					if a := mesh.PolarAngle(x, y); a < minAngle {
						best = cid.Opposite()
						minAngle = a
					}
				}
				if best != 0 {
					done[best] = true
					ds.union(id1, best)
				} else {
					ds.makeSet(id1)
					unmatched++
				}
			}
		}
	}
	return unmatched, nil
}
