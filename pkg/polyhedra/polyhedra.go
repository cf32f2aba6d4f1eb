package polyhedra

import (
	"github.com/meshops/polyframe/pkg/mesh"
)

// Polyhedron is one closed cell: the set of face instances mutually
// reachable through best-match-at-shared-edge pairings, in
// first-insertion order.
type Polyhedron struct {
	Members []ID
}

// DoubledFaces resolves the members to their faces in the duplicated
// mesh produced by BuildDoubled.
func (p Polyhedron) DoubledFaces(doubled *mesh.Mesh) []*mesh.Face {
	faces := make([]*mesh.Face, len(p.Members))
	for i, id := range p.Members {
		faces[i] = doubled.Faces[id.DoubledIndex()]
	}
	return faces
}

// OppositeDoubledFaces resolves the opposite-orientation instance of
// every member to its face in the duplicated mesh.
func (p Polyhedron) OppositeDoubledFaces(doubled *mesh.Mesh) []*mesh.Face {
	faces := make([]*mesh.Face, len(p.Members))
	for i, id := range p.Members {
		faces[i] = doubled.Faces[id.Opposite().DoubledIndex()]
	}
	return faces
}

// Stats summarizes a detection run.
type Stats struct {
	Polyhedra int
	// Unmatched counts instances that found no partner at some edge;
	// their merge was skipped. Non-zero values indicate a degenerate or
	// non-closed arrangement.
	Unmatched int
}

// Detect partitions the source mesh's face instances into polyhedral
// cells. The mesh must have a current index. Any edge bordered by fewer
// than two faces aborts the run with mesh.ErrNakedEdge and no result.
//
// The resulting polyhedra are ordered by the first appearance of any
// member when scanning face indices ascending, reverse instance before
// forward; members keep merge order.
func Detect(src *mesh.Mesh) ([]Polyhedron, Stats, error) {
	ds := newDisjointSet()
	unmatched, err := resolveEdges(src, ds)
	if err != nil {
		return nil, Stats{}, err
	}

	order := make([]ID, 0, 2*len(src.Faces))
	for k := range src.Faces {
		order = append(order, Reverse(k), Forward(k))
	}

	classes := ds.partition(order)
	polys := make([]Polyhedron, len(classes))
	for i, members := range classes {
		polys[i] = Polyhedron{Members: members}
	}
	return polys, Stats{Polyhedra: len(polys), Unmatched: unmatched}, nil
}
