package mesh

import (
	"errors"
	"fmt"
)

// ErrNakedEdge reports an edge bordered by fewer than two faces. The
// polyhedra operators require a closed face arrangement and abort on it.
var ErrNakedEdge = errors.New("naked edges are not allowed")

// NakedEdges returns every edge bordered by fewer than two faces.
// Requires a current index.
func (m *Mesh) NakedEdges() []*Edge {
	var naked []*Edge
	for _, e := range m.Edges {
		if len(e.Faces) < 2 {
			naked = append(naked, e)
		}
	}
	return naked
}

// CheckClosed verifies that every edge borders at least two faces,
// wrapping ErrNakedEdge with the offending edge count otherwise.
func (m *Mesh) CheckClosed() error {
	if naked := m.NakedEdges(); len(naked) > 0 {
		return fmt.Errorf("%w (%d boundary edges)", ErrNakedEdge, len(naked))
	}
	return nil
}
