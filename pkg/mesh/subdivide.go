package mesh

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// SubdivideProportional splits long edges in proportion to the longest
// one. Edge lengths are bucketed against maxLen/segments; every edge in
// bucket i (for 2 <= i < segments) is split into i+1 uniform pieces.
// Short edges and the single longest bucket are left alone. Requires a
// current index; the index is stale afterward.
func (m *Mesh) SubdivideProportional(segments int) {
	if segments <= 2 || len(m.Edges) == 0 {
		return
	}
	maxLen := 0.0
	lengths := make([]float64, len(m.Edges))
	for i, e := range m.Edges {
		lengths[i] = e.Length()
		if lengths[i] > maxLen {
			maxLen = lengths[i]
		}
	}
	if maxLen == 0 {
		return
	}
	maxSegment := maxLen / float64(segments)

	buckets := make([][]*Edge, segments+1)
	for i, e := range m.Edges {
		b := int(lengths[i] / maxSegment)
		if b > segments {
			b = segments
		}
		buckets[b] = append(buckets[b], e)
	}

	for i := 2; i < segments; i++ {
		for _, e := range buckets[i] {
			m.splitEdge(e, i)
		}
	}
}

// splitEdge inserts cuts uniformly spaced vertices along e and splices
// them into the vertex cycle of every incident face.
func (m *Mesh) splitEdge(e *Edge, cuts int) {
	if cuts < 1 {
		return
	}
	a, b := e.V[0], e.V[1]
	span := r3.Sub(b.Co, a.Co)
	mid := make([]*Vertex, cuts)
	for j := 0; j < cuts; j++ {
		t := float64(j+1) / float64(cuts+1)
		mid[j] = m.AddVertex(r3.Add(a.Co, r3.Scale(t, span)))
	}

	for _, f := range e.Faces {
		n := len(f.Verts)
		for i := 0; i < n; i++ {
			v, w := f.Verts[i], f.Verts[(i+1)%n]
			var insert []*Vertex
			if v == a && w == b {
				insert = mid
			} else if v == b && w == a {
				insert = make([]*Vertex, cuts)
				for j := range mid {
					insert[cuts-1-j] = mid[j]
				}
			} else {
				continue
			}
			verts := make([]*Vertex, 0, n+cuts)
			verts = append(verts, f.Verts[:i+1]...)
			verts = append(verts, insert...)
			verts = append(verts, f.Verts[i+1:]...)
			f.Verts = verts
			break
		}
	}
}
