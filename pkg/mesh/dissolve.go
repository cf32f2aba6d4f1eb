package mesh

// DissolveEdges removes each given edge by merging the two faces that
// border it into one polygon, keeping the first face's tag. Edges not
// bordered by exactly two distinct faces, or whose faces wind the edge
// in the same direction, are skipped. When useVerts is set, the edge
// endpoints left joining exactly two edges are dissolved as well.
// Requires a current index; the index is stale afterward.
func (m *Mesh) DissolveEdges(edges []*Edge, useVerts bool) {
	mergedInto := make(map[*Face]*Face)
	resolve := func(f *Face) *Face {
		for {
			g, ok := mergedInto[f]
			if !ok {
				return f
			}
			f = g
		}
	}

	dead := make(map[*Face]bool)
	endpoints := make(map[*Vertex]bool)

	for _, e := range edges {
		if len(e.Faces) != 2 {
			continue
		}
		f1 := resolve(e.Faces[0])
		f2 := resolve(e.Faces[1])
		if f1 == f2 {
			continue
		}
		a, b := e.V[0], e.V[1]

		// Locate the edge in f1's winding; orient so f1 runs a->b.
		i1 := findSegment(f1, a, b)
		if i1 < 0 {
			i1 = findSegment(f1, b, a)
			if i1 < 0 {
				continue
			}
			a, b = b, a
		}
		// Consistent winding means f2 runs b->a.
		i2 := findSegment(f2, b, a)
		if i2 < 0 {
			continue
		}

		loop1 := rotated(f1.Verts, (i1+1)%len(f1.Verts)) // starts at b, ends at a
		loop2 := rotated(f2.Verts, (i2+1)%len(f2.Verts)) // starts at a, ends at b

		merged := make([]*Vertex, 0, len(loop1)+len(loop2)-2)
		merged = append(merged, loop1...)
		merged = append(merged, loop2[1:len(loop2)-1]...)
		f1.Verts = merged

		mergedInto[f2] = f1
		dead[f2] = true
		endpoints[a] = true
		endpoints[b] = true
	}

	m.DeleteFaces(dead)

	if useVerts {
		m.dissolvePassThroughVerts(endpoints)
	}
}

// findSegment returns the cyclic position i with f.Verts[i]==a followed
// by b, or -1.
func findSegment(f *Face, a, b *Vertex) int {
	n := len(f.Verts)
	for i := 0; i < n; i++ {
		if f.Verts[i] == a && f.Verts[(i+1)%n] == b {
			return i
		}
	}
	return -1
}

func rotated(verts []*Vertex, start int) []*Vertex {
	out := make([]*Vertex, 0, len(verts))
	out = append(out, verts[start:]...)
	out = append(out, verts[:start]...)
	return out
}

// dissolvePassThroughVerts removes candidate vertices that now sit on
// exactly two edges, splicing them out of every face cycle.
func (m *Mesh) dissolvePassThroughVerts(candidates map[*Vertex]bool) {
	neighbors := make(map[*Vertex]map[*Vertex]bool)
	for _, f := range m.Faces {
		n := len(f.Verts)
		for i, v := range f.Verts {
			if !candidates[v] {
				continue
			}
			if neighbors[v] == nil {
				neighbors[v] = make(map[*Vertex]bool)
			}
			neighbors[v][f.Verts[(i+n-1)%n]] = true
			neighbors[v][f.Verts[(i+1)%n]] = true
		}
	}

	doomed := make(map[*Vertex]bool)
	for v, ns := range neighbors {
		if len(ns) == 2 {
			doomed[v] = true
		}
	}
	if len(doomed) == 0 {
		return
	}

	dead := make(map[*Face]bool)
	for _, f := range m.Faces {
		verts := f.Verts[:0]
		for _, v := range f.Verts {
			if !doomed[v] {
				verts = append(verts, v)
			}
		}
		f.Verts = verts
		if len(f.Verts) < 3 {
			dead[f] = true
		}
	}
	m.DeleteFaces(dead)
	m.pruneUnusedVerts()
}
