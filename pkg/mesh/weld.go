package mesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

type cellKey [3]int

func cellFor(co r3.Vec, size float64) cellKey {
	return cellKey{
		int(math.Floor(co.X / size)),
		int(math.Floor(co.Y / size)),
		int(math.Floor(co.Z / size)),
	}
}

// Weld merges vertices from the given set that lie within dist of each
// other. Each cluster keeps the member with the lowest index as the
// survivor; its position is unchanged, so repeating a weld with the
// same tolerance merges nothing further. Faces are remapped to the
// survivors; faces degenerating below three distinct vertices are
// removed. Returns the number of vertices merged away. The index is
// stale afterward when the return value is non-zero.
func (m *Mesh) Weld(verts []*Vertex, dist float64) int {
	if dist <= 0 || len(verts) < 2 {
		return 0
	}

	// Dedup the input set, preserving order.
	seen := make(map[*Vertex]bool, len(verts))
	set := make([]*Vertex, 0, len(verts))
	for _, v := range verts {
		if !seen[v] {
			seen[v] = true
			set = append(set, v)
		}
	}

	// Spatial hash with cell size = dist: all pairs within dist lie in
	// adjacent cells.
	grid := make(map[cellKey][]*Vertex)
	for _, v := range set {
		k := cellFor(v.Co, dist)
		grid[k] = append(grid[k], v)
	}

	parent := make(map[*Vertex]*Vertex, len(set))
	var find func(v *Vertex) *Vertex
	find = func(v *Vertex) *Vertex {
		p, ok := parent[v]
		if !ok || p == v {
			return v
		}
		root := find(p)
		parent[v] = root
		return root
	}
	union := func(a, b *Vertex) {
		ra, rb := find(a), find(b)
		if ra == rb {
			return
		}
		// Lower index survives.
		if ra.Index <= rb.Index {
			parent[rb] = ra
		} else {
			parent[ra] = rb
		}
	}

	d2 := dist * dist
	for _, v := range set {
		base := cellFor(v.Co, dist)
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for dz := -1; dz <= 1; dz++ {
					k := cellKey{base[0] + dx, base[1] + dy, base[2] + dz}
					for _, w := range grid[k] {
						if w == v || w.Index < v.Index {
							continue
						}
						if r3.Norm2(r3.Sub(w.Co, v.Co)) <= d2 {
							union(v, w)
						}
					}
				}
			}
		}
	}

	remap := make(map[*Vertex]*Vertex)
	merged := 0
	for _, v := range set {
		if root := find(v); root != v {
			remap[v] = root
			merged++
		}
	}
	if merged == 0 {
		return 0
	}

	m.remapFaces(remap)
	m.pruneUnusedVerts()
	return merged
}

// WeldAll welds the entire vertex set at the given tolerance.
func (m *Mesh) WeldAll(dist float64) int {
	return m.Weld(m.Verts, dist)
}

// remapFaces replaces vertices per the remap table, collapses repeated
// consecutive vertices, and removes faces left with fewer than three.
func (m *Mesh) remapFaces(remap map[*Vertex]*Vertex) {
	kept := m.Faces[:0]
	for _, f := range m.Faces {
		for i, v := range f.Verts {
			if w, ok := remap[v]; ok {
				f.Verts[i] = w
			}
		}
		verts := f.Verts[:0]
		for i, v := range f.Verts {
			next := f.Verts[(i+1)%len(f.Verts)]
			if v != next {
				verts = append(verts, v)
			}
		}
		f.Verts = verts
		if len(f.Verts) >= 3 {
			kept = append(kept, f)
		}
	}
	m.Faces = kept
}
