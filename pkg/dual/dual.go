// Package dual builds the dual of a polygonal mesh: every face becomes
// a vertex at its centroid, and every vertex becomes the face spanned
// by the centroids of its incident faces, ordered by walking the face
// fan around the vertex.
package dual

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/meshops/polyframe/pkg/mesh"
)

// Options controls dual construction.
type Options struct {
	// PreserveBorders closes the fan of a boundary vertex with the
	// midpoints of its two boundary edges and the vertex itself. When
	// unset, boundary vertices produce no dual face.
	PreserveBorders bool
}

// Dual returns the dual mesh of src, which must have a current index.
// Vertices whose fan cannot be walked (non-manifold edges with more
// than two faces) are skipped.
func Dual(src *mesh.Mesh, opts Options) *mesh.Mesh {
	out := mesh.New()

	centroids := make(map[*mesh.Face]*mesh.Vertex, len(src.Faces))
	for _, f := range src.Faces {
		centroids[f] = out.AddVertex(f.Centroid())
	}

	// Incident faces per vertex, in face order for determinism.
	incident := make(map[*mesh.Vertex][]*mesh.Face, len(src.Verts))
	for _, f := range src.Faces {
		for _, v := range f.Verts {
			incident[v] = append(incident[v], f)
		}
	}

	midpoints := make(map[*mesh.Edge]*mesh.Vertex)
	midpoint := func(e *mesh.Edge) *mesh.Vertex {
		if v, ok := midpoints[e]; ok {
			return v
		}
		v := out.AddVertex(r3.Scale(0.5, r3.Add(e.V[0].Co, e.V[1].Co)))
		midpoints[e] = v
		return v
	}

	for _, v := range src.Verts {
		fan := incident[v]
		if len(fan) == 0 {
			continue
		}
		loop, boundary, ok := walkFan(src, v, fan)
		if !ok {
			continue
		}
		if boundary && !opts.PreserveBorders {
			continue
		}

		var verts []*mesh.Vertex
		if boundary {
			first, last := loop[0], loop[len(loop)-1]
			verts = append(verts, midpoint(enterEdge(src, first, v)))
			for _, f := range loop {
				verts = append(verts, centroids[f])
			}
			verts = append(verts, midpoint(exitEdge(src, last, v)))
			verts = append(verts, out.AddVertex(v.Co))
		} else {
			for _, f := range loop {
				verts = append(verts, centroids[f])
			}
		}
		if len(verts) >= 3 {
			out.AddFace(verts...)
		}
	}

	out.RebuildIndex()
	return out
}

// exitEdge is the edge crossed when leaving f at v in winding order:
// the edge from v to the vertex following it in f.
func exitEdge(m *mesh.Mesh, f *mesh.Face, v *mesh.Vertex) *mesh.Edge {
	i := f.VertIndex(v)
	return m.EdgeBetween(v, f.Verts[(i+1)%len(f.Verts)])
}

// enterEdge is the edge through which f is entered at v: the edge from
// the vertex preceding v in f.
func enterEdge(m *mesh.Mesh, f *mesh.Face, v *mesh.Vertex) *mesh.Edge {
	i := f.VertIndex(v)
	n := len(f.Verts)
	return m.EdgeBetween(f.Verts[(i+n-1)%n], v)
}

// walkFan orders the faces incident to v by repeatedly crossing the
// exit edge. For an interior vertex the walk closes on the start face;
// for a boundary vertex it runs from the face behind one boundary edge
// to the face before the other. Returns ok=false when an edge borders
// more than two faces or the fan splits.
func walkFan(m *mesh.Mesh, v *mesh.Vertex, fan []*mesh.Face) (loop []*mesh.Face, boundary bool, ok bool) {
	start := fan[0]
	for _, f := range fan {
		e := enterEdge(m, f, v)
		if e == nil {
			return nil, false, false
		}
		if len(e.Faces) > 2 {
			return nil, false, false
		}
		if len(e.Faces) == 1 {
			start = f
			boundary = true
			break
		}
	}

	f := start
	for {
		loop = append(loop, f)
		if len(loop) > len(fan) {
			return nil, false, false
		}
		e := exitEdge(m, f, v)
		if e == nil || len(e.Faces) > 2 {
			return nil, false, false
		}
		next := e.OtherFace(f)
		if next == nil {
			// Ran into the far boundary edge.
			if !boundary {
				return nil, false, false
			}
			break
		}
		if next == start {
			if boundary {
				return nil, false, false
			}
			break
		}
		f = next
	}
	if len(loop) != len(fan) {
		return nil, false, false
	}
	return loop, boundary, true
}
