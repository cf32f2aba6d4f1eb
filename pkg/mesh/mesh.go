// Package mesh defines the working polygonal mesh structure used by the
// topology operators: vertices, faces with explicit winding, and derived
// edges with full face-adjacency (an edge may border any number of faces).
//
// Mutating operations (adding or removing vertices and faces, welds,
// subdivision, dissolve) leave the derived tables stale. Callers must
// invoke RebuildIndex before the next indexed lookup; the rebuild is an
// explicit step, not an automatic side effect.
package mesh

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"
)

// Vertex is a mesh vertex. Normal is derived by RebuildIndex as the
// normalized sum of incident face normals.
type Vertex struct {
	Index  int
	Co     r3.Vec
	Normal r3.Vec
}

// Edge is an unordered pair of vertices with the ordered list of faces
// bordering it. Edges are derived from face windings by RebuildIndex;
// V holds the vertices in the order the edge was first traversed.
type Edge struct {
	Index int
	V     [2]*Vertex
	Faces []*Face
}

// OtherFace returns the face across the edge from f, for edges bordered
// by exactly two faces. Returns nil otherwise.
func (e *Edge) OtherFace(f *Face) *Face {
	if len(e.Faces) != 2 {
		return nil
	}
	if e.Faces[0] == f {
		return e.Faces[1]
	}
	if e.Faces[1] == f {
		return e.Faces[0]
	}
	return nil
}

// Length returns the edge length.
func (e *Edge) Length() float64 {
	return r3.Norm(r3.Sub(e.V[1].Co, e.V[0].Co))
}

// Face is an ordered cycle of vertices. The winding defines the normal
// by the right-hand rule. Tag is a free per-face label; the wireframe
// operator stores polyhedron membership and ribbon bands in it.
type Face struct {
	Index  int
	Verts  []*Vertex
	Normal r3.Vec
	Tag    int
}

// RecalcNormal recomputes the face normal from the current vertex
// positions using Newell's method, which tolerates slightly non-planar
// polygons.
func (f *Face) RecalcNormal() {
	var n r3.Vec
	for i, v := range f.Verts {
		w := f.Verts[(i+1)%len(f.Verts)]
		n.X += (v.Co.Y - w.Co.Y) * (v.Co.Z + w.Co.Z)
		n.Y += (v.Co.Z - w.Co.Z) * (v.Co.X + w.Co.X)
		n.Z += (v.Co.X - w.Co.X) * (v.Co.Y + w.Co.Y)
	}
	if l := r3.Norm(n); l > 0 {
		n = r3.Scale(1/l, n)
	}
	f.Normal = n
}

// Centroid returns the arithmetic mean of the face's vertex positions.
func (f *Face) Centroid() r3.Vec {
	var c r3.Vec
	for _, v := range f.Verts {
		c = r3.Add(c, v.Co)
	}
	return r3.Scale(1/float64(len(f.Verts)), c)
}

// VertIndex returns the position of v in the face's vertex cycle, or -1.
func (f *Face) VertIndex(v *Vertex) int {
	for i, w := range f.Verts {
		if w == v {
			return i
		}
	}
	return -1
}

type edgeKey [2]int

func keyFor(a, b *Vertex) edgeKey {
	if a.Index < b.Index {
		return edgeKey{a.Index, b.Index}
	}
	return edgeKey{b.Index, a.Index}
}

// Mesh owns a set of vertices and faces plus the derived edge table.
type Mesh struct {
	Verts []*Vertex
	Edges []*Edge
	Faces []*Face

	edgeIndex map[edgeKey]*Edge
}

// New returns an empty mesh.
func New() *Mesh {
	return &Mesh{edgeIndex: make(map[edgeKey]*Edge)}
}

// AddVertex appends a vertex at co and returns it.
func (m *Mesh) AddVertex(co r3.Vec) *Vertex {
	v := &Vertex{Index: len(m.Verts), Co: co}
	m.Verts = append(m.Verts, v)
	return v
}

// AddFace appends a face over the given vertices, computes its normal,
// and returns it. The derived edge table is stale until RebuildIndex.
func (m *Mesh) AddFace(verts ...*Vertex) (*Face, error) {
	if len(verts) < 3 {
		return nil, fmt.Errorf("face needs at least 3 vertices, got %d", len(verts))
	}
	f := &Face{Index: len(m.Faces), Verts: verts}
	f.RecalcNormal()
	m.Faces = append(m.Faces, f)
	return f, nil
}

// RebuildIndex refreshes every derived table: vertex and face indices,
// the edge list with face adjacency, face normals, and vertex normals.
// Edge identity is not preserved across rebuilds.
func (m *Mesh) RebuildIndex() {
	for i, v := range m.Verts {
		v.Index = i
		v.Normal = r3.Vec{}
	}
	for i, f := range m.Faces {
		f.Index = i
		f.RecalcNormal()
	}

	m.Edges = m.Edges[:0]
	m.edgeIndex = make(map[edgeKey]*Edge)
	for _, f := range m.Faces {
		n := len(f.Verts)
		for i := 0; i < n; i++ {
			a, b := f.Verts[i], f.Verts[(i+1)%n]
			k := keyFor(a, b)
			e, ok := m.edgeIndex[k]
			if !ok {
				e = &Edge{Index: len(m.Edges), V: [2]*Vertex{a, b}}
				m.Edges = append(m.Edges, e)
				m.edgeIndex[k] = e
			}
			e.Faces = append(e.Faces, f)
		}
	}

	for _, f := range m.Faces {
		for _, v := range f.Verts {
			v.Normal = r3.Add(v.Normal, f.Normal)
		}
	}
	for _, v := range m.Verts {
		if l := r3.Norm(v.Normal); l > 0 {
			v.Normal = r3.Scale(1/l, v.Normal)
		}
	}
}

// EdgeBetween returns the edge joining a and b, or nil. Requires a
// current index.
func (m *Mesh) EdgeBetween(a, b *Vertex) *Edge {
	return m.edgeIndex[keyFor(a, b)]
}

// FaceEdge returns the edge under the face's i-th boundary segment
// (from vertex i to vertex i+1). Requires a current index.
func (m *Mesh) FaceEdge(f *Face, i int) *Edge {
	n := len(f.Verts)
	return m.EdgeBetween(f.Verts[i%n], f.Verts[(i+1)%n])
}

// DeleteFaces removes every face in dead, then removes vertices no
// longer referenced by any remaining face. The index is stale afterward.
func (m *Mesh) DeleteFaces(dead map[*Face]bool) {
	if len(dead) == 0 {
		return
	}
	kept := m.Faces[:0]
	for _, f := range m.Faces {
		if !dead[f] {
			kept = append(kept, f)
		}
	}
	m.Faces = kept
	m.pruneUnusedVerts()
}

// pruneUnusedVerts drops vertices referenced by no face.
func (m *Mesh) pruneUnusedVerts() {
	used := make(map[*Vertex]bool, len(m.Verts))
	for _, f := range m.Faces {
		for _, v := range f.Verts {
			used[v] = true
		}
	}
	kept := m.Verts[:0]
	for _, v := range m.Verts {
		if used[v] {
			kept = append(kept, v)
		}
	}
	m.Verts = kept
}

// Clone returns a deep copy of the mesh with a freshly built index.
func (m *Mesh) Clone() *Mesh {
	c := New()
	vmap := make(map[*Vertex]*Vertex, len(m.Verts))
	for _, v := range m.Verts {
		nv := c.AddVertex(v.Co)
		nv.Normal = v.Normal
		vmap[v] = nv
	}
	for _, f := range m.Faces {
		verts := make([]*Vertex, len(f.Verts))
		for i, v := range f.Verts {
			verts[i] = vmap[v]
		}
		nf, err := c.AddFace(verts...)
		if err != nil {
			continue
		}
		nf.Tag = f.Tag
	}
	c.RebuildIndex()
	return c
}

// Transform applies a 4x4 world transform to every vertex position.
// The index (normals included) is stale afterward.
func (m *Mesh) Transform(mat mgl64.Mat4) {
	for _, v := range m.Verts {
		p := mat.Mul4x1(mgl64.Vec4{v.Co.X, v.Co.Y, v.Co.Z, 1})
		v.Co = r3.Vec{X: p.X(), Y: p.Y(), Z: p.Z()}
	}
}
