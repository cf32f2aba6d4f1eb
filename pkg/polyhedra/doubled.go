package polyhedra

import (
	"github.com/meshops/polyframe/pkg/mesh"
)

// BuildDoubled builds the duplicated-face mesh: every source face
// appears twice, first with its stored winding and then reversed, at
// face indices 2k and 2k+1. Vertices are not shared between duplicated
// faces; the wireframe builder welds them per cell later. The returned
// mesh has a current index.
func BuildDoubled(src *mesh.Mesh) *mesh.Mesh {
	out := mesh.New()
	for _, f := range src.Faces {
		fwd := make([]*mesh.Vertex, len(f.Verts))
		for i, v := range f.Verts {
			fwd[i] = out.AddVertex(v.Co)
		}
		rev := make([]*mesh.Vertex, len(f.Verts))
		for i := range f.Verts {
			rev[i] = out.AddVertex(f.Verts[len(f.Verts)-1-i].Co)
		}
		out.AddFace(fwd...)
		out.AddFace(rev...)
	}
	out.RebuildIndex()
	return out
}
