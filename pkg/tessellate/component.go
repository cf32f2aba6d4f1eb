package tessellate

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/meshops/polyframe/pkg/mesh"
)

// SourceFaces selects which dual component to build.
type SourceFaces int

const (
	// Quad is faster when the generator contains only quads.
	Quad SourceFaces = iota
	// Tri works with any geometry once the generator is triangulated.
	Tri
)

func (s SourceFaces) String() string {
	if s == Quad {
		return "quad"
	}
	return "tri"
}

// DualComponent returns the canned component whose tessellation over a
// mesh produces that mesh's dual: instance corners sit on face
// midpoints so that merged instances form one polygon per source
// vertex, with the seams marking the instance borders to dissolve.
func DualComponent(s SourceFaces) Component {
	var verts [][2]float64
	var faces [][]int
	var seams [][2]int

	if s == Quad {
		verts = [][2]float64{
			{1.0, 0.0}, {0.5, 0.0}, {0.0, 0.0}, {0.0, 0.5},
			{0.0, 1.0}, {0.5, 1.0}, {1.0, 1.0}, {1.0, 0.5},
			{2.0 / 3, 1.0 / 3}, {1.0 / 3, 2.0 / 3},
		}
		faces = [][]int{
			{7, 8, 1, 0}, {8, 9, 3, 2, 1}, {9, 5, 4, 3}, {9, 8, 7, 6, 5},
		}
		seams = [][2]int{
			{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 6}, {6, 7}, {8, 7},
		}
	} else {
		verts = [][2]float64{
			{0.0, 0.0}, {1.0, 0.0}, {0.0, 1.0}, {1.0, 1.0},
			{0.5, 1.0 / 3}, {0.0, 0.5}, {1.0, 0.5}, {0.5, 0.0},
		}
		faces = [][]int{
			{5, 0, 7, 4}, {7, 1, 6, 4}, {3, 2, 5, 4, 6},
		}
		seams = [][2]int{
			{0, 5}, {1, 7}, {3, 6}, {2, 3}, {2, 5}, {1, 6}, {4, 5},
		}
	}

	m := mesh.New()
	vs := make([]*mesh.Vertex, len(verts))
	for i, co := range verts {
		vs[i] = m.AddVertex(r3.Vec{X: co[0], Y: co[1]})
	}
	for _, fv := range faces {
		fverts := make([]*mesh.Vertex, len(fv))
		for j, idx := range fv {
			fverts[j] = vs[idx]
		}
		m.AddFace(fverts...)
	}
	m.RebuildIndex()

	return Component{Mesh: m, Seams: seams}
}
