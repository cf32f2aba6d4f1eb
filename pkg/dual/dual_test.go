package dual

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/meshops/polyframe/pkg/mesh"
)

func TestDualCubeIsOctahedron(t *testing.T) {
	out := Dual(mesh.Cube(2), Options{})

	// Six face centroids, one triangle fan per cube corner.
	if len(out.Verts) != 6 {
		t.Errorf("expected 6 verts, got %d", len(out.Verts))
	}
	if len(out.Faces) != 8 {
		t.Errorf("expected 8 faces, got %d", len(out.Faces))
	}
	for _, f := range out.Faces {
		if len(f.Verts) != 3 {
			t.Errorf("expected triangles, got %d-gon", len(f.Verts))
		}
	}
	if err := out.CheckClosed(); err != nil {
		t.Errorf("dual of a closed cube should be closed: %v", err)
	}
	// Centroids sit on the axes at distance 1.
	for _, v := range out.Verts {
		if math.Abs(r3.Norm(v.Co)-1) > 1e-9 {
			t.Errorf("centroid at %v, expected distance 1 from origin", v.Co)
		}
	}
}

func TestDualPlaneDropsBorders(t *testing.T) {
	// A 2x2 grid has a single interior vertex; without border
	// preservation only its fan becomes a face.
	out := Dual(mesh.Plane(2, 2, 2, 2), Options{})

	if len(out.Faces) != 1 {
		t.Fatalf("expected 1 face, got %d", len(out.Faces))
	}
	if len(out.Faces[0].Verts) != 4 {
		t.Errorf("expected quad fan, got %d-gon", len(out.Faces[0].Verts))
	}
}

func TestDualPlanePreserveBorders(t *testing.T) {
	out := Dual(mesh.Plane(2, 2, 2, 2), Options{PreserveBorders: true})

	// Interior fan plus one boundary face per border vertex.
	if len(out.Faces) != 9 {
		t.Fatalf("expected 9 faces, got %d", len(out.Faces))
	}
	// Corner vertices produce faces touching one centroid and the
	// original corner position.
	corners := 0
	for _, f := range out.Faces {
		for _, v := range f.Verts {
			if math.Abs(math.Abs(v.Co.X)-1) < 1e-9 && math.Abs(math.Abs(v.Co.Y)-1) < 1e-9 {
				corners++
			}
		}
	}
	if corners != 4 {
		t.Errorf("expected the 4 grid corners in the output, got %d", corners)
	}
}

func TestDualSkipsNonManifold(t *testing.T) {
	// Three triangles sharing one edge: the fans of the shared edge's
	// endpoints cannot be walked and are skipped. The outer tips still
	// produce their single-face boundary fans.
	m := mesh.New()
	a := m.AddVertex(r3.Vec{})
	b := m.AddVertex(r3.Vec{Z: 1})
	c := m.AddVertex(r3.Vec{X: 1})
	d := m.AddVertex(r3.Vec{Y: 1})
	e := m.AddVertex(r3.Vec{X: -1})
	m.AddFace(a, b, c)
	m.AddFace(a, b, d)
	m.AddFace(a, b, e)
	m.RebuildIndex()

	out := Dual(m, Options{PreserveBorders: true})
	if len(out.Faces) != 3 {
		t.Fatalf("expected 3 tip fans, got %d faces", len(out.Faces))
	}
	for _, f := range out.Faces {
		if len(f.Verts) != 4 {
			t.Errorf("expected 4-vertex boundary fan, got %d-gon", len(f.Verts))
		}
	}

	// Without border preservation nothing survives.
	out = Dual(m, Options{})
	if len(out.Faces) != 0 {
		t.Errorf("expected no faces, got %d", len(out.Faces))
	}
}
