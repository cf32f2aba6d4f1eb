package mesh

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestAddFaceRejectsDegenerate(t *testing.T) {
	m := New()
	a := m.AddVertex(r3.Vec{})
	b := m.AddVertex(r3.Vec{X: 1})

	if _, err := m.AddFace(a, b); err == nil {
		t.Fatal("expected error for 2-vertex face")
	}
	if _, err := m.AddFace(a, b, m.AddVertex(r3.Vec{Y: 1})); err != nil {
		t.Fatalf("unexpected error for triangle: %v", err)
	}
}

func TestCubeTopology(t *testing.T) {
	m := Cube(2)

	if len(m.Verts) != 8 {
		t.Errorf("expected 8 verts, got %d", len(m.Verts))
	}
	if len(m.Edges) != 12 {
		t.Errorf("expected 12 edges, got %d", len(m.Edges))
	}
	if len(m.Faces) != 6 {
		t.Errorf("expected 6 faces, got %d", len(m.Faces))
	}
	// Every edge of a closed cube borders exactly two faces.
	for _, e := range m.Edges {
		if len(e.Faces) != 2 {
			t.Errorf("edge %d has %d faces, expected 2", e.Index, len(e.Faces))
		}
	}
	if err := m.CheckClosed(); err != nil {
		t.Errorf("cube should be closed: %v", err)
	}
}

func TestCubeNormalsPointOutward(t *testing.T) {
	m := Cube(2)

	for _, f := range m.Faces {
		c := f.Centroid()
		// For an origin-centered cube the centroid direction is outward.
		if r3.Dot(f.Normal, c) <= 0 {
			t.Errorf("face %d normal %v points inward (centroid %v)", f.Index, f.Normal, c)
		}
		if math.Abs(r3.Norm(f.Normal)-1) > 1e-9 {
			t.Errorf("face %d normal not unit length: %v", f.Index, f.Normal)
		}
	}
}

func TestPlaneIsOpen(t *testing.T) {
	m := Plane(2, 2, 2, 2)

	if len(m.Faces) != 4 {
		t.Fatalf("expected 4 faces, got %d", len(m.Faces))
	}
	naked := m.NakedEdges()
	if len(naked) != 8 {
		t.Errorf("expected 8 naked border edges, got %d", len(naked))
	}
	err := m.CheckClosed()
	if err == nil {
		t.Fatal("expected naked edge error for open plane")
	}
	if !errors.Is(err, ErrNakedEdge) {
		t.Errorf("expected ErrNakedEdge, got %v", err)
	}
}

func TestEdgeBetween(t *testing.T) {
	m := Cube(1)

	a, b := m.Verts[0], m.Verts[1]
	e := m.EdgeBetween(a, b)
	if e == nil {
		t.Fatal("expected edge between adjacent cube corners")
	}
	// Edge lookup is orientation independent.
	if m.EdgeBetween(b, a) != e {
		t.Error("edge lookup should ignore vertex order")
	}
	if m.EdgeBetween(m.Verts[0], m.Verts[6]) != nil {
		t.Error("expected no edge across the cube diagonal")
	}
}

func TestFaceEdgeWalksLoop(t *testing.T) {
	m := Cube(1)
	f := m.Faces[0]

	for i := range f.Verts {
		e := m.FaceEdge(f, i)
		if e == nil {
			t.Fatalf("missing edge at loop position %d", i)
		}
		a := f.Verts[i]
		b := f.Verts[(i+1)%len(f.Verts)]
		if !((e.V[0] == a && e.V[1] == b) || (e.V[0] == b && e.V[1] == a)) {
			t.Errorf("edge at position %d does not join verts %d and %d", i, a.Index, b.Index)
		}
	}
}

func TestDeleteFacesPrunesVerts(t *testing.T) {
	m := Cube(1)

	dead := map[*Face]bool{m.Faces[0]: true}
	m.DeleteFaces(dead)
	if len(m.Faces) != 5 {
		t.Errorf("expected 5 faces, got %d", len(m.Faces))
	}
	// All 8 corners still belong to remaining faces.
	if len(m.Verts) != 8 {
		t.Errorf("expected 8 verts, got %d", len(m.Verts))
	}

	// Deleting everything empties the mesh.
	all := make(map[*Face]bool)
	for _, f := range m.Faces {
		all[f] = true
	}
	m.DeleteFaces(all)
	if len(m.Faces) != 0 || len(m.Verts) != 0 {
		t.Errorf("expected empty mesh, got %d faces %d verts", len(m.Faces), len(m.Verts))
	}
}

func TestCloneIsIndependent(t *testing.T) {
	m := Cube(1)
	c := m.Clone()

	if len(c.Verts) != len(m.Verts) || len(c.Faces) != len(m.Faces) {
		t.Fatalf("clone shape mismatch: %d/%d verts, %d/%d faces",
			len(c.Verts), len(m.Verts), len(c.Faces), len(m.Faces))
	}
	c.Verts[0].Co = r3.Vec{X: 99}
	if m.Verts[0].Co.X == 99 {
		t.Error("mutating the clone changed the source")
	}
}

func TestTransformTranslates(t *testing.T) {
	m := Cube(2)
	m.Transform(mgl64.Translate3D(10, 0, 0))

	for _, v := range m.Verts {
		if v.Co.X < 9 || v.Co.X > 11 {
			t.Errorf("vertex %d not translated: %v", v.Index, v.Co)
		}
	}
}

func TestVertexNormalsUnit(t *testing.T) {
	m := Cube(2)

	for _, v := range m.Verts {
		if math.Abs(r3.Norm(v.Normal)-1) > 1e-9 {
			t.Errorf("vertex %d normal not unit: %v", v.Index, v.Normal)
		}
		// Corner normals of a cube point away from the origin.
		if r3.Dot(v.Normal, v.Co) <= 0 {
			t.Errorf("vertex %d normal points inward", v.Index)
		}
	}
}
