package mesh

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// tallQuad is a 1x3 rectangle: the long sides fall in bucket 3 of 4,
// the short sides in bucket 1.
func tallQuad() *Mesh {
	m := New()
	a := m.AddVertex(r3.Vec{})
	b := m.AddVertex(r3.Vec{X: 1})
	c := m.AddVertex(r3.Vec{X: 1, Y: 3})
	d := m.AddVertex(r3.Vec{Y: 3})
	m.AddFace(a, b, c, d)
	m.RebuildIndex()
	return m
}

func TestSubdivideProportionalNoOp(t *testing.T) {
	m := tallQuad()

	m.SubdivideProportional(1)
	m.SubdivideProportional(2)
	if len(m.Verts) != 4 {
		t.Errorf("segments <= 2 must not split, got %d verts", len(m.Verts))
	}
}

func TestSubdivideProportionalSplitsMidBuckets(t *testing.T) {
	m := tallQuad()

	// maxLen=3, segments=4, maxSegment=0.75. Long edges land in bucket
	// 4 (left alone), short edges in bucket 1 (left alone). Nothing to
	// split here.
	m.SubdivideProportional(4)
	if len(m.Verts) != 4 {
		t.Errorf("expected no splits, got %d verts", len(m.Verts))
	}

	// With segments=6, maxSegment=0.5: short edges (len 1) land in
	// bucket 2 and get 2 cuts each; long edges in bucket 6 stay whole.
	m = tallQuad()
	m.SubdivideProportional(6)
	if len(m.Verts) != 8 {
		t.Errorf("expected 8 verts after splitting short edges, got %d", len(m.Verts))
	}
	f := m.Faces[0]
	if len(f.Verts) != 8 {
		t.Errorf("expected 8-vertex loop, got %d", len(f.Verts))
	}
}

func TestSplitEdgeKeepsBothWindings(t *testing.T) {
	// Two triangles sharing edge a-b, traversed in opposite directions.
	m := New()
	a := m.AddVertex(r3.Vec{})
	b := m.AddVertex(r3.Vec{X: 1})
	c := m.AddVertex(r3.Vec{Y: 1})
	d := m.AddVertex(r3.Vec{Y: -1})
	f1, _ := m.AddFace(a, b, c)
	f2, _ := m.AddFace(b, a, d)
	m.RebuildIndex()

	e := m.EdgeBetween(a, b)
	if e == nil {
		t.Fatal("missing shared edge")
	}
	m.splitEdge(e, 2)

	if len(f1.Verts) != 5 || len(f2.Verts) != 5 {
		t.Fatalf("expected 5-vertex loops, got %d and %d", len(f1.Verts), len(f2.Verts))
	}
	// Inserted vertices appear in opposite order on the two loops.
	i1 := f1.VertIndex(a)
	i2 := f2.VertIndex(b)
	m1 := f1.Verts[(i1+1)%5]
	m2 := f2.Verts[(i2+1)%5]
	if m1 == m2 {
		t.Error("expected opposite insertion order on opposing windings")
	}
	// Both loops share the same inserted vertices.
	if f1.Verts[(i1+2)%5] != m2 {
		t.Error("inserted vertices not shared between faces")
	}
}
