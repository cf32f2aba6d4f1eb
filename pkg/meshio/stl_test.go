package meshio

import (
	"bytes"
	"encoding/binary"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/meshops/polyframe/pkg/mesh"
)

const asciiQuad = `solid quad
facet normal 0 0 1
  outer loop
    vertex 0 0 0
    vertex 1 0 0
    vertex 1 1 0
  endloop
endfacet
facet normal 0 0 1
  outer loop
    vertex 0 0 0
    vertex 1 1 0
    vertex 0 1 0
  endloop
endfacet
endsolid quad
`

func TestReadASCII(t *testing.T) {
	m, err := Read(strings.NewReader(asciiQuad))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Faces) != 2 {
		t.Errorf("expected 2 triangles, got %d", len(m.Faces))
	}
	// Shared coordinates collapse to shared vertices.
	if len(m.Verts) != 4 {
		t.Errorf("expected 4 shared verts, got %d", len(m.Verts))
	}
	// The diagonal is the only interior edge.
	if naked := m.NakedEdges(); len(naked) != 4 {
		t.Errorf("expected 4 naked edges, got %d", len(naked))
	}
}

func TestReadASCIIDangling(t *testing.T) {
	src := "solid x\nfacet normal 0 0 1\nouter loop\nvertex 0 0 0\nvertex 1 0 0\nendloop\nendfacet\nendsolid x\n"
	if _, err := Read(strings.NewReader(src)); err == nil {
		t.Fatal("expected error for incomplete triangle")
	}
}

func writeBinarySTL(buf *bytes.Buffer, tris [][9]float32) {
	buf.Write(make([]byte, 80))
	binary.Write(buf, binary.LittleEndian, uint32(len(tris)))
	for _, tri := range tris {
		binary.Write(buf, binary.LittleEndian, [3]float32{}) // normal
		binary.Write(buf, binary.LittleEndian, tri)
		binary.Write(buf, binary.LittleEndian, uint16(0))
	}
}

func TestReadBinary(t *testing.T) {
	var buf bytes.Buffer
	writeBinarySTL(&buf, [][9]float32{
		{0, 0, 0, 1, 0, 0, 1, 1, 0},
		{0, 0, 0, 1, 1, 0, 0, 1, 0},
	})

	m, err := Read(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Faces) != 2 || len(m.Verts) != 4 {
		t.Errorf("expected 2 faces and 4 verts, got %d and %d", len(m.Faces), len(m.Verts))
	}
}

func TestReadBinaryTruncated(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(make([]byte, 80))
	binary.Write(&buf, binary.LittleEndian, uint32(5)) // declares 5, holds 0

	if _, err := Read(&buf); err == nil {
		t.Fatal("expected error for truncated binary STL")
	}
}

func TestReadSkipsDegenerateTriangles(t *testing.T) {
	var buf bytes.Buffer
	writeBinarySTL(&buf, [][9]float32{
		{0, 0, 0, 0, 0, 0, 1, 1, 0}, // two coincident corners
	})

	m, err := Read(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Faces) != 0 {
		t.Errorf("expected degenerate triangle to be dropped, got %d faces", len(m.Faces))
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube.stl")
	src := mesh.Cube(2)

	if err := WriteSTL(path, src); err != nil {
		t.Fatalf("write: %v", err)
	}
	m, err := ReadSTL(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	// Quads fan into two triangles each; the corners are shared again.
	if len(m.Faces) != 12 {
		t.Errorf("expected 12 triangles, got %d", len(m.Faces))
	}
	if len(m.Verts) != 8 {
		t.Errorf("expected 8 verts, got %d", len(m.Verts))
	}
	if err := m.CheckClosed(); err != nil {
		t.Errorf("round-tripped cube should be closed: %v", err)
	}
	for _, v := range m.Verts {
		for _, c := range []float64{v.Co.X, v.Co.Y, v.Co.Z} {
			if math.Abs(math.Abs(c)-1) > 1e-6 {
				t.Fatalf("unexpected corner %v", v.Co)
			}
		}
	}
}

func TestWriteEmptyMesh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.stl")
	if err := WriteSTL(path, mesh.New()); err == nil {
		t.Fatal("expected error for empty mesh")
	}
}
