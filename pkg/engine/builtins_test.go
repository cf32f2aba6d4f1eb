package engine

import (
	"path/filepath"
	"strings"
	"testing"
)

// run evaluates source and fails the test on any error.
func run(t *testing.T, source string) *Session {
	t.Helper()
	s, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	return s
}

func TestBuiltinCubeAndStore(t *testing.T) {
	s := run(t, `(store "box" (cube :size 2))`)

	m := s.Mesh("box")
	if m == nil {
		t.Fatal("expected stored mesh")
	}
	if len(m.Verts) != 8 || len(m.Faces) != 6 {
		t.Errorf("expected a cube, got %d verts %d faces", len(m.Verts), len(m.Faces))
	}
}

func TestBuiltinCubeDefaultSize(t *testing.T) {
	s := run(t, `(store "box" (cube))`)
	m := s.Mesh("box")
	if m == nil {
		t.Fatal("expected stored mesh")
	}
	for _, v := range m.Verts {
		if v.Co.X != 0.5 && v.Co.X != -0.5 {
			t.Errorf("expected unit cube corner, got %v", v.Co)
		}
	}
}

func TestBuiltinMeshInfo(t *testing.T) {
	s := run(t, `(mesh-info (cube :size 1))`)

	if len(s.Output) != 1 {
		t.Fatalf("expected 1 output line, got %d", len(s.Output))
	}
	if !strings.Contains(s.Output[0], "verts=8") || !strings.Contains(s.Output[0], "faces=6") {
		t.Errorf("unexpected info line: %q", s.Output[0])
	}
}

func TestBuiltinWireframe(t *testing.T) {
	s := run(t, `(store "frame" (wireframe (cube :size 2) :thickness 0.2 :cells "walls"))`)

	frame := s.Mesh("frame")
	if frame == nil {
		t.Fatal("expected frame mesh")
	}
	if len(frame.Faces) != 48 {
		t.Errorf("expected 48 ribbon faces, got %d", len(frame.Faces))
	}
	walls := s.Mesh("walls")
	if walls == nil {
		t.Fatal("expected cells mesh")
	}
	if len(walls.Faces) != 12 {
		t.Errorf("expected 12 cell walls, got %d", len(walls.Faces))
	}
	if len(s.Output) == 0 {
		t.Error("expected diagnostics output")
	}
}

func TestBuiltinLoadSTLMissingFile(t *testing.T) {
	eng := NewEngine()
	_, evalErrs, err := eng.Evaluate(`(wireframe (load-stl "/no/such/file.stl"))`)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval errors for missing file")
	}
}

func TestBuiltinDualMesh(t *testing.T) {
	s := run(t, `(store "d" (dual-mesh (cube :size 2)))`)

	d := s.Mesh("d")
	if d == nil {
		t.Fatal("expected dual mesh")
	}
	if len(d.Verts) != 6 || len(d.Faces) != 8 {
		t.Errorf("expected an octahedron, got %d verts %d faces", len(d.Verts), len(d.Faces))
	}
}

func TestBuiltinDualTessellated(t *testing.T) {
	s := run(t, `(store "d" (dual-tessellated (cube :size 2) :source-faces :quad))`)

	if s.Mesh("d") == nil {
		t.Fatal("expected tessellated dual")
	}
	if len(s.Mesh("d").Faces) == 0 {
		t.Error("expected non-empty dual")
	}
}

func TestBuiltinDualTessellatedBadMode(t *testing.T) {
	eng := NewEngine()
	_, evalErrs, err := eng.Evaluate(`(dual-tessellated (cube) :source-faces :hex)`)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval errors for invalid mode")
	}
}

func TestBuiltinSaveLoadSTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "box.stl")

	run(t, `(save-stl (cube :size 2) "`+path+`")`)

	s := run(t, `(store "in" (load-stl "`+path+`"))`)
	m := s.Mesh("in")
	if m == nil {
		t.Fatal("expected loaded mesh")
	}
	if len(m.Faces) != 12 {
		t.Errorf("expected 12 triangles, got %d", len(m.Faces))
	}
}

func TestBuiltinWrongArgType(t *testing.T) {
	eng := NewEngine()
	_, evalErrs, err := eng.Evaluate(`(wireframe 42)`)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval errors for non-mesh argument")
	}
}
