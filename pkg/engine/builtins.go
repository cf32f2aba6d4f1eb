package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/meshops/polyframe/pkg/dual"
	"github.com/meshops/polyframe/pkg/mesh"
	"github.com/meshops/polyframe/pkg/meshio"
	"github.com/meshops/polyframe/pkg/tessellate"
	"github.com/meshops/polyframe/pkg/wireframe"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource transforms script source before passing it to
// zygomys:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal),
//     so keywords need no registered globals.
//  2. Kebab-case to underscore: dual-mesh -> dual_mesh, since zygomys
//     reads hyphens as subtraction.
//  3. ; line comments become // comments.
//
// String literal boundaries are respected.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Copy quoted string literals untouched.
		if b[i] == '"' || b[i] == '`' {
			quote := b[i]
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != quote {
				if quote == '"' && b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// ; comments -> // comments.
		if b[i] == ';' {
			result = append(result, '/', '/')
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// :keyword -> "__kw_keyword", preserving := assignment.
		if b[i] == ':' && i+1 < len(b) && b[i+1] != '=' && isLetter(b[i+1]) {
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			result = append(result, '"')
			result = append(result, []byte(kwPrefix)...)
			result = append(result, b[i+1:j]...)
			result = append(result, '"')
			i = j
			continue
		}
		// Kebab identifiers: hyphen between identifier characters.
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isLetter(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types
// ---------------------------------------------------------------------------

// sexpMesh wraps a *mesh.Mesh so meshes can flow between builtins.
type sexpMesh struct {
	m *mesh.Mesh
}

func (s *sexpMesh) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(mesh :verts %d :faces %d)", len(s.m.Verts), len(s.m.Faces))
}
func (s *sexpMesh) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Argument helpers
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds a parsed mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected bool, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString accepts a preprocessed keyword or a plain string.
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

func toMesh(s zygo.Sexp) (*mesh.Mesh, error) {
	if sm, ok := s.(*sexpMesh); ok {
		return sm.m, nil
	}
	return nil, fmt.Errorf("expected mesh, got %T (%s)", s, s.SexpString(nil))
}

// meshArg pulls the leading positional mesh argument.
func meshArg(fn string, pa kwArgs) (*mesh.Mesh, error) {
	if len(pa.positional) < 1 {
		return nil, fmt.Errorf("%s: missing mesh argument", fn)
	}
	m, err := toMesh(pa.positional[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the polyframe builtins into a zygomys
// environment. The builtins operate on the provided session. Source
// code must be preprocessed with preprocessSource() before evaluation.
func registerBuiltins(env *zygo.Zlisp, s *Session) {

	// -----------------------------------------------------------------------
	// (load-stl "input.stl")
	// -----------------------------------------------------------------------
	env.AddFunction("load_stl", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("load-stl: missing path")
		}
		path, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("load-stl: %w", err)
		}
		m, err := meshio.ReadSTL(path)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("load-stl: %w", err)
		}
		return &sexpMesh{m: m}, nil
	})

	// -----------------------------------------------------------------------
	// (save-stl m "output.stl")
	// -----------------------------------------------------------------------
	env.AddFunction("save_stl", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		m, err := meshArg("save-stl", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("save-stl: missing path")
		}
		path, err := toString(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("save-stl: %w", err)
		}
		if err := meshio.WriteSTL(path, m); err != nil {
			return zygo.SexpNull, fmt.Errorf("save-stl: %w", err)
		}
		return pa.positional[0], nil
	})

	// -----------------------------------------------------------------------
	// (store "name" m) — register a mesh in the session
	// -----------------------------------------------------------------------
	env.AddFunction("store", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("store: want name and mesh")
		}
		key, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("store: %w", err)
		}
		m, err := toMesh(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("store: %w", err)
		}
		s.put(key, m)
		return pa.positional[1], nil
	})

	// -----------------------------------------------------------------------
	// (cube :size 2)
	// -----------------------------------------------------------------------
	env.AddFunction("cube", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		size := 1.0
		if v, ok := pa.kw["size"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cube: size: %w", err)
			}
			size = f
		}
		return &sexpMesh{m: mesh.Cube(size)}, nil
	})

	// -----------------------------------------------------------------------
	// (wireframe m :thickness 0.1 :segments 1 :dissolve-inners true
	//              :cells "cells")
	// -----------------------------------------------------------------------
	env.AddFunction("wireframe", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		m, err := meshArg("wireframe", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		cfg := wireframe.DefaultConfig()
		if v, ok := pa.kw["thickness"]; ok {
			if cfg.Thickness, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("wireframe: thickness: %w", err)
			}
		}
		if v, ok := pa.kw["segments"]; ok {
			if cfg.Segments, err = toInt(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("wireframe: segments: %w", err)
			}
		}
		if v, ok := pa.kw["dissolve-inners"]; ok {
			if cfg.DissolveInners, err = toBool(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("wireframe: dissolve-inners: %w", err)
			}
		}
		res, err := wireframe.Run(m, cfg)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("wireframe: %w", err)
		}
		s.printf("wireframe: %s", res.Diag)
		if v, ok := pa.kw["cells"]; ok {
			key, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("wireframe: cells: %w", err)
			}
			s.put(key, res.Cells)
		}
		return &sexpMesh{m: res.Frame}, nil
	})

	// -----------------------------------------------------------------------
	// (dual-mesh m :preserve-borders true)
	// -----------------------------------------------------------------------
	env.AddFunction("dual_mesh", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		m, err := meshArg("dual-mesh", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		opts := dual.Options{PreserveBorders: true}
		if v, ok := pa.kw["preserve-borders"]; ok {
			if opts.PreserveBorders, err = toBool(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("dual-mesh: preserve-borders: %w", err)
			}
		}
		return &sexpMesh{m: dual.Dual(m, opts)}, nil
	})

	// -----------------------------------------------------------------------
	// (dual-tessellated m :source-faces :tri)
	// -----------------------------------------------------------------------
	env.AddFunction("dual_tessellated", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		m, err := meshArg("dual-tessellated", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		mode := tessellate.Tri
		if v, ok := pa.kw["source-faces"]; ok {
			kw, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("dual-tessellated: source-faces: %w", err)
			}
			switch kw {
			case "quad":
				mode = tessellate.Quad
			case "tri":
				mode = tessellate.Tri
			default:
				return zygo.SexpNull, fmt.Errorf("dual-tessellated: invalid source-faces %q", kw)
			}
		}
		out, err := tessellate.Tessellate(m, tessellate.DualComponent(mode), tessellate.Options{
			Merge:         true,
			DissolveSeams: true,
		})
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("dual-tessellated: %w", err)
		}
		return &sexpMesh{m: out}, nil
	})

	// -----------------------------------------------------------------------
	// (mesh-info m)
	// -----------------------------------------------------------------------
	env.AddFunction("mesh_info", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		m, err := meshArg("mesh-info", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		naked := len(m.NakedEdges())
		info := fmt.Sprintf("verts=%d edges=%d faces=%d naked-edges=%d",
			len(m.Verts), len(m.Edges), len(m.Faces), naked)
		s.printf("mesh-info: %s", info)
		return &zygo.SexpStr{S: info}, nil
	})
}
