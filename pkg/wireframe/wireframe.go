package wireframe

import (
	"log"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/meshops/polyframe/pkg/mesh"
	"github.com/meshops/polyframe/pkg/polyhedra"
)

// sinEps guards the bisector scaling against division by zero. Below
// it the offset falls back to half thickness undivided.
const sinEps = 1e-9

// Result bundles the two output meshes and the run diagnostics.
type Result struct {
	// Cells is the duplicated-face mesh with every face tagged by the
	// index of the polyhedron it belongs to.
	Cells *mesh.Mesh
	// Frame is the final wireframe geometry, world-transformed.
	Frame *mesh.Mesh
	Diag  Diagnostics
}

// thinWall classifies a cell wall as too narrow to frame at the given
// thickness; such walls take the flat-face path. The default keeps
// every wall, as an extension point for a self-intersection heuristic
// once a validated threshold exists. Package-level so tests can swap
// the predicate.
var thinWall = func(f *mesh.Face, thickness float64) bool {
	return false
}

// Run executes the polyhedra-wireframe operator on a snapshot of src.
// src itself is never mutated. An edge bordered by fewer than two
// faces aborts the run with mesh.ErrNakedEdge and no output.
func Run(src *mesh.Mesh, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Transform == (mgl64.Mat4{}) {
		cfg.Transform = mgl64.Ident4()
	}

	start := time.Now()
	diag := Diagnostics{}
	phase := func(name string) {
		diag.Phases = append(diag.Phases, Phase{Name: name, Elapsed: time.Since(start)})
		log.Printf("polyframe: wireframe, %s in %.4f sec", name, time.Since(start).Seconds())
	}

	work := src.Clone()
	if cfg.Segments > 1 {
		work.SubdivideProportional(cfg.Segments)
		work.RebuildIndex()
	}

	doubled := polyhedra.BuildDoubled(work)
	polys, stats, err := polyhedra.Detect(work)
	if err != nil {
		return nil, err
	}
	diag.Polyhedra = stats.Polyhedra
	diag.Unmatched = stats.Unmatched

	// Resolve every cell's member faces up front. The per-cell welds
	// below can drop collapsed faces from the doubled mesh, which
	// invalidates the positional index encoding behind DoubledFaces.
	memberFaces := make([][]*mesh.Face, len(polys))
	oppositeFaces := make([][]*mesh.Face, len(polys))
	for i, p := range polys {
		memberFaces[i] = p.DoubledFaces(doubled)
		oppositeFaces[i] = p.OppositeDoubledFaces(doubled)
		for _, f := range memberFaces[i] {
			f.Tag = i
		}
	}
	log.Printf("polyframe: wireframe, found %d polyhedra in %.4f sec",
		len(polys), time.Since(start).Seconds())
	phase("detect")

	mergeDist := cfg.MergeDist()

	// Classify each cell's walls and weld near-duplicate vertices
	// among its member faces. Cells with fewer than two frame-worthy
	// walls are discarded whole, and their opposite-side instances are
	// barred from framing too.
	deleted := make(map[*mesh.Face]bool)
	barred := make(map[*mesh.Face]bool)
	var wireFaces []*mesh.Face
	var flatFaces []*mesh.Face

	present := faceSet(doubled)
	for i := range polys {
		var wirePoly, flatPoly []*mesh.Face
		var mergeVerts []*mesh.Vertex
		for _, f := range memberFaces[i] {
			if deleted[f] || !present[f] {
				continue
			}
			if thinWall(f, cfg.Thickness) {
				flatPoly = append(flatPoly, f)
			} else {
				wirePoly = append(wirePoly, f)
			}
			mergeVerts = append(mergeVerts, f.Verts...)
		}
		if len(wirePoly) < 2 {
			for _, f := range memberFaces[i] {
				deleted[f] = true
			}
			for _, f := range oppositeFaces[i] {
				barred[f] = true
			}
		} else {
			wireFaces = append(wireFaces, wirePoly...)
			flatFaces = append(flatFaces, flatPoly...)
		}
		// A weld can collapse sliver walls below three distinct
		// vertices; such faces vanish from the doubled mesh and must
		// not reach the framing passes.
		if doubled.Weld(mergeVerts, mergeDist) > 0 {
			doubled.RebuildIndex()
			present = faceSet(doubled)
		}
	}

	wireFaces = dedupFaces(wireFaces, barred, present)
	flatFaces = dedupFaces(flatFaces, nil, present)
	phase("merge and delete")

	cells := doubled.Clone()

	// Build the frame topology: offset every retained wall's loop
	// inward along per-vertex tangents and bridge old and new loops
	// with ribbon quads.
	var newFaces []*mesh.Face
	var wireLengths []float64
	for _, f := range wireFaces {
		f.RecalcNormal()
		normal := f.Normal
		loop := append([]*mesh.Vertex(nil), f.Verts...)
		n := len(loop)

		tangents := make([]r3.Vec, n)
		for i := 0; i < n; i++ {
			prev := loop[(i+n-1)%n]
			v := loop[i]
			next := loop[(i+1)%n]
			vec0 := unitOrZero(r3.Sub(prev.Co, v.Co))
			vec1 := unitOrZero(r3.Sub(v.Co, next.Co))
			ang := (math.Pi - mesh.VecAngle(vec0, vec1)) / 2
			bis := unitOrZero(r3.Add(r3.Cross(normal, vec0), r3.Cross(normal, vec1)))
			scale := cfg.Thickness / 2
			if s := math.Sin(ang); math.Abs(s) > sinEps {
				scale /= s
			}
			tangents[i] = r3.Scale(scale, bis)
		}

		// The offset points into the wall, so the ribbon lies on it.
		const mult = -1.0
		newLoop := make([]*mesh.Vertex, n)
		for i, v := range loop {
			newLoop[i] = doubled.AddVertex(r3.Add(v.Co, r3.Scale(mult, tangents[i])))
		}
		for i := 0; i < n; i++ {
			v0, v1 := loop[i], loop[(i+1)%n]
			v2, v3 := newLoop[(i+1)%n], newLoop[i]
			nf, err := doubled.AddFace(v0, v1, v2, v3)
			if err != nil {
				continue
			}
			newFaces = append(newFaces, nf)
			wireLengths = append(wireLengths, r3.Norm(r3.Sub(v0.Co, v1.Co)))
		}
	}

	// Band the ribbon quads by segment length against the longest one.
	if len(wireLengths) > 0 && cfg.Segments > 0 {
		maxLen := 0.0
		for _, l := range wireLengths {
			if l > maxLen {
				maxLen = l
			}
		}
		if maxLen > 0 {
			maxSegment := maxLen / float64(cfg.Segments)
			for i, f := range newFaces {
				band := int(wireLengths[i] / maxSegment)
				if band > cfg.Segments-1 {
					band = cfg.Segments - 1
				}
				f.Tag = band
			}
		}
	}
	phase("frames")

	// Topology is complete; displace corners to reach the requested
	// thickness. Vertex normals must be current for the ribbon verts.
	doubled.RebuildIndex()

	corners := make(map[*mesh.Vertex][]r3.Vec)
	touched := make(map[*mesh.Vertex]bool)
	for _, f := range newFaces {
		v0, v1 := f.Verts[0], f.Verts[1]
		corners[v0] = append(corners[v0], unitOrZero(r3.Sub(v1.Co, v0.Co)))
		touched[v0] = true
	}
	for v, vecs := range corners {
		nor := v.Normal
		ang := 0.0
		for _, vec := range vecs {
			ang += mesh.VecAngle(nor, vec)
		}
		ang /= float64(len(vecs))
		div := math.Sin(ang)
		if math.Abs(div) < sinEps {
			div = 1
		}
		v.Co = r3.Add(v.Co, r3.Scale(cfg.Thickness/2/div, nor))
	}
	phase("corners displace")

	// Walls kept but not framed stay as flat faces: tag them past the
	// band range and push their untouched corners out by half thickness.
	for _, f := range flatFaces {
		f.Tag = cfg.Segments + 1
		for _, v := range f.Verts {
			if !touched[v] {
				v.Co = r3.Add(v.Co, r3.Scale(cfg.Thickness/2, v.Normal))
				touched[v] = true
			}
		}
	}

	// The framed walls themselves are replaced by their ribbons.
	dead := make(map[*mesh.Face]bool, len(deleted)+len(wireFaces))
	for f := range deleted {
		dead[f] = true
	}
	for _, f := range wireFaces {
		dead[f] = true
	}
	doubled.DeleteFaces(dead)
	doubled.RebuildIndex()

	doubled.WeldAll(mergeDist)
	doubled.RebuildIndex()

	if cfg.DissolveInners {
		seen := make(map[*mesh.Edge]bool)
		var inner []*mesh.Edge
		for _, f := range doubled.Faces {
			e := doubled.FaceEdge(f, 2)
			if e != nil && !seen[e] {
				seen[e] = true
				inner = append(inner, e)
			}
		}
		doubled.DissolveEdges(inner, true)
		doubled.RebuildIndex()
	}

	doubled.Transform(cfg.Transform)
	doubled.RebuildIndex()
	phase("finish")

	return &Result{Cells: cells, Frame: doubled, Diag: diag}, nil
}

// faceSet indexes a mesh's current faces for membership checks.
func faceSet(m *mesh.Mesh) map[*mesh.Face]bool {
	set := make(map[*mesh.Face]bool, len(m.Faces))
	for _, f := range m.Faces {
		set[f] = true
	}
	return set
}

// dedupFaces drops duplicates, barred faces and faces no longer
// present in the mesh, preserving order.
func dedupFaces(faces []*mesh.Face, barred, present map[*mesh.Face]bool) []*mesh.Face {
	seen := make(map[*mesh.Face]bool, len(faces))
	out := faces[:0]
	for _, f := range faces {
		if seen[f] || barred[f] || !present[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

func unitOrZero(v r3.Vec) r3.Vec {
	l := r3.Norm(v)
	if l == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/l, v)
}
