// Package tessellate maps a flat component mesh onto every face of a
// generator mesh. Component vertex coordinates are interpreted in the
// unit square: X and Y locate the vertex on the face, Z displaces it
// along the face normal. Quads are mapped bilinearly; triangles are
// treated as quads with the last corner doubled.
package tessellate

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/meshops/polyframe/pkg/mesh"
)

// DefaultMergeDist is the weld tolerance used when merging is enabled
// without an explicit distance.
const DefaultMergeDist = 0.001

// Component is the unit-square pattern mapped onto each generator
// face, plus the vertex-index pairs of its seam edges. Mapped seam
// edges can be dissolved after merging to hide the pattern borders.
type Component struct {
	Mesh  *mesh.Mesh
	Seams [][2]int
}

// Options controls a tessellation run.
type Options struct {
	// Merge welds coincident vertices between neighboring instances.
	Merge bool
	// MergeDist is the weld tolerance; zero means DefaultMergeDist.
	MergeDist float64
	// DissolveSeams dissolves the mapped seam edges after merging.
	// Requires Merge.
	DissolveSeams bool
}

// Tessellate instantiates the component once per generator face.
// Faces with more than four vertices are skipped. The generator must
// have a current index; the result has one.
func Tessellate(generator *mesh.Mesh, comp Component, opts Options) (*mesh.Mesh, error) {
	if comp.Mesh == nil || len(comp.Mesh.Faces) == 0 {
		return nil, fmt.Errorf("tessellate: empty component")
	}

	slots, err := seamEdgeSlots(comp)
	if err != nil {
		return nil, err
	}

	out := mesh.New()
	// Output faces per instance, indexed like the component's faces,
	// for seam edge recovery after the weld.
	var instances [][]*mesh.Face

	for _, g := range generator.Faces {
		if len(g.Verts) > 4 {
			continue
		}
		p0 := g.Verts[0].Co
		p1 := g.Verts[1].Co
		p2 := g.Verts[2].Co
		p3 := p2
		if len(g.Verts) == 4 {
			p3 = g.Verts[3].Co
		}

		vmap := make([]*mesh.Vertex, len(comp.Mesh.Verts))
		for i, cv := range comp.Mesh.Verts {
			p := bilinear(p0, p1, p2, p3, cv.Co.X, cv.Co.Y)
			if cv.Co.Z != 0 {
				p = r3.Add(p, r3.Scale(cv.Co.Z, g.Normal))
			}
			vmap[i] = out.AddVertex(p)
		}
		inst := make([]*mesh.Face, len(comp.Mesh.Faces))
		for i, cf := range comp.Mesh.Faces {
			verts := make([]*mesh.Vertex, len(cf.Verts))
			for j, cv := range cf.Verts {
				verts[j] = vmap[cv.Index]
			}
			nf, err := out.AddFace(verts...)
			if err != nil {
				return nil, fmt.Errorf("tessellate: face %d: %w", g.Index, err)
			}
			nf.Tag = g.Tag
			inst[i] = nf
		}
		instances = append(instances, inst)
	}
	out.RebuildIndex()

	if opts.Merge {
		dist := opts.MergeDist
		if dist == 0 {
			dist = DefaultMergeDist
		}
		if out.WeldAll(dist) > 0 {
			out.RebuildIndex()
		}

		if opts.DissolveSeams {
			seen := make(map[*mesh.Edge]bool)
			var seams []*mesh.Edge
			for _, inst := range instances {
				for _, slot := range slots {
					e := out.FaceEdge(inst[slot.face], slot.pos)
					if e != nil && !seen[e] {
						seen[e] = true
						seams = append(seams, e)
					}
				}
			}
			out.DissolveEdges(seams, true)
			out.RebuildIndex()
		}
	}
	return out, nil
}

// seamSlot locates a seam edge as a boundary-segment position on a
// component face, which survives vertex welding.
type seamSlot struct {
	face int
	pos  int
}

func seamEdgeSlots(comp Component) ([]seamSlot, error) {
	var slots []seamSlot
	for _, seam := range comp.Seams {
		found := false
		for fi, f := range comp.Mesh.Faces {
			n := len(f.Verts)
			for i := 0; i < n; i++ {
				a, b := f.Verts[i].Index, f.Verts[(i+1)%n].Index
				if (a == seam[0] && b == seam[1]) || (a == seam[1] && b == seam[0]) {
					slots = append(slots, seamSlot{face: fi, pos: i})
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("tessellate: seam %v not on any component face", seam)
		}
	}
	return slots, nil
}

// bilinear maps unit-square coordinates onto the quad p0..p3, with u
// running along p0->p1 and v along p0->p3.
func bilinear(p0, p1, p2, p3 r3.Vec, u, v float64) r3.Vec {
	bottom := r3.Add(r3.Scale(1-u, p0), r3.Scale(u, p1))
	top := r3.Add(r3.Scale(1-u, p3), r3.Scale(u, p2))
	return r3.Add(r3.Scale(1-v, bottom), r3.Scale(v, top))
}
