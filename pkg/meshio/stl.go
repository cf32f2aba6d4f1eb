// Package meshio reads and writes meshes as STL files. Loading welds
// identical vertices so that face adjacency is recovered from the
// triangle soup; writing triangulates polygonal faces as fans.
package meshio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/meshops/polyframe/pkg/mesh"
)

// binaryHeaderLen is the fixed STL binary header size.
const binaryHeaderLen = 80

// ReadSTL loads an STL file (binary or ASCII) into a mesh with a
// current index. Vertices with identical coordinates are shared.
func ReadSTL(path string) (*mesh.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("meshio: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read loads STL data from r, sniffing the format.
func Read(r io.Reader) (*mesh.Mesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("meshio: %w", err)
	}
	if isASCII(data) {
		return readASCII(data)
	}
	return readBinary(data)
}

// isASCII reports whether the payload looks like an ASCII STL: binary
// files may also begin with "solid", so the facet keyword is required.
func isASCII(data []byte) bool {
	if !bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid")) {
		return false
	}
	probe := data
	if len(probe) > 1024 {
		probe = probe[:1024]
	}
	return bytes.Contains(probe, []byte("facet"))
}

// dedup shares vertices between triangles by exact coordinates.
type dedup struct {
	m     *mesh.Mesh
	index map[[3]float64]*mesh.Vertex
}

func newDedup() *dedup {
	return &dedup{m: mesh.New(), index: make(map[[3]float64]*mesh.Vertex)}
}

func (d *dedup) vertex(co r3.Vec) *mesh.Vertex {
	key := [3]float64{co.X, co.Y, co.Z}
	if v, ok := d.index[key]; ok {
		return v
	}
	v := d.m.AddVertex(co)
	d.index[key] = v
	return v
}

func (d *dedup) triangle(a, b, c r3.Vec) {
	va, vb, vc := d.vertex(a), d.vertex(b), d.vertex(c)
	if va == vb || vb == vc || vc == va {
		return // degenerate
	}
	d.m.AddFace(va, vb, vc)
}

func readBinary(data []byte) (*mesh.Mesh, error) {
	if len(data) < binaryHeaderLen+4 {
		return nil, fmt.Errorf("meshio: binary STL truncated (%d bytes)", len(data))
	}
	n := binary.LittleEndian.Uint32(data[binaryHeaderLen:])
	const recLen = 12*4 + 2
	body := data[binaryHeaderLen+4:]
	if uint64(len(body)) < uint64(n)*recLen {
		return nil, fmt.Errorf("meshio: binary STL truncated: %d triangles declared", n)
	}

	d := newDedup()
	for i := 0; i < int(n); i++ {
		rec := body[i*recLen:]
		// Skip the stored normal; it is rederived from the winding.
		var tri [3]r3.Vec
		for v := 0; v < 3; v++ {
			base := 12 + v*12
			tri[v] = r3.Vec{
				X: float64(math.Float32frombits(binary.LittleEndian.Uint32(rec[base:]))),
				Y: float64(math.Float32frombits(binary.LittleEndian.Uint32(rec[base+4:]))),
				Z: float64(math.Float32frombits(binary.LittleEndian.Uint32(rec[base+8:]))),
			}
		}
		d.triangle(tri[0], tri[1], tri[2])
	}
	d.m.RebuildIndex()
	return d.m, nil
}

func readASCII(data []byte) (*mesh.Mesh, error) {
	d := newDedup()
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	var tri []r3.Vec
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || fields[0] != "vertex" {
			continue
		}
		if len(fields) < 4 {
			return nil, fmt.Errorf("meshio: line %d: malformed vertex", line)
		}
		var co [3]float64
		for i := 0; i < 3; i++ {
			f, err := strconv.ParseFloat(fields[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("meshio: line %d: %w", line, err)
			}
			co[i] = f
		}
		tri = append(tri, r3.Vec{X: co[0], Y: co[1], Z: co[2]})
		if len(tri) == 3 {
			d.triangle(tri[0], tri[1], tri[2])
			tri = tri[:0]
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("meshio: %w", err)
	}
	if len(tri) != 0 {
		return nil, fmt.Errorf("meshio: dangling vertices at end of file")
	}
	d.m.RebuildIndex()
	return d.m, nil
}

// Triangles converts the mesh to render triangles, fanning polygonal
// faces around their first vertex.
func Triangles(m *mesh.Mesh) []*sdf.Triangle3 {
	var tris []*sdf.Triangle3
	for _, f := range m.Faces {
		for i := 1; i < len(f.Verts)-1; i++ {
			t := sdf.Triangle3{
				toV3(f.Verts[0].Co),
				toV3(f.Verts[i].Co),
				toV3(f.Verts[i+1].Co),
			}
			tris = append(tris, &t)
		}
	}
	return tris
}

// WriteSTL saves the mesh as a binary STL file.
func WriteSTL(path string, m *mesh.Mesh) error {
	tris := Triangles(m)
	if len(tris) == 0 {
		return fmt.Errorf("meshio: mesh has no faces")
	}
	if err := render.SaveSTL(path, tris); err != nil {
		return fmt.Errorf("meshio: %w", err)
	}
	return nil
}

func toV3(v r3.Vec) v3.Vec {
	return v3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}
