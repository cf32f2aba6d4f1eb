package mesh

import "gonum.org/v1/gonum/spatial/r3"

// Cube builds a closed axis-aligned cube centered on the origin with
// the given edge length. All faces are quads wound outward.
func Cube(size float64) *Mesh {
	h := size / 2
	m := New()
	vs := []*Vertex{
		m.AddVertex(r3.Vec{X: -h, Y: -h, Z: -h}),
		m.AddVertex(r3.Vec{X: h, Y: -h, Z: -h}),
		m.AddVertex(r3.Vec{X: h, Y: h, Z: -h}),
		m.AddVertex(r3.Vec{X: -h, Y: h, Z: -h}),
		m.AddVertex(r3.Vec{X: -h, Y: -h, Z: h}),
		m.AddVertex(r3.Vec{X: h, Y: -h, Z: h}),
		m.AddVertex(r3.Vec{X: h, Y: h, Z: h}),
		m.AddVertex(r3.Vec{X: -h, Y: h, Z: h}),
	}
	quads := [][4]int{
		{0, 3, 2, 1}, // bottom
		{4, 5, 6, 7}, // top
		{0, 1, 5, 4}, // front
		{1, 2, 6, 5}, // right
		{2, 3, 7, 6}, // back
		{3, 0, 4, 7}, // left
	}
	for _, q := range quads {
		m.AddFace(vs[q[0]], vs[q[1]], vs[q[2]], vs[q[3]])
	}
	m.RebuildIndex()
	return m
}

// Plane builds an open grid of nx by ny quads in the XY plane, spanning
// [-sx/2, sx/2] x [-sy/2, sy/2] at z=0. Its border edges are naked, which
// makes it useful for exercising open-mesh paths.
func Plane(sx, sy float64, nx, ny int) *Mesh {
	if nx < 1 {
		nx = 1
	}
	if ny < 1 {
		ny = 1
	}
	m := New()
	grid := make([][]*Vertex, ny+1)
	for j := 0; j <= ny; j++ {
		grid[j] = make([]*Vertex, nx+1)
		for i := 0; i <= nx; i++ {
			x := -sx/2 + sx*float64(i)/float64(nx)
			y := -sy/2 + sy*float64(j)/float64(ny)
			grid[j][i] = m.AddVertex(r3.Vec{X: x, Y: y})
		}
	}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			m.AddFace(grid[j][i], grid[j][i+1], grid[j+1][i+1], grid[j+1][i])
		}
	}
	m.RebuildIndex()
	return m
}
