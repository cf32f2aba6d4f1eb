// Package polyhedra groups the oriented faces of a closed, possibly
// non-manifold mesh into polyhedral cells. Every source face yields two
// face instances (forward and reverse winding) modeling the two sides
// as candidate walls of two different cells; an edge-wise angular sweep
// pairs instances across each edge and a disjoint-set merge closes the
// pairs into cells.
package polyhedra

// ID is a signed face-instance identifier: +(k+1) is source face k with
// its stored winding, -(k+1) the same face with reversed winding. Zero
// is "no instance".
type ID int

// Forward returns the as-wound instance id of source face k.
func Forward(k int) ID { return ID(k + 1) }

// Reverse returns the reversed-winding instance id of source face k.
func Reverse(k int) ID { return ID(-(k + 1)) }

// SourceIndex returns the source face index the instance refers to.
func (id ID) SourceIndex() int {
	if id < 0 {
		return int(-id) - 1
	}
	return int(id) - 1
}

// Reversed reports whether the instance uses reversed winding.
func (id ID) Reversed() bool { return id < 0 }

// Opposite returns the instance on the other side of the same face.
func (id ID) Opposite() ID { return -id }

// DoubledIndex maps the instance to its face index in the duplicated
// mesh, which stores face k's forward instance at 2k and its reverse
// instance at 2k+1.
func (id ID) DoubledIndex() int {
	if id < 0 {
		return (int(-id)-1)*2 + 1
	}
	return (int(id) - 1) * 2
}
