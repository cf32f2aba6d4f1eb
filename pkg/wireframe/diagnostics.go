package wireframe

import (
	"fmt"
	"strings"
	"time"
)

// Phase records the elapsed wall time of one operator phase.
type Phase struct {
	Name    string
	Elapsed time.Duration
}

// Diagnostics summarizes a wireframe run for logging.
type Diagnostics struct {
	Polyhedra int
	// Unmatched counts face instances with no partner at some edge;
	// non-zero values point at degenerate or non-closed input.
	Unmatched int
	Phases    []Phase
}

// String renders a one-line summary.
func (d Diagnostics) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d polyhedra", d.Polyhedra)
	if d.Unmatched > 0 {
		fmt.Fprintf(&b, " (%d unmatched instances)", d.Unmatched)
	}
	for _, p := range d.Phases {
		fmt.Fprintf(&b, ", %s %.4fs", p.Name, p.Elapsed.Seconds())
	}
	return b.String()
}
