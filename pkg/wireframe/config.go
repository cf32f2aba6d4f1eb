// Package wireframe implements the polyhedra-wireframe operator: it
// detects the closed cells of a face arrangement and replaces every
// cell wall with offset ribbon geometry of a requested thickness,
// emitting the tagged cell mesh and the frame mesh.
package wireframe

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Config controls a wireframe run.
type Config struct {
	// Thickness is the frame thickness. Must be positive.
	Thickness float64
	// Segments drives the proportional pre-subdivision of long edges
	// and the ribbon banding tags. Must be at least 1.
	Segments int
	// DissolveInners removes the inner edge of every ribbon quad after
	// the final weld, merging adjacent ribbon faces.
	DissolveInners bool
	// Transform is the world transform applied to the frame mesh. The
	// zero matrix is treated as identity.
	Transform mgl64.Mat4
}

// DefaultConfig returns the default operator configuration.
func DefaultConfig() Config {
	return Config{
		Thickness: 0.1,
		Segments:  1,
		Transform: mgl64.Ident4(),
	}
}

// Validate checks the configuration ranges.
func (c Config) Validate() error {
	if c.Thickness <= 0 {
		return fmt.Errorf("thickness must be positive, got %g", c.Thickness)
	}
	if c.Segments < 1 {
		return fmt.Errorf("segments must be at least 1, got %d", c.Segments)
	}
	return nil
}

// MergeDist is the weld tolerance used throughout a run.
func (c Config) MergeDist() float64 {
	return c.Thickness * 0.001
}
