package main

import (
	"github.com/spf13/cobra"

	"github.com/meshops/polyframe/pkg/dual"
	"github.com/meshops/polyframe/pkg/meshio"
	"github.com/meshops/polyframe/pkg/tessellate"
)

var (
	dualBorders     bool
	dualTessellated bool
	dualSourceFaces string
)

var dualCmd = &cobra.Command{
	Use:   "dual [input.stl] [output.stl]",
	Short: "Compute the dual of a mesh",
	Long: "Replace every face of the input with a vertex at its centroid and " +
		"every vertex with the face fan around it. With --tessellated the dual " +
		"is built by mapping a dual component onto each face instead.",
	Args: cobra.ExactArgs(2),
	Run:  runDual,
}

func init() {
	rootCmd.AddCommand(dualCmd)

	dualCmd.Flags().BoolVar(&dualBorders, "preserve-borders", true, "Keep boundary vertices of open meshes")
	dualCmd.Flags().BoolVar(&dualTessellated, "tessellated", false, "Build the dual via component tessellation")
	dualCmd.Flags().StringVar(&dualSourceFaces, "source-faces", "tri", "Component for --tessellated: quad or tri")
}

func runDual(cmd *cobra.Command, args []string) {
	src, err := meshio.ReadSTL(args[0])
	if err != nil {
		fatalf("Error reading %s: %v", args[0], err)
	}

	out := src
	if dualTessellated {
		mode := tessellate.Tri
		switch dualSourceFaces {
		case "quad":
			mode = tessellate.Quad
		case "tri":
		default:
			fatalf("Invalid --source-faces %q: want quad or tri", dualSourceFaces)
		}
		out, err = tessellate.Tessellate(src, tessellate.DualComponent(mode), tessellate.Options{
			Merge:         true,
			DissolveSeams: true,
		})
		if err != nil {
			fatalf("Error: %v", err)
		}
	} else {
		out = dual.Dual(src, dual.Options{PreserveBorders: dualBorders})
	}

	if err := meshio.WriteSTL(args[1], out); err != nil {
		fatalf("Error writing %s: %v", args[1], err)
	}
}
