package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meshops/polyframe/pkg/meshio"
	"github.com/meshops/polyframe/pkg/polyhedra"
)

var infoCmd = &cobra.Command{
	Use:   "info [input.stl]",
	Short: "Print mesh statistics and detected polyhedral cells",
	Args:  cobra.ExactArgs(1),
	Run:   runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) {
	m, err := meshio.ReadSTL(args[0])
	if err != nil {
		fatalf("Error reading %s: %v", args[0], err)
	}

	naked := m.NakedEdges()
	fmt.Printf("Vertices:    %d\n", len(m.Verts))
	fmt.Printf("Edges:       %d\n", len(m.Edges))
	fmt.Printf("Faces:       %d\n", len(m.Faces))
	fmt.Printf("Naked edges: %d\n", len(naked))

	if len(naked) > 0 {
		fmt.Println("Mesh is open, skipping cell detection")
		return
	}

	polys, stats, err := polyhedra.Detect(m)
	if err != nil {
		fatalf("Error: %v", err)
	}
	fmt.Printf("Polyhedra:   %d (unmatched face sides: %d)\n", stats.Polyhedra, stats.Unmatched)
	for i, p := range polys {
		fmt.Printf("  cell %d: %d walls\n", i, len(p.Members))
	}
}
