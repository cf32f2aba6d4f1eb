package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meshops/polyframe/pkg/meshio"
	"github.com/meshops/polyframe/pkg/wireframe"
)

var (
	wfThickness float64
	wfSegments  int
	wfDissolve  bool
	wfCellsOut  string
)

var wireframeCmd = &cobra.Command{
	Use:   "wireframe [input.stl] [output.stl]",
	Short: "Generate a wireframe from the polyhedral cells of a mesh",
	Long: "Detect the polyhedral cells of a closed mesh and replace every " +
		"cell wall with a frame of the given thickness.",
	Args: cobra.ExactArgs(2),
	Run:  runWireframe,
}

func init() {
	rootCmd.AddCommand(wireframeCmd)

	wireframeCmd.Flags().Float64VarP(&wfThickness, "thickness", "t", 0.1, "Frame thickness")
	wireframeCmd.Flags().IntVarP(&wfSegments, "segments", "n", 1, "Segments per wire for banding")
	wireframeCmd.Flags().BoolVarP(&wfDissolve, "dissolve-inners", "d", false, "Dissolve inner frame edges")
	wireframeCmd.Flags().StringVar(&wfCellsOut, "cells", "", "Also write the detected cell walls to this STL file")
}

func runWireframe(cmd *cobra.Command, args []string) {
	src, err := meshio.ReadSTL(args[0])
	if err != nil {
		fatalf("Error reading %s: %v", args[0], err)
	}

	cfg := wireframe.DefaultConfig()
	cfg.Thickness = wfThickness
	cfg.Segments = wfSegments
	cfg.DissolveInners = wfDissolve

	res, err := wireframe.Run(src, cfg)
	if err != nil {
		fatalf("Error: %v", err)
	}
	fmt.Println(res.Diag)

	if err := meshio.WriteSTL(args[1], res.Frame); err != nil {
		fatalf("Error writing %s: %v", args[1], err)
	}
	if wfCellsOut != "" {
		if err := meshio.WriteSTL(wfCellsOut, res.Cells); err != nil {
			fatalf("Error writing %s: %v", wfCellsOut, err)
		}
	}
}
