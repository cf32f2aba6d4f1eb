package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meshops/polyframe/pkg/engine"
	"github.com/meshops/polyframe/pkg/meshio"
)

var scriptOutDir string

var scriptCmd = &cobra.Command{
	Use:   "script [file.zy]",
	Short: "Run a mesh script",
	Long: "Evaluate a zygomys script with the mesh builtins loaded. Meshes " +
		"registered with (store ...) are written to STL files named after " +
		"their keys when --out is given.",
	Args: cobra.ExactArgs(1),
	Run:  runScript,
}

func init() {
	rootCmd.AddCommand(scriptCmd)

	scriptCmd.Flags().StringVarP(&scriptOutDir, "out", "o", "", "Directory to dump stored meshes into")
}

func runScript(cmd *cobra.Command, args []string) {
	source, err := os.ReadFile(args[0])
	if err != nil {
		fatalf("Error reading %s: %v", args[0], err)
	}

	session, evalErrs, err := engine.NewEngine().Evaluate(string(source))
	if err != nil {
		fatalf("Error: %v", err)
	}
	for _, e := range evalErrs {
		fmt.Fprintln(os.Stderr, e.Error())
	}
	if len(evalErrs) > 0 {
		os.Exit(1)
	}

	for _, line := range session.Output {
		fmt.Println(line)
	}

	if scriptOutDir != "" {
		for _, name := range session.Names() {
			path := fmt.Sprintf("%s/%s.stl", scriptOutDir, name)
			if err := meshio.WriteSTL(path, session.Mesh(name)); err != nil {
				fatalf("Error writing %s: %v", path, err)
			}
			fmt.Printf("wrote %s\n", path)
		}
	}
}
