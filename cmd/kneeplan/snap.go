package main

import (
	"fmt"
	"log/slog"

	"github.com/souradeepAsh/Knee-Preop-Planning/internal/bone"
	"github.com/souradeepAsh/Knee-Preop-Planning/pkg/analysis"
	"github.com/souradeepAsh/Knee-Preop-Planning/pkg/geometry"
	"github.com/spf13/cobra"
)

var (
	snapX, snapY, snapZ float64
	snapBone            string
)

var snapCmd = &cobra.Command{
	Use:   "snap [file]",
	Short: "Find where a landmark placed at a point lands on a bone",
	Long: `Transform the bone mesh into scene space and print the vertex nearest to the
given point, which is where a snapped landmark placement ends up.`,
	Args: cobra.ExactArgs(1),
	RunE: runSnap,
}

func init() {
	snapCmd.Flags().Float64Var(&snapX, "x", 0.0, "X coordinate in scene space")
	snapCmd.Flags().Float64Var(&snapY, "y", 0.0, "Y coordinate in scene space")
	snapCmd.Flags().Float64Var(&snapZ, "z", 0.0, "Z coordinate in scene space")
	snapCmd.Flags().StringVar(&snapBone, "bone", "femur", "default transform to apply (femur or tibia)")
	snapCmd.MarkFlagsRequiredTogether("x", "y", "z")
	rootCmd.AddCommand(snapCmd)
}

func runSnap(cmd *cobra.Command, args []string) error {
	defaults := bone.Defaults(args[0], args[0])
	var cfgs []bone.Config
	switch snapBone {
	case "femur":
		cfgs = defaults[:1]
	case "tibia":
		cfgs = defaults[1:]
	default:
		return fmt.Errorf("unknown bone %q (want femur or tibia)", snapBone)
	}

	meshes, err := bone.LoadAll(cmd.Context(), cfgs, nil, slog.Default())
	if err != nil {
		return err
	}

	p := geometry.NewVector3(snapX, snapY, snapZ)
	nearest := bone.Snap(meshes, p)
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Landmark Snap")
	fmt.Fprintln(out, "=============")
	fmt.Fprintf(out, "Bone: %s\n", meshes[0].Name())
	fmt.Fprintf(out, "Point: %s\n", analysis.FormatVector(p))
	fmt.Fprintf(out, "Nearest vertex: %s\n", analysis.FormatVector(nearest))
	fmt.Fprintf(out, "Distance: %s\n", analysis.FormatMeasurement(p.Distance(nearest), "m"))
	return nil
}
