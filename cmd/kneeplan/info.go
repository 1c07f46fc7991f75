package main

import (
	"fmt"

	"github.com/souradeepAsh/Knee-Preop-Planning/internal/bone"
	"github.com/souradeepAsh/Knee-Preop-Planning/pkg/analysis"
	"github.com/souradeepAsh/Knee-Preop-Planning/pkg/stl"
	"github.com/spf13/cobra"
)

var infoBone string

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Display mesh statistics for a bone STL file",
	Long: `Show triangle count, surface area, bounding box, volume and edge statistics.
With --bone the default femur or tibia transform is applied first, so the
numbers are in scene units (meters).`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().StringVar(&infoBone, "bone", "", "apply the default transform of femur or tibia")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	filename := args[0]

	model, err := stl.ParseFile(filename)
	if err != nil {
		return fmt.Errorf("parsing STL file: %w", err)
	}

	units := "file units"
	switch infoBone {
	case "":
	case "femur", "tibia":
		defaults := bone.Defaults(filename, filename)
		cfg := defaults[0]
		if infoBone == "tibia" {
			cfg = defaults[1]
		}
		model = bone.NewMesh(cfg, model).Model
		units = "m"
	default:
		return fmt.Errorf("unknown bone %q (want femur or tibia)", infoBone)
	}

	result := analysis.AnalyzeModel(model)
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Bone Mesh Information")
	fmt.Fprintln(out, "=====================")
	if model.Name != "" {
		fmt.Fprintf(out, "Name: %s\n", model.Name)
	}
	fmt.Fprintf(out, "File: %s\n", filename)
	fmt.Fprintf(out, "Units: %s\n\n", units)

	fmt.Fprintln(out, "Mesh Statistics:")
	fmt.Fprintf(out, "  Triangles: %d\n", result.TriangleCount)
	fmt.Fprintf(out, "  Edges: %d\n", result.EdgeCount)
	fmt.Fprintf(out, "  Surface Area: %.6f\n\n", result.SurfaceArea)

	fmt.Fprintln(out, "Bounding Box:")
	fmt.Fprintf(out, "  Min: %s\n", analysis.FormatVector(result.BoundingBox.Min))
	fmt.Fprintf(out, "  Max: %s\n", analysis.FormatVector(result.BoundingBox.Max))
	fmt.Fprintf(out, "  Center: %s\n\n", analysis.FormatVector(result.BoundingBox.Center()))

	fmt.Fprintln(out, "Dimensions:")
	fmt.Fprintf(out, "  Width (X): %s\n", analysis.FormatMeasurement(result.Dimensions.X, units))
	fmt.Fprintf(out, "  Depth (Y): %s\n", analysis.FormatMeasurement(result.Dimensions.Y, units))
	fmt.Fprintf(out, "  Height (Z): %s\n", analysis.FormatMeasurement(result.Dimensions.Z, units))
	fmt.Fprintf(out, "  Diagonal: %s\n", analysis.FormatMeasurement(result.BoundingBox.Diagonal(), units))
	fmt.Fprintf(out, "  Volume: %.6f\n\n", result.Volume)

	fmt.Fprintln(out, "Edge Lengths:")
	fmt.Fprintf(out, "  Minimum: %s\n", analysis.FormatMeasurement(result.MinEdgeLength, units))
	fmt.Fprintf(out, "  Maximum: %s\n", analysis.FormatMeasurement(result.MaxEdgeLength, units))
	fmt.Fprintf(out, "  Average: %s\n", analysis.FormatMeasurement(result.AvgEdgeLength, units))
	return nil
}
