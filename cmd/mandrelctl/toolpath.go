package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"Mandrel/internal/calc/winding"
)

var (
	tpDiameter   float64
	tpLength     float64
	tpPitch      float64
	tpTurns      int
	tpStep       float64
	tpFeed       float64
	tpEyeAngle   float64
	tpMachine    string
	tpController string
	tpOutDir     string
)

var toolpathCmd = &cobra.Command{
	Use:   "toolpath",
	Short: "Generate a helical winding G-code program",
	Long: `Discretize a helical pass over the mandrel and write the machine
program to a .nc file in the output directory. The controller dialect
decides the program framing; the geometry is the same for all of them.`,
	RunE: runToolpath,
}

func init() {
	rootCmd.AddCommand(toolpathCmd)
	toolpathCmd.Flags().Float64VarP(&tpDiameter, "diameter", "d", 200, "mandrel diameter (mm)")
	toolpathCmd.Flags().Float64VarP(&tpLength, "length", "l", 500, "mandrel length (mm)")
	toolpathCmd.Flags().Float64VarP(&tpPitch, "pitch", "p", 10, "carriage advance per turn (mm)")
	toolpathCmd.Flags().IntVar(&tpTurns, "turns", 5, "helix turns")
	toolpathCmd.Flags().Float64Var(&tpStep, "step", 5, "angular step per instruction (deg)")
	toolpathCmd.Flags().Float64VarP(&tpFeed, "feed", "f", 100, "feed rate (mm/min)")
	toolpathCmd.Flags().Float64VarP(&tpEyeAngle, "angle", "a", 45, "delivery eye angle (deg)")
	toolpathCmd.Flags().StringVar(&tpMachine, "machine", winding.MachineFourAxis, "machine type (2-axis or 4-axis)")
	toolpathCmd.Flags().StringVar(&tpController, "controller", winding.ControllerGeneric, "controller dialect (fanuc, siemens or generic)")
	toolpathCmd.Flags().StringVarP(&tpOutDir, "output", "o", ".", "directory for the generated program")
}

func runToolpath(cmd *cobra.Command, args []string) error {
	path, err := winding.HelicalPath(winding.PathInput{
		DiameterMM: tpDiameter,
		LengthMM:   tpLength,
		PitchMM:    tpPitch,
		NumTurns:   tpTurns,
		StepDeg:    tpStep,
		FeedMMMin:  tpFeed,
	})
	if err != nil {
		return err
	}
	exp, err := winding.ExportGCode(winding.ExportInput{
		Path:        path,
		DiameterMM:  tpDiameter,
		EyeAngleDeg: tpEyeAngle,
		MachineType: tpMachine,
		Controller:  tpController,
		Program:     fmt.Sprintf("WINDING %.0fx%.0f", tpDiameter, tpLength),
	})
	if err != nil {
		return err
	}

	out := filepath.Join(tpOutDir, exp.Filename)
	if err := os.WriteFile(out, []byte(exp.Text), 0o644); err != nil {
		return fmt.Errorf("write program: %w", err)
	}

	if jsonOut {
		return printJSON(map[string]any{
			"filename":             out,
			"num_instructions":     exp.NumInstructions,
			"total_path_length_mm": path.TotalLengthMM,
			"estimated_time_min":   path.TimeMinutes,
		})
	}
	fmt.Printf("Wrote %s (%d instructions, %s/%s)\n", out, exp.NumInstructions, tpMachine, tpController)
	fmt.Printf("Path length %.1f mm, estimated time %.1f min\n", path.TotalLengthMM, path.TimeMinutes)
	return nil
}
