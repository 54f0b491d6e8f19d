package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"Mandrel/internal/calc/laminate"
	"Mandrel/internal/calc/winding"
)

var (
	calcSequence  string
	calcMaterial  string
	calcThickness float64
	calcDiaBottom float64
	calcDiaTop    float64
	calcHeight    float64
	calcAngle     float64
	calcTowWidth  float64
	calcTowCount  int
	calcOverlap   float64
	calcProcess   string
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Plan a winding job on a cylindrical or conical mandrel",
	Long: `Compute coverage, pass count, machine time and laminate mass for
winding a layup onto a mandrel. Diameters and heights are in mm; a
conical shell has different bottom and top diameters.`,
	RunE: runCalc,
}

func init() {
	rootCmd.AddCommand(calcCmd)
	calcCmd.Flags().StringVarP(&calcSequence, "sequence", "s", laminate.DefaultSequence, "stacking sequence")
	calcCmd.Flags().StringVarP(&calcMaterial, "material", "m", laminate.DefaultMaterialKey, "material preset key")
	calcCmd.Flags().Float64VarP(&calcThickness, "thickness", "t", laminate.DefaultPlyThicknessMM, "ply thickness (mm)")
	calcCmd.Flags().Float64Var(&calcDiaBottom, "diameter-bottom", 200, "bottom diameter (mm)")
	calcCmd.Flags().Float64Var(&calcDiaTop, "diameter-top", 200, "top diameter (mm)")
	calcCmd.Flags().Float64Var(&calcHeight, "height", 500, "shell height (mm)")
	calcCmd.Flags().Float64VarP(&calcAngle, "angle", "a", 45, "winding angle (deg)")
	calcCmd.Flags().Float64Var(&calcTowWidth, "tow-width", 5, "single tow width (mm)")
	calcCmd.Flags().IntVar(&calcTowCount, "tow-count", 8, "tows in the band")
	calcCmd.Flags().Float64Var(&calcOverlap, "overlap", 0.1, "band overlap fraction 0..1")
	calcCmd.Flags().StringVar(&calcProcess, "process", "Towpreg", "process preset key")
}

func runCalc(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	req := laminate.LayupRequest{Sequence: calcSequence, PlyThicknessMM: calcThickness, Material: calcMaterial}
	plies, mat, err := req.Plies(reg)
	if err != nil {
		return err
	}
	proc, err := reg.Process(calcProcess)
	if err != nil {
		return err
	}

	thickness := laminate.TotalThickness(plies)
	res, err := winding.Calculate(winding.Input{
		DiameterBottom:  calcDiaBottom * 1e-3,
		DiameterTop:     calcDiaTop * 1e-3,
		Height:          calcHeight * 1e-3,
		WindingAngleDeg: calcAngle,
		TowWidth:        calcTowWidth * 1e-3,
		TowCount:        calcTowCount,
		Overlap:         calcOverlap,
		NumLayers:       len(plies),
		TotalThickness:  thickness,
		Density:         mat.Density,
		LineSpeed:       proc.LineSpeed,
		Efficiency:      proc.Efficiency,
	})
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(res)
	}

	fmt.Printf("Winding plan: %s, %d layers of %s, %s process\n\n",
		calcSequence, len(plies), mat.Name, proc.Name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  circumference:\t%.4f m\n", res.Circumference)
	fmt.Fprintf(w, "  path per pass:\t%.4f m\n", res.PathLengthPerPass)
	fmt.Fprintf(w, "  passes:\t%d\n", res.TotalPasses)
	fmt.Fprintf(w, "  machine time:\t%.1f min\n", res.TimeSeconds/60)
	fmt.Fprintf(w, "  laminate mass:\t%.3f kg\n", res.Mass)
	fmt.Fprintf(w, "  wall thickness:\t%.3f mm\n", thickness*1e3)
	return w.Flush()
}
