package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"Mandrel/internal/calc/laminate"
)

var (
	failureSequence  string
	failureMaterial  string
	failureThickness float64
	failureNx        float64
	failureNy        float64
	failureNxy       float64
	failureCriterion string
)

var failureCmd = &cobra.Command{
	Use:   "failure",
	Short: "First-ply failure analysis under membrane loads",
	Long: `Run the first-ply failure analysis for a layup under membrane load
resultants in N/m. The safety factor is the load multiplier at predicted
first ply failure.`,
	RunE: runFailure,
}

func init() {
	rootCmd.AddCommand(failureCmd)
	failureCmd.Flags().StringVarP(&failureSequence, "sequence", "s", laminate.DefaultSequence, "stacking sequence")
	failureCmd.Flags().StringVarP(&failureMaterial, "material", "m", laminate.DefaultMaterialKey, "material preset key")
	failureCmd.Flags().Float64VarP(&failureThickness, "thickness", "t", laminate.DefaultPlyThicknessMM, "ply thickness (mm)")
	failureCmd.Flags().Float64Var(&failureNx, "nx", 1000, "axial load resultant N_x (N/m)")
	failureCmd.Flags().Float64Var(&failureNy, "ny", 0, "hoop load resultant N_y (N/m)")
	failureCmd.Flags().Float64Var(&failureNxy, "nxy", 0, "shear load resultant N_xy (N/m)")
	failureCmd.Flags().StringVar(&failureCriterion, "criterion", laminate.CriterionTsaiWu, "failure criterion: tsai_wu or max_stress")
}

func runFailure(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	req := laminate.LayupRequest{Sequence: failureSequence, PlyThicknessMM: failureThickness, Material: failureMaterial}
	plies, mat, err := req.Plies(reg)
	if err != nil {
		return err
	}
	abd, err := laminate.AssembleABD(plies)
	if err != nil {
		return err
	}
	res, err := laminate.AnalyzeFailure(plies, abd,
		laminate.LoadState{Nx: failureNx, Ny: failureNy, Nxy: failureNxy},
		laminate.Criteria{Criterion: failureCriterion})
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(res)
	}

	fmt.Printf("Failure analysis (%s) for %s, %s\n", res.Criterion, failureSequence, mat.Name)
	fmt.Printf("Loads: N_x=%.0f N_y=%.0f N_xy=%.0f N/m\n\n", failureNx, failureNy, failureNxy)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ply\tangle\tsafety factor\tmode")
	for _, p := range res.Plies {
		marker := ""
		if p.PlyID == res.CriticalPlyID {
			marker = "  <- critical"
		}
		fmt.Fprintf(w, "  %d\t%+.1f\t%s\t%s%s\n", p.PlyID, p.AngleDeg, formatCLISF(p.SafetyFactor), p.Mode, marker)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nMinimum safety factor %s at ply %d: %s\n",
		formatCLISF(res.MinSafetyFactor), res.CriticalPlyID, res.Status)
	return nil
}

func formatCLISF(sf float64) string {
	if sf >= 1000 {
		return "> 1000"
	}
	return fmt.Sprintf("%.3f", sf)
}
