package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"Mandrel/internal/calc/laminate"
)

var (
	propsSequence  string
	propsMaterial  string
	propsThickness float64
)

var propsCmd = &cobra.Command{
	Use:   "props",
	Short: "Compute effective laminate properties",
	Long: `Assemble the ABD stiffness matrices for a layup and report the
thickness-normalized engineering constants.`,
	RunE: runProps,
}

func init() {
	rootCmd.AddCommand(propsCmd)
	propsCmd.Flags().StringVarP(&propsSequence, "sequence", "s", laminate.DefaultSequence, "stacking sequence")
	propsCmd.Flags().StringVarP(&propsMaterial, "material", "m", laminate.DefaultMaterialKey, "material preset key")
	propsCmd.Flags().Float64VarP(&propsThickness, "thickness", "t", laminate.DefaultPlyThicknessMM, "ply thickness (mm)")
}

func runProps(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	req := laminate.LayupRequest{Sequence: propsSequence, PlyThicknessMM: propsThickness, Material: propsMaterial}
	plies, mat, err := req.Plies(reg)
	if err != nil {
		return err
	}
	abd, err := laminate.AssembleABD(plies)
	if err != nil {
		return err
	}
	thickness := laminate.TotalThickness(plies)
	eff, err := laminate.Effective(abd, thickness)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]any{
			"sequence":           propsSequence,
			"material":           mat.Key,
			"num_plies":          len(plies),
			"total_thickness_mm": thickness * 1e3,
			"A_matrix":           abd.A,
			"B_matrix":           abd.B,
			"D_matrix":           abd.D,
			"effective_properties": map[string]float64{
				"E_x_GPa":  eff.Ex / 1e9,
				"E_y_GPa":  eff.Ey / 1e9,
				"G_xy_GPa": eff.Gxy / 1e9,
				"nu_xy":    eff.NuXY,
			},
		})
	}

	fmt.Printf("Laminate %s, %d plies of %s, %.3f mm total\n\n",
		propsSequence, len(plies), mat.Name, thickness*1e3)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  E_x:\t%.2f GPa\n", eff.Ex/1e9)
	fmt.Fprintf(w, "  E_y:\t%.2f GPa\n", eff.Ey/1e9)
	fmt.Fprintf(w, "  G_xy:\t%.2f GPa\n", eff.Gxy/1e9)
	fmt.Fprintf(w, "  nu_xy:\t%.4f\n", eff.NuXY)
	return w.Flush()
}
