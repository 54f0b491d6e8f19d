package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"Mandrel/internal/calc/laminate"
)

var (
	parseSequence  string
	parseMaterial  string
	parseThickness float64
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Expand a stacking sequence into plies",
	Long: `Expand a stacking sequence into the full ply list with angles and
cumulative thickness.

The grammar supports ± groups, repeat counts and symmetric suffixes:
  [0/±45/90]s    [0/90]2    [0/45/90]2s    3x[0/90]`,
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseSequence, "sequence", "s", laminate.DefaultSequence, "stacking sequence")
	parseCmd.Flags().StringVarP(&parseMaterial, "material", "m", laminate.DefaultMaterialKey, "material preset key")
	parseCmd.Flags().Float64VarP(&parseThickness, "thickness", "t", laminate.DefaultPlyThicknessMM, "ply thickness (mm)")
}

func runParse(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	req := laminate.LayupRequest{Sequence: parseSequence, PlyThicknessMM: parseThickness, Material: parseMaterial}
	plies, mat, err := req.Plies(reg)
	if err != nil {
		return err
	}
	layers := laminate.LayersDTO(plies, mat.Name)

	if jsonOut {
		return printJSON(map[string]any{
			"sequence":   parseSequence,
			"num_layers": len(layers),
			"layers":     layers,
		})
	}

	fmt.Printf("Sequence %s expands to %d plies of %s\n\n", parseSequence, len(plies), mat.Name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  #\tangle\tthickness\tcumulative")
	for _, l := range layers {
		fmt.Fprintf(w, "  %d\t%+.1f\t%.3f mm\t%.3f mm\n", l.Index, l.Angle, l.ThicknessMM, l.CumulativeThicknessMM)
	}
	return w.Flush()
}
