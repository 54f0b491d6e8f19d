package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"Mandrel/internal/calc/autoclave"
)

var autoclaveStep float64

var autoclaveCmd = &cobra.Command{
	Use:   "autoclave",
	Short: "Show the reference cure cycle",
	Long: `Print the reference 180 °C epoxy cure cycle as a schedule table and
terminal charts for temperature and pressure over time.`,
	RunE: runAutoclave,
}

func init() {
	rootCmd.AddCommand(autoclaveCmd)
	autoclaveCmd.Flags().Float64Var(&autoclaveStep, "step", 5, "chart sampling step (min)")
}

func runAutoclave(cmd *cobra.Command, args []string) error {
	profile := autoclave.Default()

	if jsonOut {
		return printJSON(profile)
	}

	fmt.Println("Reference cure cycle:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  time (min)\ttemp (°C)\tpressure (bar)")
	for i := range profile.TimeMin {
		fmt.Fprintf(w, "  %.0f\t%.0f\t%.1f\n", profile.TimeMin[i], profile.TempC[i], profile.PressureBar[i])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if autoclaveStep <= 0 {
		return fmt.Errorf("chart step must be positive, got %g min", autoclaveStep)
	}
	temps := sampleSeries(profile.TimeMin, profile.TempC, autoclaveStep)
	pressures := sampleSeries(profile.TimeMin, profile.PressureBar, autoclaveStep)

	fmt.Println()
	fmt.Println(asciigraph.Plot(temps,
		asciigraph.Height(10),
		asciigraph.Caption(fmt.Sprintf("temperature (°C), %g min per column", autoclaveStep))))
	fmt.Println()
	fmt.Println(asciigraph.Plot(pressures,
		asciigraph.Height(6),
		asciigraph.Caption(fmt.Sprintf("pressure (bar), %g min per column", autoclaveStep))))
	return nil
}

// sampleSeries resamples a piecewise-linear schedule at a fixed step so the
// ramps show as slopes instead of jumps between schedule points.
func sampleSeries(times, values []float64, step float64) []float64 {
	if len(times) == 0 {
		return nil
	}
	end := times[len(times)-1]
	out := make([]float64, 0, int(end/step)+1)
	seg := 0
	for t := times[0]; t <= end; t += step {
		for seg < len(times)-2 && t > times[seg+1] {
			seg++
		}
		t0, t1 := times[seg], times[seg+1]
		v0, v1 := values[seg], values[seg+1]
		frac := 0.0
		if t1 > t0 {
			frac = (t - t0) / (t1 - t0)
		}
		out = append(out, v0+frac*(v1-v0))
	}
	return out
}
