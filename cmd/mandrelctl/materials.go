package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var materialsCmd = &cobra.Command{
	Use:   "materials",
	Short: "List the material and process presets",
	RunE:  runMaterials,
}

func init() {
	rootCmd.AddCommand(materialsCmd)
}

func runMaterials(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	if jsonOut {
		mats := make(map[string]any)
		for _, key := range reg.MaterialKeys() {
			m, _ := reg.Material(key)
			mats[key] = m
		}
		procs := make(map[string]any)
		for _, key := range reg.ProcessKeys() {
			p, _ := reg.Process(key)
			procs[key] = p
		}
		return printJSON(map[string]any{"materials": mats, "processes": procs})
	}

	fmt.Println("Materials:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  key\tname\tE1 (GPa)\tE2 (GPa)\tdensity (kg/m3)")
	for _, key := range reg.MaterialKeys() {
		m, _ := reg.Material(key)
		fmt.Fprintf(w, "  %s\t%s\t%.1f\t%.1f\t%.0f\n", m.Key, m.Name, m.E1/1e9, m.E2/1e9, m.Density)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println("\nProcesses:")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  key\tname\tline speed (m/s)\tefficiency")
	for _, key := range reg.ProcessKeys() {
		p, _ := reg.Process(key)
		fmt.Fprintf(w, "  %s\t%s\t%.2f\t%.2f\n", p.Key, p.Name, p.LineSpeed, p.Efficiency)
	}
	return w.Flush()
}
