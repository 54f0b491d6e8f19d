package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"Mandrel/internal/material"
)

var (
	jsonOut       bool
	materialsFile string
)

var rootCmd = &cobra.Command{
	Use:   "mandrelctl",
	Short: "Filament winding engineering toolbox",
	Long: `mandrelctl - composite shell engineering from the command line

Expands laminate stacking sequences, computes CLT stiffness and
first-ply failure, runs manufacturing tolerance studies and plans
winding jobs including machine-code export, without the HTTP service.

Examples:
  mandrelctl parse -s "[0/±45/90]s"
  mandrelctl props -s "[0/90]2s" -m IM7
  mandrelctl failure --nx 1500 --criterion max_stress
  mandrelctl toolpath --turns 20 --controller fanuc -o out/`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print raw JSON instead of tables")
	rootCmd.PersistentFlags().StringVar(&materialsFile, "materials-file", "", "YAML file overriding the built-in material presets")
}

func loadRegistry() (*material.Registry, error) {
	reg := material.NewRegistry()
	if materialsFile != "" {
		if err := reg.LoadYAML(materialsFile); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
