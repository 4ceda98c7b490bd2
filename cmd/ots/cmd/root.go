package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ots",
	Short: "OpenTraceSchem - schematic editor for PIC16 circuits",
	Long: `OpenTraceSchem (ots) edits small schematics: components from a fixed
catalog placed on a canvas and wired pin to pin.

Examples:
  ots ui                          # Launch the editor
  ots ui blinky.ots               # Open a circuit in the editor
  ots catalog resistor            # Show a catalog entry
  ots info blinky.ots             # Summarise a circuit file
  ots netlist --json blinky.ots   # Print the nets of a circuit
  ots run -o blinky.ots build.otscript
  ots check blinky.ots`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
