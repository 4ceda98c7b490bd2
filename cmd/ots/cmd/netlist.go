package cmd

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/circuitfile"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/netlist"
	"github.com/spf13/cobra"
)

var netlistJSON bool

var netlistCmd = &cobra.Command{
	Use:   "netlist <circuit_file>",
	Short: "Print the nets of a circuit",
	Long: `Compute the electrical nets of a circuit file. Pins joined by wires,
directly or through other pins, share a net. Pins with no wire are
listed as unconnected.`,
	Args: cobra.ExactArgs(1),
	RunE: runNetlist,
}

func init() {
	rootCmd.AddCommand(netlistCmd)
	netlistCmd.Flags().BoolVar(&netlistJSON, "json", false, "Output JSON")
}

func runNetlist(cmd *cobra.Command, args []string) error {
	c, err := circuitfile.Load(args[0])
	if err != nil {
		return fmt.Errorf("error loading circuit: %w", err)
	}

	nl := netlist.Build(c)
	out := cmd.OutOrStdout()
	if netlistJSON {
		data, err := nl.ExportJSON()
		if err != nil {
			return fmt.Errorf("error exporting netlist: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}
	return nl.WriteText(out)
}
