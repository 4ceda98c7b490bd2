package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/circuitfile"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/netlist"
	"github.com/chewxy/sexp"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <circuit_file>",
	Short: "Check a circuit file for errors",
	Long: `Read a circuit file and report syntax and consistency problems:
duplicate identifiers, wires whose pins do not exist, wires that join a
component to itself and connected flags that disagree with the wires.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}
	out := cmd.OutOrStdout()

	// Generic s-expression pass, before the format-aware decoder.
	exprs, err := sexp.ParseString(string(data))
	if err != nil {
		fmt.Fprintf(out, "Syntax: %v\n", err)
	} else {
		leaves := 0
		for _, e := range exprs {
			if e.IsLeaf() {
				leaves++
				continue
			}
			leaves += e.LeafCount()
		}
		fmt.Fprintf(out, "Syntax: ok (%d expressions, %d atoms)\n", len(exprs), leaves)
	}

	c, err := circuitfile.ParseString(string(data))
	if err != nil {
		return fmt.Errorf("error decoding circuit: %w", err)
	}
	fmt.Fprintf(out, "Circuit: %s (%d components, %d wires, %d nets)\n",
		c.Name, len(c.Components), len(c.Wires), netlist.Build(c).NetCount())

	if err := c.Validate(); err != nil {
		var problems interface{ Unwrap() []error }
		if errors.As(err, &problems) {
			for _, p := range problems.Unwrap() {
				fmt.Fprintf(out, "  - %v\n", p)
			}
		} else {
			fmt.Fprintf(out, "  - %v\n", err)
		}
		return fmt.Errorf("%s: circuit is inconsistent", args[0])
	}
	if verbose {
		log.Printf("ots: %s is consistent", args[0])
	}
	fmt.Fprintln(out, "OK")
	return nil
}
