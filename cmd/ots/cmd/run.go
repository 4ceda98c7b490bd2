package cmd

import (
	"fmt"
	"log"

	"github.com/OpenTraceLab/OpenTraceSchem/internal/controller"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/circuitfile"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/script"
	"github.com/spf13/cobra"
)

var (
	runOutput string
	runInput  string
)

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Build a circuit from an editing script",
	Long: `Execute an editing script against a new circuit, or against the circuit
given with --in, and write the result.

Commands the editor rejects are reported as warnings and do not stop the
script. Without -o the resulting circuit is written to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "Write the circuit to this file")
	runCmd.Flags().StringVar(&runInput, "in", "", "Start from this circuit file")
}

func runScript(cmd *cobra.Command, args []string) error {
	p, err := script.NewParser()
	if err != nil {
		return fmt.Errorf("error creating parser: %w", err)
	}
	s, err := p.ParseFile(args[0])
	if err != nil {
		return fmt.Errorf("error parsing script: %w", err)
	}

	base := circuit.New(controller.DefaultCircuitName)
	if runInput != "" {
		base, err = circuitfile.Load(runInput)
		if err != nil {
			return fmt.Errorf("error loading circuit: %w", err)
		}
	}

	r := script.NewRunner(circuit.NewEditor(base))
	if err := r.Run(s); err != nil {
		return fmt.Errorf("error running script: %w", err)
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}

	c := r.Editor().Circuit()
	if verbose {
		log.Printf("ots: %d commands, %d components, %d wires", len(s.Commands()), len(c.Components), len(c.Wires))
	}

	if runOutput == "" {
		return circuitfile.Encode(cmd.OutOrStdout(), c)
	}
	if err := circuitfile.Save(runOutput, c); err != nil {
		return fmt.Errorf("error saving circuit: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d components, %d wires)\n", runOutput, len(c.Components), len(c.Wires))
	return nil
}
