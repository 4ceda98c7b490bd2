package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/circuitfile"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <circuit_file> [component]",
	Short: "Show circuit information",
	Long: `Display information about a circuit file.

Without component argument: shows circuit summary
With component argument: shows details for that specific component`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	c, err := circuitfile.Load(args[0])
	if err != nil {
		return fmt.Errorf("error loading circuit: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(args) >= 2 {
		return showComponentDetails(out, c, args[1])
	}
	showCircuitSummary(out, c, args[0])
	return nil
}

func showCircuitSummary(out io.Writer, c circuit.Circuit, filename string) {
	fmt.Fprintf(out, "Circuit: %s\n", filename)
	fmt.Fprintf(out, "Name: %s\n", c.Name)
	fmt.Fprintf(out, "UUID: %s\n", c.ID)
	fmt.Fprintf(out, "View: scale %g, offset (%g, %g)\n", c.View.Scale, c.View.Offset.X, c.View.Offset.Y)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Statistics:")
	fmt.Fprintf(out, "  Components: %d\n", len(c.Components))
	fmt.Fprintf(out, "  Wires: %d\n", len(c.Wires))
	pins, connected := 0, 0
	for _, comp := range c.Components {
		for _, p := range comp.Pins {
			pins++
			if p.Connected {
				connected++
			}
		}
	}
	fmt.Fprintf(out, "  Pins: %d (%d connected)\n", pins, connected)
	if bb := c.Bounds(); !bb.IsEmpty() {
		fmt.Fprintf(out, "  Extent: %.0f x %.0f\n", bb.Width(), bb.Height())
	}

	if len(c.Components) == 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Components:")
	byType := make(map[string][]string)
	for _, comp := range c.Components {
		byType[comp.Type] = append(byType[comp.Type], comp.ID)
	}
	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Fprintf(out, "  %s: %s\n", t, strings.Join(byType[t], ", "))
	}

	if verbose && len(c.Wires) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Wires:")
		for _, w := range c.Wires {
			fmt.Fprintf(out, "  %s: %s -> %s\n", w.ID, w.FromPin, w.ToPin)
		}
	}
}

func showComponentDetails(out io.Writer, c circuit.Circuit, id string) error {
	comp, ok := c.Component(id)
	if !ok {
		return fmt.Errorf("component %q not found", id)
	}

	fmt.Fprintf(out, "Component: %s\n", comp.ID)
	fmt.Fprintf(out, "Type: %s\n", comp.Type)
	if comp.Label != "" {
		fmt.Fprintf(out, "Label: %s\n", comp.Label)
	}
	fmt.Fprintf(out, "Position: (%g, %g)\n", comp.Position.X, comp.Position.Y)
	if comp.Rotation != 0 {
		fmt.Fprintf(out, "Rotation: %g\n", comp.Rotation)
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Pins (%d):\n", len(comp.Pins))
	for _, p := range comp.Pins {
		state := "open"
		if p.Connected {
			var peers []string
			for _, w := range c.WiresAt(p.ID) {
				peer := w.ToPin
				if peer == p.ID {
					peer = w.FromPin
				}
				peers = append(peers, peer)
			}
			state = "-> " + strings.Join(peers, ", ")
		}
		fmt.Fprintf(out, "  %-10s %-14s %s\n", p.Name, p.Role, state)
	}

	if keys := comp.PropertyKeys(); len(keys) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Properties:")
		for _, k := range keys {
			fmt.Fprintf(out, "  %s: %v\n", k, comp.Properties[k])
		}
	}
	return nil
}
