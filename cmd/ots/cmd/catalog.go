package cmd

import (
	"fmt"
	"io"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/catalog"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog [type]",
	Short: "List the placeable component types",
	Long: `Without argument: lists every component type in palette order.
With a type argument: shows its pins and default properties.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) == 1 {
		def, ok := catalog.Lookup(args[0])
		if !ok {
			return fmt.Errorf("unknown component type %q", args[0])
		}
		showDefinition(out, def)
		return nil
	}

	fmt.Fprintf(out, "%-10s %-12s %-9s %s\n", "TYPE", "NAME", "SIZE", "PINS")
	for _, typ := range catalog.Types() {
		def, _ := catalog.Lookup(typ)
		size := fmt.Sprintf("%gx%g", def.Width, def.Height)
		fmt.Fprintf(out, "%-10s %-12s %-9s %d\n", def.Type, def.Name, size, len(def.Pins))
	}
	return nil
}

func showDefinition(out io.Writer, def catalog.Definition) {
	fmt.Fprintf(out, "Type: %s\n", def.Type)
	fmt.Fprintf(out, "Name: %s\n", def.Name)
	fmt.Fprintf(out, "Size: %g x %g\n", def.Width, def.Height)
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Pins (%d):\n", len(def.Pins))
	for i, p := range def.Pins {
		fmt.Fprintf(out, "  %2d  %-10s %-14s (%g, %g)\n", i, p.Name, p.Role, p.Position.X, p.Position.Y)
	}

	if keys := def.PropertyKeys(); len(keys) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Default properties:")
		for _, k := range keys {
			fmt.Fprintf(out, "  %s: %v\n", k, def.DefaultProperties[k])
		}
	}
}
