package cmd

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceSchem/internal/config"
	appui "github.com/OpenTraceLab/OpenTraceSchem/internal/ui"
	"github.com/spf13/cobra"
)

var uiTheme string

var uiCmd = &cobra.Command{
	Use:   "ui [file]",
	Short: "Launch the schematic editor",
	Long: `Launch the schematic editor window. With a file argument the circuit is
opened from it; otherwise the last opened file is restored, or a new circuit
is started.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		switch uiTheme {
		case "", config.ThemeLight, config.ThemeDark:
		default:
			return fmt.Errorf("unknown theme %q (want light or dark)", uiTheme)
		}
		return appui.Run(path, uiTheme)
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
	uiCmd.Flags().StringVar(&uiTheme, "theme", "", "Override the saved theme (light or dark)")
}
