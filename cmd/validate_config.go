package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var validateConfigCmd = &cobra.Command{
	Use:   "validate-config",
	Short: "Check the config file and print the effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidateConfig(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(validateConfigCmd)
}

func runValidateConfig(w io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	source := cfg.FilePath()
	if source == "" {
		source = "(defaults)"
	}
	g := cfg.Geometry()

	fmt.Fprintf(w, "Config OK: %s\n", source)
	fmt.Fprintf(w, "  debounce:             %s\n", cfg.Debounce())
	fmt.Fprintf(w, "  min selection length: %d\n", cfg.MinSelectionLength)
	fmt.Fprintf(w, "  control:              %dx%d, gap %d\n", g.Width, g.Height, g.Gap)
	if cfg.Theme != "" {
		fmt.Fprintf(w, "  theme:                %s\n", cfg.Theme)
	}
	fmt.Fprintf(w, "  markers:              %s=%s, %s, %s\n",
		cfg.Markers.RoleAttr, cfg.Markers.AssistantRole, cfg.Markers.StreamingAttr, cfg.Markers.ControlAttr)
	return nil
}
