package cmd

import (
	"fmt"

	"artify/internal/core/domain/style"

	"github.com/spf13/cobra"
)

var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List the available styles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		registry, err := style.FromConfig()
		if err != nil {
			return err
		}

		for _, def := range registry.Definitions() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", def.ID, def.Name)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(stylesCmd)
}
