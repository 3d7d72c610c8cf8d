package cmd

import (
	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-favorites/internal/presenter"
	"github.com/naka-gawa/github-favorites/internal/presenter/terminal"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Manages the favorites interactively",
	Long:  `Opens an interactive session showing the favorites table. Type "add <username>" to add an account, "rm <#|login>" to remove one, and "quit" to leave.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		ctx, cancel := signalContext()
		defer cancel()

		surface := terminal.New(cmd.InOrStdin(), cmd.OutOrStdout())
		if err := presenter.New(a.favorites, surface.Confirm, a.logger).Initialize(surface); err != nil {
			return err
		}
		return surface.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}
