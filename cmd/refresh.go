package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-fetches the profile of every favorite",
	Long:  `Fetches the current profile of every stored account from GitHub, concurrently, and updates the stored figures. Accounts that no longer exist keep their last known data.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		ctx, cancel := signalContext()
		defer cancel()

		if err := a.favorites.Refresh(ctx); err != nil {
			return fmt.Errorf("failed to refresh favorites: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Refreshed %d favorites.\n", len(a.favorites.Entries()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}
