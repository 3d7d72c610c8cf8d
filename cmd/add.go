package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Adds a GitHub account to the favorites",
	Long:  `Looks up the account on GitHub and puts it at the top of the favorites list. Accounts already in the list and accounts that do not exist are rejected.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		ctx, cancel := signalContext()
		defer cancel()

		if err := a.favorites.Add(ctx, args[0]); err != nil {
			return err
		}
		entry := a.favorites.Entries()[0]
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s): %d repositories, %d followers\n",
			entry.Login, entry.Name, entry.PublicRepos, entry.Followers)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
