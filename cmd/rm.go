package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-favorites/internal/domain"
	"github.com/naka-gawa/github-favorites/internal/presenter"
	"github.com/naka-gawa/github-favorites/internal/presenter/terminal"
)

var rmCmd = &cobra.Command{
	Use:     "rm <login>",
	Aliases: []string{"remove"},
	Short:   "Removes a GitHub account from the favorites",
	Long:    `Removes the account with the given login after asking for confirmation. Removing a login that is not in the list does nothing.`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		login := args[0]
		var target *domain.FavoriteEntry
		for _, e := range a.favorites.Entries() {
			if e.Login == login {
				target = &e
				break
			}
		}
		if target == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is not in the favorites.\n", login)
			return nil
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			confirm := terminal.NewConfirm(cmd.InOrStdin(), cmd.OutOrStdout())
			if !confirm(presenter.ConfirmDeletePrompt) {
				return nil
			}
		}
		a.favorites.Delete(*target)
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s.\n", login)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
	rmCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
