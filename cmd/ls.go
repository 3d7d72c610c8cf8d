package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-favorites/internal/presenter"
	"github.com/naka-gawa/github-favorites/internal/presenter/terminal"
)

var lsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "Lists the favorites",
	Long:    `Prints the stored favorites, most recently added first, as a table or, with --json, as the stored JSON records.`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			jsonData, err := json.MarshalIndent(a.favorites.Entries(), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal favorites to JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
			return nil
		}

		surface := terminal.New(nil, cmd.OutOrStdout())
		if err := presenter.New(a.favorites, nil, a.logger).Initialize(surface); err != nil {
			return err
		}
		surface.PrintTable()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)
	lsCmd.Flags().Bool("json", false, "Output the stored records as JSON")
}
