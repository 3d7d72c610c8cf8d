package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarizes the favorites and outputs as JSON",
	Long:  `Computes totals, means and medians of public repositories and followers over the stored favorites, and outputs the result in JSON format.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		// Marshal the summary into a pretty-printed JSON string.
		jsonData, err := json.MarshalIndent(a.favorites.Summary(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal summary to JSON: %w", err)
		}

		// Print the final JSON to standard output.
		fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
