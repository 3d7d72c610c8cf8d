// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "github-favorites",
	Short: "A CLI tool to keep a list of favorite GitHub accounts.",
	Long: `github-favorites keeps a local list of GitHub accounts together with
their public profile figures (name, public repositories, followers),
fetched from the GitHub API when an account is added or refreshed.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("store", "", "Path of the favorites store (default ~/.github-favorites/favorites.{json,db})")
	rootCmd.PersistentFlags().String("backend", "", "Storage backend: file or sqlite (overrides GITHUB_FAVORITES_BACKEND)")
	rootCmd.PersistentFlags().String("api", "", "GitHub API used for lookups: rest or graphql (overrides GITHUB_FAVORITES_API)")
}
