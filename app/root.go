// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "chirofind",
	Short: "ChiroFind is the backend for a chiropractor directory and blog",
	Long: `ChiroFind is the backend for a chiropractor directory and blog site
that provides a public JSON API for listings, posts and settings, and an
audited admin API for managing them.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
