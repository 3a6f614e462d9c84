// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "picshed",
	Short: "picshed is a minimal self-hosted image hosting service",
	Long: `picshed is a minimal self-hosted image hosting service.
Clients upload image files and receive a stable retrieval URL; a small
admin API lists and deletes images and toggles runtime settings.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
