// Package cli holds the festival command tree.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command for the festival binary.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "festival",
		Short:         "Festival events API",
		Long:          "Event registration, ticketing, forum and feedback for a college festival.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewMigrateCommand())
	cmd.AddCommand(NewTokenCommand())

	return cmd
}
