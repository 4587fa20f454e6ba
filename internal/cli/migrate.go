package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/Shivanand-hulikatti/festival-events/internal/config"
	"github.com/Shivanand-hulikatti/festival-events/internal/database"
)

// MigrateOptions holds flags for the migrate command.
type MigrateOptions struct {
	DatabaseURL string
}

// NewMigrateCommand creates the command that applies or rolls back schema
// migrations.
func NewMigrateCommand() *cobra.Command {
	opts := &MigrateOptions{}

	cmd := &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back database migrations",
		Long:      "Apply (up, the default) or roll back (down) every embedded migration.\nThe database comes from --database-url or DATABASE_URL.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.DatabaseURL, "database-url", "", "postgres connection string (default $DATABASE_URL)")

	return cmd
}

func parseDirection(args []string) (database.Direction, error) {
	if len(args) == 0 {
		return database.Up, nil
	}
	switch dir := database.Direction(args[0]); dir {
	case database.Up, database.Down:
		return dir, nil
	default:
		return "", fmt.Errorf("invalid direction %q: must be up or down", args[0])
	}
}

func runMigrate(opts *MigrateOptions, args []string) error {
	dir, err := parseDirection(args)
	if err != nil {
		return err
	}
	dsn := opts.DatabaseURL
	if dsn == "" {
		if dsn, err = config.LoadDatabaseURL(); err != nil {
			return err
		}
	}
	if err := database.Migrate(dsn, dir); err != nil {
		return err
	}
	log.Printf("migrate: %s complete", dir)
	return nil
}
