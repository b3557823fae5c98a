package main

import (
	"github.com/spf13/cobra"

	"notesapi/internal/notes/db"
	"notesapi/pkg/db/postgres"
	"notesapi/pkg/logger"
)

func newMigrateCmd() *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply PostgreSQL schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			direction := postgres.Up
			if down {
				direction = postgres.Down
			}
			if err := db.Migrate(ctx, &cfg.Postgres, direction); err != nil {
				return err
			}

			logger.Log(ctx).Info(ctx, "migrations finished")
			return nil
		},
	}

	cmd.Flags().BoolVar(&down, "down", false, "roll back all migrations")
	return cmd
}
