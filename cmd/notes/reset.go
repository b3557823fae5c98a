package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"notesapi/internal/notes/db"
	"notesapi/pkg/logger"
)

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete every note in the configured storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			storage, err := db.New(ctx, cfg)
			if err != nil {
				return fmt.Errorf("%s: %w", ErrInitStorage, err)
			}
			defer func() {
				if closeErr := storage.Close(ctx); closeErr != nil {
					logger.Log(ctx).Warn(ctx, LogClosingStorage, zap.Error(closeErr))
				}
			}()

			if err := storage.NoteRepository().DeleteAll(ctx); err != nil {
				return err
			}

			logger.Log(ctx).Info(ctx, "all notes deleted", zap.String("storage_backend", storage.Backend()))
			return nil
		},
	}
}
