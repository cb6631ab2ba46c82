package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskquest/internal/repository"
	"taskquest/pkg/logger"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the users and tasks tables if they do not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, db, cleanup, err := setup(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := repository.Migrate(ctx, db); err != nil {
				return err
			}
			logger.SystemLogger.Info("Schema migrated")
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}

func newResetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop and recreate every table (destroys all data)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset destroys all data; pass --yes to confirm")
			}
			ctx := cmd.Context()
			_, db, cleanup, err := setup(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := repository.DropAll(ctx, db); err != nil {
				return err
			}
			if err := repository.Migrate(ctx, db); err != nil {
				return err
			}
			logger.SystemLogger.Warn("Database reset")
			fmt.Fprintln(cmd.OutOrStdout(), "database reset")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm that all data may be dropped")
	return cmd
}
