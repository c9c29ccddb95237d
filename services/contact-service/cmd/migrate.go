package main

import (
	"github.com/spf13/cobra"

	"contactbook/services/contact-service/config"
	"contactbook/services/contact-service/domain/model"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the users table in PostgreSQL",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, appLogger, err := opts.load()
			if err != nil {
				return err
			}
			if cfg.Storage.Driver != config.DriverPostgres {
				appLogger.Warn("Storage driver is not postgres, migrating the configured database anyway", "driver", cfg.Storage.Driver)
			}

			client, err := openPostgres(cfg)
			if err != nil {
				appLogger.Error("Failed to connect to database", "error", err)
				return err
			}
			defer func() {
				if err := client.Close(); err != nil {
					appLogger.Warn("Error closing database connection", "error", err)
				}
			}()

			if err := client.Migrate(&model.User{}); err != nil {
				appLogger.Error("Failed to migrate database", "error", err)
				return err
			}
			appLogger.Info("Database migrated", "dbname", cfg.Infrastructure.Postgres.DBName)
			return nil
		},
	}
}
