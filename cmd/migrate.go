package main

import (
	"property-service/internal/model"
	"property-service/internal/service"
	"property-service/pkg/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			appConfig, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()

			db, err := database.InitDB(&appConfig.DB)
			if err != nil {
				log.Error("Failed to initialize database", zap.Error(err))
				return err
			}

			if err := database.MigrateModels(db, model.All()...); err != nil {
				log.Error("Failed to migrate database", zap.Error(err))
				return err
			}

			backfilled, err := service.BackfillTitleKeys(cmd.Context(), db)
			if err != nil {
				log.Error("Failed to backfill title keys", zap.Error(err))
				return err
			}

			log.Info("Database schema is up to date",
				zap.String("driver", appConfig.DB.Driver),
				zap.Int64("backfilled_title_keys", backfilled))
			return nil
		},
	}
}
