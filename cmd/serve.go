package main

import (
	"property-service/internal/handler"
	mid "property-service/internal/middleware"
	"property-service/internal/model"
	"property-service/internal/service"
	"property-service/pkg/database"
	"property-service/pkg/logger"
	"property-service/pkg/media"
	"property-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	var skipMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			appConfig, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()

			log.Info("Starting "+appConfig.ServiceName, appConfig.LogConfig()...)

			// Initialize Prometheus metrics
			prometheus.InitMetrics(appConfig.Metrics.Prefix)
			log.Info("Prometheus metrics initialized",
				zap.String("metrics_prefix", appConfig.Metrics.Prefix))

			// Initialize database
			db, err := database.InitDB(&appConfig.DB)
			if err != nil {
				log.Error("Failed to initialize database", zap.Error(err))
				return err
			}
			if !skipMigrate {
				if err := database.MigrateModels(db, model.All()...); err != nil {
					log.Error("Failed to migrate database", zap.Error(err))
					return err
				}
				if _, err := service.BackfillTitleKeys(cmd.Context(), db); err != nil {
					log.Error("Failed to backfill title keys", zap.Error(err))
					return err
				}
			}
			log.Info("Database connection established", zap.String("driver", appConfig.DB.Driver))

			// Initialize media host
			uploader, err := media.New(&appConfig.Media, log)
			if err != nil {
				log.Error("Failed to initialize media uploader", zap.Error(err))
				return err
			}
			log.Info("Media uploader initialized", zap.String("provider", uploader.Name()))

			propertyService := service.NewPropertyService(db, uploader, service.Config{
				UploadTimeout: appConfig.Media.Timeout,
				Tx:            appConfig.Tx,
			})
			userService := service.NewUserService(db)

			// Initialize Echo instance
			e := echo.New()
			e.HideBanner = true

			// Middleware
			e.Use(middleware.Recover())
			e.Use(mid.RequestIDMiddleware())
			e.Use(logger.Middleware())
			e.Use(mid.MetricsMiddleware)
			e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
				AllowOrigins:  appConfig.CORS.AllowOrigins,
				ExposeHeaders: []string{handler.HeaderTotalCount},
			}))

			// Routes
			// Metrics endpoint
			e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

			// Health check endpoint
			e.GET("/health", handler.HealthCheck(db))

			// Locally stored photos are served by the service itself
			if local, ok := uploader.(*media.Local); ok {
				e.Static(appConfig.Media.LocalURLPath, local.Dir())
			}

			api := e.Group("/api/v1")
			handler.RegisterRoutes(api,
				handler.NewPropertyHandler(propertyService),
				handler.NewUserHandler(userService))

			// Start server
			port := appConfig.Server.Port
			log.Info("Starting server", zap.String("port", port))
			if err := e.Start(":" + port); err != nil {
				log.Error("Server error", zap.Error(err))
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not run schema migration on startup")
	return cmd
}
