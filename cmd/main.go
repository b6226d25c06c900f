package main

import (
	"os"

	"property-service/pkg/config"
	"property-service/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Running the root command serves the
// API and accepts the same flags as serve.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "property-service",
		Short:        "Property listing API",
		SilenceUsage: true,
	}

	serve := serveCmd()
	rootCmd.RunE = serve.RunE
	rootCmd.Flags().AddFlagSet(serve.Flags())
	rootCmd.AddCommand(serve, migrateCmd())

	return rootCmd
}

// bootstrap loads configuration and initializes the global logger
func bootstrap() (*config.Config, *zap.Logger, error) {
	// Load configuration, .env is optional
	appConfig, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	if err := logger.InitLogger(&logger.LogConfig{
		Level:       appConfig.Log.Level,
		Environment: appConfig.Server.Env,
		ServiceName: appConfig.ServiceName,
	}); err != nil {
		return nil, nil, err
	}

	return appConfig, logger.GetLogger(), nil
}
