package cli

import (
	"os"

	"catalog_service/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Catalog service for cars, categories, products and images",
	Long:  "Serves the catalog REST API with cache-aside reads and applies its Postgres schema",
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func setupLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logger.Warnf("Invalid log level '%s', using default 'info'. Error: %v", level, err)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)
	return logger
}

// loadConfig reads the configuration and applies its log level.
func loadConfig() (*config.Config, *logrus.Logger) {
	logger := setupLogger("info")
	cfg := config.LoadConfig(logger)

	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warnf("Invalid log level '%s' in config, using default 'info'. Error: %v", cfg.LogLevel, err)
	} else {
		logger.SetLevel(logLevel)
	}
	return cfg, logger
}
