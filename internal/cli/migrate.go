package cli

import (
	"catalog_service/pkg/db"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long:  "Creates the catalog tables and indexes in the database named by DATABASE_URL. Safe to run repeatedly.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger := loadConfig()

		database, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			logger.Errorf("Failed to connect to database: %v", err)
			return err
		}
		defer database.Close()

		if err := db.Migrate(cmd.Context(), database); err != nil {
			logger.Errorf("Migration failed: %v", err)
			return err
		}
		logger.Info("Schema applied successfully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
