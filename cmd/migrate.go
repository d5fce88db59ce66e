package cmd

import (
	"github.com/spf13/cobra"
	"github.com/yeremiapane/restaurant-pos/database"
	"github.com/yeremiapane/restaurant-pos/utils"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the schema and bootstrap the admin user",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := openStore(cfg)
		if err != nil {
			return err
		}
		if err := database.EnsureAdmin(db, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			return err
		}
		utils.InfoLogger.Println("Migration finished")
		return nil
	},
}
