package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"github.com/yeremiapane/restaurant-pos/services"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run one table reconciliation pass and print the report",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := openStore(cfg)
		if err != nil {
			return err
		}

		report, err := services.NewReconciler(db, nil).ReconcileAll(cmd.Context())
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}
