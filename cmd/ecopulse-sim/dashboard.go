package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ecopulse-sim/internal/dashboard"
)

var dashboardOut string

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Render Grafana dashboards for the configured sinks",
	Long:  "dashboard writes Grafana dashboard JSON for the GreptimeDB and PostgreSQL tables. Datasource UIDs come from GREPTIMEDB_DATASOURCE_UID and POSTGRES_DATASOURCE_UID.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		written, err := dashboard.Render(dashboardOut, dashboard.Options{
			StationID:     cfg.StationID,
			GreptimeTable: cfg.Sinks.Greptime.Table,
			PostgresTable: cfg.Sinks.Postgres.Table,
		})
		if err != nil {
			return err
		}
		for _, p := range written {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	},
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardOut, "out", "build", "Output directory")
}
