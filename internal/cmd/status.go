package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// StatusCmd returns the `sidechat status` command.
func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the connection to the API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, client, err := loadClient()
			if err != nil {
				return err
			}
			health, err := client.Health()
			if err != nil {
				return apiFailure("api unreachable at "+client.BaseURL(), err)
			}

			version, realtime := health.Version, health.Realtime
			if version == "" {
				version = "-"
			}
			if realtime == "" {
				realtime = "-"
			}
			tbl := newTable("API", "STATUS", "VERSION", "REALTIME", "LATENCY", "USER")
			tbl.AddRow(client.BaseURL(), health.Status, version, realtime, health.Latency.Round(time.Millisecond), cfg.Username)
			printTable(cmd.OutOrStdout(), tbl)

			if !health.OK() {
				return fmt.Errorf("api at %s reports %q", client.BaseURL(), health.Status)
			}
			return nil
		},
	}
}
