package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gravitrone/sidechat/cli/internal/config"
	"github.com/gravitrone/sidechat/cli/internal/drafts"
	"github.com/gravitrone/sidechat/cli/internal/sidebar"
)

// ReportsCmd returns the `sidechat reports` command, which prints the sidebar
// ordering without starting the TUI.
func ReportsCmd() *cobra.Command {
	var mode, active string
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List conversations in sidebar order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, client, err := loadClient()
			if err != nil {
				return err
			}
			if mode == "" {
				mode = cfg.PriorityMode
			}

			reports, err := client.ListReports()
			if err != nil {
				return apiFailure("list reports", err)
			}
			details, err := client.ListPersonalDetails()
			if err != nil {
				return apiFailure("list personal details", err)
			}

			d := drafts.Drafts{}
			if store, err := drafts.OpenStore(drafts.DefaultDir()); err == nil {
				ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
				defer cancel()
				if loaded, err := store.Load(ctx); err == nil {
					d = loaded
				}
			}

			options := sidebar.Options(reports, details, d, active, mode)
			out := cmd.OutOrStdout()
			if len(options) == 0 {
				fmt.Fprintln(out, "no reports found")
				return nil
			}

			tbl := newTable("ID", "NAME", "FLAGS", "PREVIEW")
			for _, opt := range options {
				tbl.AddRow(opt.ReportID, opt.Text, reportFlags(opt, active), opt.Alternate)
			}
			printTable(out, tbl)
			if config.NormalizePriorityMode(mode) == config.PriorityModeGSD {
				fmt.Fprintln(out, "(gsd mode: read conversations hidden)")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "", "priority mode: default or gsd")
	cmd.Flags().StringVar(&active, "active", "", "treat this report ID as the open one")
	return cmd
}

func reportFlags(opt sidebar.Option, active string) string {
	var flags []string
	if opt.ReportID == active {
		flags = append(flags, "active")
	}
	if opt.IsPinned {
		flags = append(flags, "pinned")
	}
	if opt.IsUnread {
		flags = append(flags, "unread")
	}
	if opt.HasDraft {
		flags = append(flags, "draft")
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ",")
}
