package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gravitrone/sidechat/cli/internal/drafts"
)

// DraftsCmd returns the `sidechat drafts` command group.
func DraftsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "Inspect locally saved drafts",
	}
	cmd.AddCommand(draftsListCmd())
	cmd.AddCommand(draftsClearCmd())
	return cmd
}

func draftsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved drafts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := drafts.OpenStore(drafts.DefaultDir())
			if err != nil {
				return err
			}
			d, err := store.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load drafts: %w", err)
			}

			out := cmd.OutOrStdout()
			tbl := newTable("REPORT", "DRAFT")
			rows := 0
			for _, key := range d.Keys() {
				state := d.State(key)
				if !state.Present() {
					continue
				}
				id, _ := key.ReportID()
				tbl.AddRow(id, state.Text())
				rows++
			}
			if rows == 0 {
				fmt.Fprintln(out, "no drafts")
				return nil
			}
			printTable(out, tbl)
			return nil
		},
	}
}

func draftsClearCmd() *cobra.Command {
	var purge bool
	cmd := &cobra.Command{
		Use:   "clear <report-id>",
		Short: "Discard the draft for a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := drafts.OpenStore(drafts.DefaultDir())
			if err != nil {
				return err
			}
			key := drafts.KeyFor(args[0])
			if purge {
				if err := store.Erase(key); err != nil {
					return fmt.Errorf("purge draft: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "draft purged for %s\n", args[0])
				return nil
			}
			if err := store.Clear(key); err != nil {
				return fmt.Errorf("clear draft: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "draft cleared for %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&purge, "purge", false, "remove the entry instead of leaving it cleared")
	return cmd
}
