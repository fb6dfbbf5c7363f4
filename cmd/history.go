package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/niftyregw/internal/history"
)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent tool runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.cfg.History.Enabled {
				return fmt.Errorf("run history is disabled (set history.enabled: true)")
			}
			store, err := a.getStore()
			if err != nil {
				return err
			}

			limit, _ := cmd.Flags().GetInt("limit")
			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), history.Table(entries))
			return nil
		},
	}
	cmd.Flags().IntP("limit", "n", 20, "number of runs to show (0 for all)")
	return cmd
}
