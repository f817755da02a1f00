package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"resound/internal/runlog"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var reference string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show outcomes from previous runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := runlog.Open(cfg.Paths.RunLogDB)
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			defer store.Close()

			var entries []runlog.Entry
			if reference != "" {
				entries, err = store.ByReference(cmd.Context(), reference)
			} else {
				entries, err = store.Recent(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No recorded runs")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				score := ""
				offset := ""
				if entry.Candidate != "" {
					score = fmt.Sprintf("%.3f", entry.Score)
					offset = fmt.Sprintf("%+.2fs", entry.OffsetSeconds)
				}
				rows = append(rows, []string{
					entry.CreatedAt.Local().Format("2006-01-02 15:04"),
					shortRunID(entry.RunID),
					entry.Reference,
					colorizeStatus(out, entry.Status),
					entry.Candidate,
					score,
					offset,
					entry.Detail,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"When", "Run", "Reference", "Status", "Candidate", "Score", "Offset", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries to show")
	cmd.Flags().StringVar(&reference, "reference", "", "Show the full history for one reference")
	return cmd
}

func shortRunID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	return runID
}
