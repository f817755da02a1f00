package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"resound/internal/deps"
	"resound/internal/match"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check availability of the external tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			// Show the transcriber as required so its status is informative
			// regardless of the configured method.
			statuses := deps.CheckBinaries(deps.ForMethod(cfg, match.MethodTranscript))

			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				availability := "ok"
				if !status.Available {
					availability = status.Detail
				}
				rows = append(rows, []string{status.Name, status.Command, status.Description, availability})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Tool", "Command", "Purpose", "Status"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
