package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"resound/internal/transcripts"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the transcript cache",
	}

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "List cached transcripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := ctx.openCache()
			if err != nil {
				return err
			}
			entries := cache.Entries()
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "Transcript cache is empty")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					entry.Key,
					entry.CachedAt.Format("2006-01-02 15:04"),
					fmt.Sprintf("%d", len(entry.Text)),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Key", "Cached", "Chars"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight},
			))
			fmt.Fprintf(out, "%d cached transcript(s)\n", len(entries))
			return nil
		},
	})

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every cached transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := ctx.openCache()
			if err != nil {
				return err
			}
			count := cache.Count()
			if err := cache.Clear(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached transcript(s)\n", count)
			return nil
		},
	})

	return cacheCmd
}

func (c *commandContext) openCache() (*transcripts.Cache, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.newLogger()
	if err != nil {
		return nil, err
	}
	return transcripts.NewCache(cfg.Paths.CacheFile, logger), nil
}
