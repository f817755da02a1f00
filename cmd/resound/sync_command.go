package main

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"resound/internal/batch"
	"resound/internal/deps"
	"resound/internal/match"
	"resound/internal/media/ffmpeg"
	"resound/internal/runlog"
	"resound/internal/tags"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var methodFlag string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Match every tagged reference against the audio pool and produce synced outputs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			method, err := resolveMethod(cfg, methodFlag)
			if err != nil {
				return err
			}
			// Threshold selection follows the effective method.
			cfg.Analysis.Method = string(method)

			if err := deps.Verify(cfg, method); err != nil {
				return err
			}

			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}

			tagStore, err := tags.Load(cfg.Paths.TagsFile)
			if err != nil {
				return err
			}

			matcher, cleanup, err := newMatcher(cfg, method, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			history, err := runlog.Open(cfg.Paths.RunLogDB)
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			defer history.Close()

			orchestrator, err := batch.New(batch.Options{
				Config:  cfg,
				Tags:    tagStore,
				Matcher: matcher,
				Ranker:  match.NewRanker(cfg.Concurrency(), logger),
				Muxer:   ffmpeg.NewTranscoder(cfg.FFmpegBinary()),
				History: history,
				Logger:  logger,
				DryRun:  dryRun,
			})
			if err != nil {
				return err
			}

			summary, err := orchestrator.Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderSummary(summary, out))
			fmt.Fprintf(out, "Run %s (%s): %d synced, %d skipped, %d failed in %s\n",
				summary.RunID, summary.Method,
				summary.Count(batch.StatusSynced),
				summary.Count(batch.StatusSkipped),
				summary.Count(batch.StatusFailed),
				summary.Elapsed.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report matches without writing synced outputs")
	cmd.Flags().StringVar(&methodFlag, "method", "", "Matching method for this run (waveform or transcript)")
	return cmd
}

func renderSummary(summary batch.Summary, out io.Writer) string {
	headers := []string{"Reference", "Status", "Candidate", "Score", "Offset", "Detail"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft}

	rows := make([][]string, 0, len(summary.Outcomes))
	for _, outcome := range summary.Outcomes {
		candidate := ""
		if outcome.Candidate != "" {
			candidate = filepath.Base(outcome.Candidate)
		}
		score := ""
		offset := ""
		if candidate != "" {
			score = fmt.Sprintf("%.3f", outcome.Score)
			offset = fmt.Sprintf("%+.2fs", outcome.OffsetSeconds)
		}
		rows = append(rows, []string{
			outcome.Name,
			colorizeStatus(out, string(outcome.Status)),
			candidate,
			score,
			offset,
			outcome.Detail,
		})
	}
	return renderTable(headers, rows, aligns)
}
