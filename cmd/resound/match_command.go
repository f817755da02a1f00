package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"resound/internal/batch"
	"resound/internal/config"
	"resound/internal/deps"
	"resound/internal/match"
	"resound/internal/media/ffprobe"
)

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var methodFlag string
	var audioDirFlag string

	cmd := &cobra.Command{
		Use:   "match <video>",
		Short: "Rank the audio pool against a single video and report the best match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			method, err := resolveMethod(cfg, methodFlag)
			if err != nil {
				return err
			}
			cfg.Analysis.Method = string(method)

			if err := deps.Verify(cfg, method); err != nil {
				return err
			}

			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}

			videoPath, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			audioDir := cfg.Paths.AudioDir
			if trimmed := strings.TrimSpace(audioDirFlag); trimmed != "" {
				if audioDir, err = config.ExpandPath(trimmed); err != nil {
					return err
				}
			}
			pool, err := batch.CandidatePool(audioDir)
			if err != nil {
				return err
			}
			if len(pool) == 0 {
				return fmt.Errorf("no audio candidates found in %s", audioDir)
			}

			matcher, cleanup, err := newMatcher(cfg, method, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			ranker := match.NewRanker(cfg.Concurrency(), logger)
			result, err := ranker.Rank(cmd.Context(), matcher, videoPath, pool)
			if err != nil {
				return fmt.Errorf("match %s: %w", filepath.Base(videoPath), err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Reference:  %s\n", filepath.Base(videoPath))
			if probe, probeErr := ffprobe.Inspect(cmd.Context(), cfg.FFprobeBinary(), videoPath); probeErr == nil {
				fmt.Fprintf(out, "Duration:   %.1fs (%d audio stream(s))\n",
					probe.DurationSeconds(), probe.AudioStreamCount())
			}
			fmt.Fprintf(out, "Method:     %s\n", result.Method)
			fmt.Fprintf(out, "Candidates: %d evaluated, %d failed\n", result.Evaluated, result.Failed)
			if !result.Matched() {
				fmt.Fprintln(out, "No usable candidate matched")
				return nil
			}
			fmt.Fprintf(out, "Winner:     %s\n", filepath.Base(result.Candidate))
			fmt.Fprintf(out, "Score:      %.3f", result.Score)
			if !result.Accepted(cfg.Threshold()) {
				fmt.Fprintf(out, " (below accept threshold %.3f)", cfg.Threshold())
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Offset:     %+.3fs\n", result.OffsetSeconds)
			return nil
		},
	}

	cmd.Flags().StringVar(&methodFlag, "method", "", "Matching method (waveform or transcript)")
	cmd.Flags().StringVar(&audioDirFlag, "audio-dir", "", "Candidate audio directory (defaults to the configured pool)")
	return cmd
}
