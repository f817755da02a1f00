package match

import (
	"context"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"resound/internal/logging"
)

// Ranker scores a candidate pool against one reference and picks the winner.
type Ranker struct {
	concurrency int
	logger      *slog.Logger
}

// NewRanker constructs a ranker that scores up to concurrency candidates at
// once. Values below one mean unbounded.
func NewRanker(concurrency int, logger *slog.Logger) *Ranker {
	return &Ranker{
		concurrency: concurrency,
		logger:      logging.NewComponentLogger(logger, "ranker"),
	}
}

// Rank evaluates every candidate with the given matcher and returns the
// best-scoring one. Candidates that fail to score are excluded without
// affecting the others. Ties keep the earliest candidate in pool order, so
// results are deterministic regardless of scoring concurrency.
func (r *Ranker) Rank(ctx context.Context, matcher Matcher, referencePath string, candidates []string) (Result, error) {
	result := Result{
		Reference: referencePath,
		Method:    matcher.Method(),
	}
	if len(candidates) == 0 {
		return result, nil
	}

	ref, err := matcher.NewReference(ctx, referencePath)
	if err != nil {
		return result, err
	}

	scores := make([]Score, len(candidates))
	failed := make([]bool, len(candidates))

	group, groupCtx := errgroup.WithContext(ctx)
	if r.concurrency > 0 {
		group.SetLimit(r.concurrency)
	}
	for i, candidate := range candidates {
		i, candidate := i, candidate
		group.Go(func() error {
			score, err := matcher.Score(groupCtx, ref, candidate)
			if err != nil {
				failed[i] = true
				r.logger.Warn("candidate excluded from ranking",
					logging.String(logging.FieldReference, filepath.Base(referencePath)),
					logging.String(logging.FieldCandidate, filepath.Base(candidate)),
					logging.Error(err))
				return nil
			}
			scores[i] = score
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return result, err
	}

	// Reduce in pool order with a strict comparison so the first of any
	// tied candidates wins.
	best := -1
	for i := range candidates {
		if failed[i] {
			result.Failed++
			continue
		}
		result.Evaluated++
		if best < 0 || clamp(scores[i].Value) > clamp(scores[best].Value) {
			best = i
		}
	}
	if best < 0 {
		return result, nil
	}

	result.Candidate = candidates[best]
	result.Score = clamp(scores[best].Value)
	result.OffsetSeconds = scores[best].OffsetSeconds
	return result, nil
}

// clamp bounds a raw score to [0,1]. Correlation peaks can exceed the
// nominal range on pathological signals.
func clamp(value float64) float64 {
	switch {
	case value < 0:
		return 0
	case value > 1:
		return 1
	default:
		return value
	}
}
