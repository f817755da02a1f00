package batch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"resound/internal/config"
	"resound/internal/logging"
	"resound/internal/match"
	"resound/internal/runlog"
	"resound/internal/services"
	"resound/internal/tags"
)

// Status is a reference's terminal state within a run.
type Status string

const (
	StatusPending Status = "pending"
	StatusMatched Status = "matched"
	StatusSynced  Status = "synced"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// audioExtensions are the candidate file types picked up from the audio
// directory.
var audioExtensions = map[string]struct{}{
	".wav":  {},
	".mp3":  {},
	".m4a":  {},
	".flac": {},
	".aac":  {},
	".ogg":  {},
}

// Outcome is the terminal record for one reference.
type Outcome struct {
	// Name is the reference's filename as listed in the tag store.
	Name string
	// Reference is the resolved video path.
	Reference string
	Status    Status
	// Candidate is the winning recording, empty when none matched.
	Candidate     string
	Score         float64
	OffsetSeconds float64
	// Output is the synced file written for accepted winners.
	Output string
	// Detail explains skipped and failed outcomes.
	Detail string
}

// Summary is the end-of-run report.
type Summary struct {
	RunID      string
	Method     match.Method
	DryRun     bool
	StartedAt  time.Time
	Elapsed    time.Duration
	Candidates int
	Outcomes   []Outcome
}

// Count returns how many outcomes ended in the given status.
func (s Summary) Count(status Status) int {
	n := 0
	for _, outcome := range s.Outcomes {
		if outcome.Status == status {
			n++
		}
	}
	return n
}

// Muxer produces the synced output for an accepted match.
type Muxer interface {
	Mux(ctx context.Context, videoPath, audioPath string, offsetSeconds float64, output string) error
}

// Orchestrator runs the per-reference state machine over the tag store.
type Orchestrator struct {
	cfg     *config.Config
	tags    *tags.Store
	matcher match.Matcher
	ranker  *match.Ranker
	muxer   Muxer
	history *runlog.Store
	logger  *slog.Logger
	dryRun  bool

	lockPath string
	lock     *flock.Flock
}

// Options configures an orchestrator. History may be nil to skip run
// persistence; DryRun suppresses muxing.
type Options struct {
	Config  *config.Config
	Tags    *tags.Store
	Matcher match.Matcher
	Ranker  *match.Ranker
	Muxer   Muxer
	History *runlog.Store
	Logger  *slog.Logger
	DryRun  bool
}

// New constructs an orchestrator.
func New(opts Options) (*Orchestrator, error) {
	if opts.Config == nil || opts.Tags == nil || opts.Matcher == nil || opts.Ranker == nil || opts.Muxer == nil {
		return nil, errors.New("batch requires config, tags, matcher, ranker, and muxer")
	}
	lockPath := filepath.Join(opts.Config.Paths.LogDir, "resound.lock")
	return &Orchestrator{
		cfg:      opts.Config,
		tags:     opts.Tags,
		matcher:  opts.Matcher,
		ranker:   opts.Ranker,
		muxer:    opts.Muxer,
		history:  opts.History,
		logger:   logging.NewComponentLogger(opts.Logger, "batch"),
		dryRun:   opts.DryRun,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Run evaluates every reference against the shared candidate pool. A failure
// on one reference is recorded and the run continues; the returned error
// reflects only whether the batch itself ran to completion.
func (o *Orchestrator) Run(ctx context.Context) (Summary, error) {
	ok, err := o.lock.TryLock()
	if err != nil {
		return Summary{}, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return Summary{}, errors.New("another resound run is already in progress")
	}
	defer func() { _ = o.lock.Unlock() }()

	summary := Summary{
		RunID:     uuid.NewString(),
		Method:    o.matcher.Method(),
		DryRun:    o.dryRun,
		StartedAt: time.Now(),
	}
	logger := o.logger.With(
		logging.String(logging.FieldRunID, summary.RunID),
		logging.String(logging.FieldMethod, string(summary.Method)))

	pool, err := CandidatePool(o.cfg.Paths.AudioDir)
	if err != nil {
		return summary, err
	}
	summary.Candidates = len(pool)

	references := o.tags.References(o.cfg.Batch.ReferenceMarker)
	logger.Info("batch run started",
		logging.Int("references", len(references)),
		logging.Int("candidates", len(pool)),
		logging.Bool("dry_run", o.dryRun))

	for _, name := range references {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		outcome := o.processReference(ctx, logger, name, pool)
		summary.Outcomes = append(summary.Outcomes, outcome)
		o.record(ctx, logger, summary.RunID, outcome)
	}

	summary.Elapsed = time.Since(summary.StartedAt)
	logger.Info("batch run finished",
		logging.Int("synced", summary.Count(StatusSynced)),
		logging.Int("skipped", summary.Count(StatusSkipped)),
		logging.Int("failed", summary.Count(StatusFailed)),
		logging.Duration("elapsed", summary.Elapsed))
	return summary, nil
}

func (o *Orchestrator) processReference(ctx context.Context, logger *slog.Logger, name string, pool []string) Outcome {
	outcome := Outcome{
		Name:      name,
		Reference: filepath.Join(o.cfg.Paths.VideoDir, referenceFile(name)),
		Status:    StatusPending,
	}
	logger = logger.With(logging.String(logging.FieldReference, name))

	if _, err := os.Stat(outcome.Reference); err != nil {
		wrapped := services.Wrap(services.ErrNotFound, "batch", "locate reference", err)
		logger.Error("reference file missing", logging.Error(wrapped))
		outcome.Status = StatusFailed
		outcome.Detail = "reference file not found"
		return outcome
	}

	result, err := o.ranker.Rank(ctx, o.matcher, outcome.Reference, pool)
	if err != nil {
		logger.Error("reference unusable", logging.Error(err))
		outcome.Status = StatusFailed
		outcome.Detail = err.Error()
		return outcome
	}

	outcome.Status = StatusMatched
	outcome.Candidate = result.Candidate
	outcome.Score = result.Score
	outcome.OffsetSeconds = result.OffsetSeconds

	threshold := o.cfg.Threshold()
	switch {
	case !result.Matched():
		outcome.Status = StatusSkipped
		outcome.Detail = "no usable candidate"
	case !result.Accepted(threshold):
		outcome.Status = StatusSkipped
		outcome.Detail = fmt.Sprintf("score %.3f below threshold %.3f", result.Score, threshold)
	case o.dryRun:
		outcome.Status = StatusSkipped
		outcome.Detail = "dry-run"
	default:
		output := filepath.Join(o.cfg.Paths.OutputDir, outputFile(name))
		if err := o.mux(ctx, outcome.Reference, result.Candidate, result.OffsetSeconds, output); err != nil {
			logger.Error("mux failed", logging.Error(err))
			outcome.Status = StatusFailed
			outcome.Detail = err.Error()
			return outcome
		}
		outcome.Status = StatusSynced
		outcome.Output = output
	}

	logger.Info("reference processed",
		logging.String("status", string(outcome.Status)),
		logging.String(logging.FieldCandidate, baseName(outcome.Candidate)),
		logging.Float64("score", outcome.Score),
		logging.Float64("offset_seconds", outcome.OffsetSeconds))
	return outcome
}

func (o *Orchestrator) mux(ctx context.Context, video, audio string, offsetSeconds float64, output string) error {
	if timeout := o.cfg.Batch.ToolTimeoutSeconds; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
		defer cancel()
	}
	return o.muxer.Mux(ctx, video, audio, offsetSeconds, output)
}

func (o *Orchestrator) record(ctx context.Context, logger *slog.Logger, runID string, outcome Outcome) {
	if o.history == nil {
		return
	}
	_, err := o.history.Record(ctx, runlog.Entry{
		RunID:         runID,
		Reference:     outcome.Name,
		Candidate:     baseName(outcome.Candidate),
		Method:        string(o.matcher.Method()),
		Score:         outcome.Score,
		OffsetSeconds: outcome.OffsetSeconds,
		Status:        string(outcome.Status),
		Detail:        outcome.Detail,
	})
	if err != nil {
		logger.Warn("failed to record run history", logging.Error(err))
	}
}

// referenceFile maps a tag key to its processed rendition in the video
// directory. Tag keys carry the original recording's filename; the processed
// copy is always an .mp4 with the same stem.
func referenceFile(name string) string {
	return stem(name) + ".mp4"
}

// outputFile names the synced rendition written for an accepted match.
func outputFile(name string) string {
	return stem(name) + "_synced.mp4"
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func baseName(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}

// CandidatePool lists the audio files available for matching, walking the
// directory recursively so recordings sorted into subfolders are found. The
// result is sorted so candidate order (and therefore tie-breaking) is
// deterministic.
func CandidatePool(dir string) ([]string, error) {
	var pool []string
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := audioExtensions[ext]; ok {
			pool = append(pool, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan audio directory: %w", err)
	}
	sort.Strings(pool)
	return pool, nil
}
