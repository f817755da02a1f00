package match

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"resound/internal/logging"
	"resound/internal/wave"
)

// WaveformConfig carries the analysis settings for waveform matching.
type WaveformConfig struct {
	// SampleRate is the reduced analysis rate in Hz.
	SampleRate int
	// WindowSeconds bounds the reference prefix extracted for correlation.
	WindowSeconds int
	// CandidateWindowFactor scales WindowSeconds for candidate extraction.
	CandidateWindowFactor int
	// WorkDir receives the temporary extracted WAV files.
	WorkDir string
	// ToolTimeout caps each external extraction call.
	ToolTimeout time.Duration
}

// WaveformMatcher estimates alignment by FFT cross-correlation of
// downsampled audio. Candidate signals are decoded at most once per matcher
// instance, which the orchestrator scopes to a batch run.
type WaveformMatcher struct {
	transcoder Transcoder
	cfg        WaveformConfig
	logger     *slog.Logger

	group      singleflight.Group
	candidates candidateSignals
}

// NewWaveformMatcher constructs a waveform matcher.
func NewWaveformMatcher(transcoder Transcoder, cfg WaveformConfig, logger *slog.Logger) *WaveformMatcher {
	return &WaveformMatcher{
		transcoder: transcoder,
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "waveform"),
	}
}

// Method implements Matcher.
func (m *WaveformMatcher) Method() Method {
	return MethodWaveform
}

// NewReference extracts and decodes the reference's analysis window.
func (m *WaveformMatcher) NewReference(ctx context.Context, path string) (*Reference, error) {
	signal, err := m.extract(ctx, path, "ref", m.cfg.WindowSeconds)
	if err != nil {
		return nil, err
	}
	if signal.Empty() {
		return nil, errors.New("reference produced an empty signal")
	}
	return &Reference{Path: path, signal: signal}, nil
}

// Score correlates one candidate against the prepared reference.
func (m *WaveformMatcher) Score(ctx context.Context, ref *Reference, candidatePath string) (Score, error) {
	signal, err := m.candidateSignal(ctx, candidatePath)
	if err != nil {
		return Score{}, err
	}
	if signal.Empty() {
		return Score{}, errors.New("candidate produced an empty signal")
	}

	alignment, err := wave.CrossCorrelate(ref.signal.Samples, signal.Samples)
	if err != nil {
		return Score{}, err
	}

	score := Score{
		Value:         alignment.Score,
		OffsetSeconds: alignment.OffsetSeconds(m.cfg.SampleRate),
	}
	m.logger.Debug("correlated candidate",
		logging.String(logging.FieldCandidate, filepath.Base(candidatePath)),
		logging.Float64("score", score.Value),
		logging.Float64("offset_seconds", score.OffsetSeconds))
	return score, nil
}

// candidateSignal decodes a candidate at most once per run, with concurrent
// requests for the same path collapsing to a single extraction.
func (m *WaveformMatcher) candidateSignal(ctx context.Context, path string) (wave.Signal, error) {
	if signal, ok := m.candidates.get(path); ok {
		return signal, nil
	}

	result, err, _ := m.group.Do(path, func() (any, error) {
		if signal, ok := m.candidates.get(path); ok {
			return signal, nil
		}
		window := m.cfg.WindowSeconds * m.cfg.CandidateWindowFactor
		signal, err := m.extract(ctx, path, "cand", window)
		if err != nil {
			return wave.Signal{}, err
		}
		m.candidates.put(path, signal)
		return signal, nil
	})
	if err != nil {
		return wave.Signal{}, err
	}
	return result.(wave.Signal), nil
}

func (m *WaveformMatcher) extract(ctx context.Context, source, kind string, windowSeconds int) (wave.Signal, error) {
	dest := filepath.Join(m.cfg.WorkDir, fmt.Sprintf("%s_%x.wav", kind, pathHash(source)))

	if m.cfg.ToolTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.ToolTimeout)
		defer cancel()
	}

	if err := m.transcoder.ExtractPCM(ctx, source, dest, windowSeconds, m.cfg.SampleRate); err != nil {
		return wave.Signal{}, err
	}
	return wave.Load(dest)
}

func pathHash(path string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(path))
	return h.Sum64()
}

// candidateSignals is a concurrency-safe map of decoded candidate signals.
type candidateSignals struct {
	mu      sync.RWMutex
	signals map[string]wave.Signal
}

func (c *candidateSignals) get(path string) (wave.Signal, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	signal, ok := c.signals[path]
	return signal, ok
}

func (c *candidateSignals) put(path string, signal wave.Signal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.signals == nil {
		c.signals = make(map[string]wave.Signal)
	}
	c.signals[path] = signal
}
