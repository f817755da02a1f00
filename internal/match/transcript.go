package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"resound/internal/logging"
	"resound/internal/textmatch"
	"resound/internal/transcripts"
)

// TranscriptConfig carries the analysis settings for transcript matching.
type TranscriptConfig struct {
	// TranscribeWindowSeconds bounds the audio window sent to the
	// transcriber.
	TranscribeWindowSeconds int
	// TranscribeSampleRate is the rate expected by the transcriber, in Hz.
	TranscribeSampleRate int
	// QueryWindowTokens is the reference token window slid over candidate
	// transcripts.
	QueryWindowTokens int
	// WordsPerSecond converts a token position into an offset estimate.
	WordsPerSecond float64
	// WorkDir receives extracted audio and transcriber output.
	WorkDir string
	// ToolTimeout caps each external extraction or transcription call.
	ToolTimeout time.Duration
}

// TranscriptMatcher estimates alignment by comparing speech-to-text output.
// Transcripts are expensive, so every one flows through the cache.
type TranscriptMatcher struct {
	transcoder  Transcoder
	transcriber Transcriber
	cache       *transcripts.Cache
	cfg         TranscriptConfig
	logger      *slog.Logger
}

// NewTranscriptMatcher constructs a transcript matcher.
func NewTranscriptMatcher(transcoder Transcoder, transcriber Transcriber, cache *transcripts.Cache, cfg TranscriptConfig, logger *slog.Logger) *TranscriptMatcher {
	return &TranscriptMatcher{
		transcoder:  transcoder,
		transcriber: transcriber,
		cache:       cache,
		cfg:         cfg,
		logger:      logging.NewComponentLogger(logger, "transcript"),
	}
}

// Method implements Matcher.
func (m *TranscriptMatcher) Method() Method {
	return MethodTranscript
}

// NewReference transcribes the reference's opening window and tokenizes it.
func (m *TranscriptMatcher) NewReference(ctx context.Context, path string) (*Reference, error) {
	text, err := m.transcript(ctx, transcripts.TagVideo, path)
	if err != nil {
		return nil, err
	}
	tokens := textmatch.Tokenize(text)
	if len(tokens) == 0 {
		return nil, errors.New("reference transcript is empty")
	}
	return &Reference{Path: path, tokens: tokens}, nil
}

// Score compares one candidate's transcript against the reference tokens.
// Ranking uses the similarity of the two full token sequences; the sliding
// window only estimates where the reference content sits in the candidate.
func (m *TranscriptMatcher) Score(ctx context.Context, ref *Reference, candidatePath string) (Score, error) {
	text, err := m.transcript(ctx, transcripts.TagAudio, candidatePath)
	if err != nil {
		return Score{}, err
	}
	tokens := textmatch.Tokenize(text)
	if len(tokens) == 0 {
		return Score{}, errors.New("candidate transcript is empty")
	}

	score := Score{
		Value:         textmatch.Ratio(ref.tokens, tokens),
		OffsetSeconds: textmatch.EstimateOffset(ref.tokens, tokens, m.cfg.QueryWindowTokens, m.cfg.WordsPerSecond),
	}
	m.logger.Debug("compared candidate transcript",
		logging.String(logging.FieldCandidate, filepath.Base(candidatePath)),
		logging.Float64("similarity", score.Value),
		logging.Float64("offset_seconds", score.OffsetSeconds))
	return score, nil
}

// transcript resolves a transcript from the cache, transcribing on miss.
func (m *TranscriptMatcher) transcript(ctx context.Context, tag transcripts.Tag, path string) (string, error) {
	return m.cache.Transcript(ctx, tag, path, func(ctx context.Context) (string, error) {
		return m.transcribe(ctx, tag, path)
	})
}

func (m *TranscriptMatcher) transcribe(ctx context.Context, tag transcripts.Tag, path string) (string, error) {
	if m.cfg.ToolTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.ToolTimeout)
		defer cancel()
	}

	extracted := filepath.Join(m.cfg.WorkDir, fmt.Sprintf("%s_%x.wav", tag, pathHash(path)))
	if err := m.transcoder.ExtractPCM(ctx, path, extracted, m.cfg.TranscribeWindowSeconds, m.cfg.TranscribeSampleRate); err != nil {
		return "", err
	}
	return m.transcriber.TranscribeFile(ctx, extracted, m.cfg.WorkDir)
}
