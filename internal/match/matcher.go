package match

import (
	"context"

	"resound/internal/wave"
)

// Method identifies which estimation strategy produced a result.
type Method string

const (
	// MethodWaveform correlates downsampled audio signals.
	MethodWaveform Method = "waveform"
	// MethodTranscript compares speech-to-text output.
	MethodTranscript Method = "transcript"
)

// Result is the outcome of ranking a candidate pool against one reference.
type Result struct {
	// Reference is the video whose embedded audio was the alignment target.
	Reference string
	// Candidate is the winning recording; empty when nothing matched.
	Candidate string
	// OffsetSeconds is the signed shift aligning the candidate to the
	// reference: positive delays the candidate, negative trims its start.
	OffsetSeconds float64
	// Score is the winning confidence in [0,1]. Scores from different
	// methods are not comparable.
	Score float64
	// Method names the matcher that produced the score.
	Method Method
	// Evaluated and Failed count the candidates scored and excluded.
	Evaluated int
	Failed    int
}

// Matched reports whether a winning candidate was found.
func (r Result) Matched() bool {
	return r.Candidate != ""
}

// Accepted reports whether the winner's score meets the accept threshold.
// Below-threshold results are still reported, they just never trigger a
// synced output.
func (r Result) Accepted(threshold float64) bool {
	return r.Matched() && r.Score >= threshold
}

// Score is one candidate's evaluation against a prepared reference.
type Score struct {
	Value         float64
	OffsetSeconds float64
}

// Reference is a prepared, comparable representation of a reference video's
// analysis window. Exactly one of the representations is populated,
// depending on the matcher that prepared it.
type Reference struct {
	Path   string
	signal wave.Signal
	tokens []string
}

// Matcher evaluates candidates against a reference using one method.
type Matcher interface {
	Method() Method
	// NewReference produces the reference's comparable representation.
	// Failures here make the reference unusable for this run.
	NewReference(ctx context.Context, path string) (*Reference, error)
	// Score evaluates a single candidate. A failing candidate is excluded
	// from ranking but does not affect other candidates.
	Score(ctx context.Context, ref *Reference, candidatePath string) (Score, error)
}

// Transcoder is the external media capability the matchers rely on for
// audio extraction.
type Transcoder interface {
	ExtractPCM(ctx context.Context, source, dest string, durationSeconds, sampleRate int) error
}

// Transcriber converts extracted audio to text.
type Transcriber interface {
	TranscribeFile(ctx context.Context, source, outputDir string) (string, error)
}
