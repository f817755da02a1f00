package textmatch

import (
	"math"
	"testing"
)

func TestBestWindowFindsEmbeddedReference(t *testing.T) {
	ref := Tokenize("the quick brown fox jumps over the lazy dog")
	cand := append(Tokenize("recording check one two three four five"), ref...)

	match := BestWindow(ref, cand, 50)
	if match.Position != 7 {
		t.Errorf("position: got %d, want 7", match.Position)
	}
	if match.Ratio != 1.0 {
		t.Errorf("ratio at aligned position: got %v, want 1.0", match.Ratio)
	}
}

func TestBestWindowTruncatesToWindowTokens(t *testing.T) {
	ref := []string{"a", "b", "c", "d", "e", "f"}
	cand := []string{"x", "a", "b", "y"}

	match := BestWindow(ref, cand, 2)
	if match.Position != 1 {
		t.Errorf("position: got %d, want 1", match.Position)
	}
	if match.Ratio != 1.0 {
		t.Errorf("ratio: got %v, want 1.0", match.Ratio)
	}
}

func TestBestWindowDegenerateInputs(t *testing.T) {
	if m := BestWindow(nil, []string{"a"}, 50); m.Position != 0 || m.Ratio != 0 {
		t.Errorf("empty reference: got %+v", m)
	}
	if m := BestWindow([]string{"a"}, nil, 50); m.Position != 0 || m.Ratio != 0 {
		t.Errorf("empty candidate: got %+v", m)
	}
	// Candidate shorter than the window: no position can be scored.
	if m := BestWindow([]string{"a", "b", "c"}, []string{"a"}, 3); m.Ratio != 0 {
		t.Errorf("short candidate: got %+v", m)
	}
}

func TestEstimateOffsetUsesSpeakingRate(t *testing.T) {
	ref := Tokenize("one two three four five")
	lead := Tokenize("intro chatter before the talk actually starts here")
	cand := append(append([]string{}, lead...), ref...)

	// Reference content begins 8 words into the candidate; at 2.5 words per
	// second the candidate leads by 3.2s, reported as a negative offset.
	got := EstimateOffset(ref, cand, 50, 2.5)
	if math.Abs(got-(-3.2)) > 1e-9 {
		t.Errorf("offset: got %v, want -3.2", got)
	}
}

func TestEstimateOffsetAlignedAtStart(t *testing.T) {
	ref := Tokenize("the quick brown fox jumps over the lazy dog")
	if got := EstimateOffset(ref, ref, 50, 2.5); got != 0 {
		t.Errorf("aligned transcripts: got %v, want 0", got)
	}
	if got := EstimateOffset(nil, ref, 50, 2.5); got != 0 {
		t.Errorf("empty reference: got %v, want 0", got)
	}
}
