package textmatch

// WindowMatch is the best alignment of a reference token window inside a
// candidate token sequence.
type WindowMatch struct {
	// Position is the candidate token index where the reference window fits best.
	Position int
	// Ratio is the window similarity at that position.
	Ratio float64
}

// BestWindow slides the first windowTokens tokens of the reference over
// every position of the candidate sequence and returns the position with the
// maximum similarity ratio. Returns a zero match when either sequence is
// empty or the candidate is shorter than the window.
func BestWindow(reference, candidate []string, windowTokens int) WindowMatch {
	if len(reference) == 0 || len(candidate) == 0 || windowTokens <= 0 {
		return WindowMatch{}
	}

	window := reference
	if len(window) > windowTokens {
		window = window[:windowTokens]
	}

	best := WindowMatch{}
	for pos := 0; pos+len(window) <= len(candidate); pos++ {
		chunk := candidate[pos : pos+len(window)]
		if ratio := Ratio(window, chunk); ratio > best.Ratio {
			best = WindowMatch{Position: pos, Ratio: ratio}
		}
	}
	return best
}

// EstimateOffset converts the best window position into a signed offset in
// seconds using an assumed constant speaking rate. The reference content
// appearing some way into the candidate means the candidate recording
// started earlier, so the returned offset is negative (trim the candidate's
// start), matching the waveform sign convention.
func EstimateOffset(reference, candidate []string, windowTokens int, wordsPerSecond float64) float64 {
	if wordsPerSecond <= 0 {
		return 0
	}
	match := BestWindow(reference, candidate, windowTokens)
	return -float64(match.Position) / wordsPerSecond
}
