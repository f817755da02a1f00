// Package match scores candidate recordings against a reference video and
// ranks them.
//
// Two matchers implement the same contract: the waveform matcher
// cross-correlates downsampled audio, and the transcript matcher compares
// whisper output when raw correlation is unavailable or undesirable. Their
// scores share a [0,1] range but are not calibrated against each other, so a
// ranking always uses a single method.
package match
