// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// The matching pipeline uses it to read container durations for candidate
// recordings and to verify that a reference video actually carries audio
// before spending decode or transcription work on it.
package ffprobe
