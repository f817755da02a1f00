// Package ffmpeg wraps the ffmpeg binary for the two media operations the
// matching pipeline needs: extracting a bounded mono PCM analysis window
// from any audio or video file, and muxing a time-shifted replacement audio
// stream into a video.
//
// The command runner is injectable so tests can assert on argument
// construction without spawning processes.
package ffmpeg
