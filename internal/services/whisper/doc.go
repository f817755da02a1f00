// Package whisper wraps the whisperx CLI (launched through uvx) for
// speech-to-text on extracted analysis audio.
//
// Transcription is the most expensive operation in the pipeline, so callers
// are expected to route through the transcript cache rather than invoking
// the service directly per run.
package whisper
