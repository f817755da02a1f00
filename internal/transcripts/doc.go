// Package transcripts persists speech-to-text output so repeated runs skip
// redundant transcription work.
//
// Entries are keyed by a method tag plus the absolute source path, so a
// video's transcript and a standalone audio file's transcript never collide.
// The cache file is rewritten atomically after every store, surviving a
// crash mid-batch, and concurrent requests for the same key are collapsed to
// a single computation.
package transcripts
