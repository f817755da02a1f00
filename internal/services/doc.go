// Package services defines shared error markers for the external tools the
// matching pipeline shells out to (ffmpeg, ffprobe, whisper).
//
// The sentinel errors classify failures so the batch orchestrator can decide
// whether a reference is failed outright (missing file, decode failure) or a
// candidate is merely excluded from ranking. Use Wrap when surfacing a
// failure from an adapter so callers can classify it with errors.Is.
package services
