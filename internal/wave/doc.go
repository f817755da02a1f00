// Package wave loads analysis signals from extracted WAV audio and estimates
// the alignment between two signals via FFT-based cross-correlation.
//
// Signals are bounded-duration mono prefixes decoded at a reduced sample rate
// chosen for speed over precision. Correlation reports a signed sample offset
// (positive means the candidate starts later than the reference and must be
// delayed) and a score normalized by the reference length so candidates of
// different lengths rank comparably against a fixed reference window.
package wave
