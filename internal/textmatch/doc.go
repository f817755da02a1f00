// Package textmatch compares transcripts with a Ratcliff/Obershelp sequence
// ratio over lowercase word tokens and estimates a coarse time offset by
// sliding a fixed reference token window across a candidate transcript.
//
// Offsets derived from word positions assume a constant speaking rate, so
// this is a lower-precision fallback compared to waveform correlation.
package textmatch
