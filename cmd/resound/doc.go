// Command resound aligns independently recorded audio with video footage of
// the same event and produces synced outputs.
package main
