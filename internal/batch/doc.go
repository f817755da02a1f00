// Package batch drives a full matching run: it discovers references from the
// tag store, ranks the shared candidate pool against each one, muxes accepted
// winners into synced outputs, and reports per-reference outcomes.
package batch
