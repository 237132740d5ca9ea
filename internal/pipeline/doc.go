// Package pipeline drives the per-project documentation run.
//
// A run refreshes the vector index (skipped when the source fingerprints
// are unchanged), rebuilds the site map, and regenerates every page, then
// resolves the persisted status to a terminal value. One background
// goroutine serves each run; a process-wide running set de-duplicates
// concurrent launches for the same project.
package pipeline
