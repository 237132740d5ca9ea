// Package generator turns site-map leaves into documentation pages.
//
// The Generator interface is the seam for pluggable generation backends;
// the built-in Static implementation works offline. The Pool fans page
// generation out over a fixed-size worker group with per-page failure
// isolation, mirroring the site-map hierarchy into the project's wiki
// directory.
package generator
