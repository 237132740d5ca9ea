// Package types provides shared type definitions for the RepoWiki MCP server.
//
// This package defines the domain vocabulary used across components: file
// manifests and fingerprints, chunk records paired with vector rows, search
// results, pipeline status descriptors, and the ordered site-map hierarchy.
//
// # Core Types
//
// ChunkRecord describes one embeddable span of a source file and travels
// with its vector row; the persisted record list order always matches the
// vector row order:
//
//	rec := types.ChunkRecord{
//	    File:      "internal/server/server.go",
//	    CharStart: 120,
//	    CharEnd:   980,
//	    LineStart: 10,
//	    LineEnd:   42,
//	    IsCode:    true,
//	}
//
// SiteMap is an insertion-ordered nested map of documentable files. Every
// site map begins with the synthetic "overview" leaf.
package types
