// Package layout centralizes the on-disk directory scheme for project data.
//
// Per project the server keeps three trees: the acquired source under the
// storage root, analysis artifacts (vector index pair, status descriptor,
// site map) under the analysis root, and the generated wiki under the wiki
// root.
package layout

import (
	"path/filepath"

	"github.com/google/uuid"
)

// Default directory names relative to the data directory.
const (
	DefaultStorageDir  = "project_storage"
	DefaultAnalysisDir = "project_analysis"
	DefaultWikiDir     = "project_wiki"
)

// Artifact file names within a project's rag directory.
const (
	VectorFile  = "vectors.f32"
	MetaFile    = "index_meta.json"
	StatusFile  = "status.json"
	SiteMapFile = "site_map.json"
)

// Layout resolves per-project paths under fixed root directories.
type Layout struct {
	StorageRoot  string
	AnalysisRoot string
	WikiRoot     string
}

// New builds a Layout with the default subdirectories under dataDir.
func New(dataDir string) Layout {
	return Layout{
		StorageRoot:  filepath.Join(dataDir, DefaultStorageDir),
		AnalysisRoot: filepath.Join(dataDir, DefaultAnalysisDir),
		WikiRoot:     filepath.Join(dataDir, DefaultWikiDir),
	}
}

// SourceDir is the root of the acquired source tree for a project.
func (l Layout) SourceDir(id uuid.UUID) string {
	return filepath.Join(l.StorageRoot, id.String())
}

// AnalysisDir holds all analysis artifacts for a project.
func (l Layout) AnalysisDir(id uuid.UUID) string {
	return filepath.Join(l.AnalysisRoot, id.String())
}

// RagDir holds the vector index pair and status descriptor for a project.
func (l Layout) RagDir(id uuid.UUID) string {
	return filepath.Join(l.AnalysisRoot, id.String(), "rag")
}

// VectorPath is the binary vector artifact for a project.
func (l Layout) VectorPath(id uuid.UUID) string {
	return filepath.Join(l.RagDir(id), VectorFile)
}

// MetaPath is the metadata sidecar paired with the vector artifact.
func (l Layout) MetaPath(id uuid.UUID) string {
	return filepath.Join(l.RagDir(id), MetaFile)
}

// StatusPath is the persisted status descriptor for a project.
func (l Layout) StatusPath(id uuid.UUID) string {
	return filepath.Join(l.RagDir(id), StatusFile)
}

// SiteMapPath is the persisted site-map descriptor for a project.
func (l Layout) SiteMapPath(id uuid.UUID) string {
	return filepath.Join(l.AnalysisRoot, id.String(), SiteMapFile)
}

// WikiDir is the root of the generated output tree for a project.
func (l Layout) WikiDir(id uuid.UUID) string {
	return filepath.Join(l.WikiRoot, id.String())
}
