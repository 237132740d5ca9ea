package types

import (
	"errors"
	"time"
)

// Status is the externally visible pipeline state of a project.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAnalyzing Status = "analyzing"
	StatusGenerated Status = "generated"
	StatusFailed    Status = "failed"
)

// Valid reports whether s is one of the known status values.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAnalyzing, StatusGenerated, StatusFailed:
		return true
	}
	return false
}

// ManifestEntry records the fingerprint of one source file at index build time.
type ManifestEntry struct {
	SHA256 string `json:"sha256"`
	MTime  int64  `json:"mtime"`
}

// Manifest maps project-relative file paths to their fingerprints.
type Manifest map[string]ManifestEntry

// ChunkRecord is the metadata persisted alongside one vector row.
// Records are immutable once written; their order matches vector row order.
type ChunkRecord struct {
	File      string `json:"file"`
	CharStart int    `json:"char_start"`
	CharEnd   int    `json:"char_end"`
	Tokens    int    `json:"tokens"`
	IsCode    bool   `json:"is_code"`
	LineStart int    `json:"line_start"`
	LineEnd   int    `json:"line_end"`
	Preview   string `json:"preview"`
}

// Validate checks the structural invariants of a chunk record.
func (c *ChunkRecord) Validate() error {
	if c.File == "" {
		return errors.New("chunk record has no owning file")
	}
	if c.CharStart < 0 || c.CharStart >= c.CharEnd {
		return errors.New("chunk span must satisfy 0 <= start < end")
	}
	if c.LineStart <= 0 || c.LineStart > c.LineEnd {
		return errors.New("chunk line range must satisfy 1 <= start <= end")
	}
	return nil
}

// SearchResult is one row returned by a retrieval query, best score first.
type SearchResult struct {
	Score     float64 `json:"score"`
	File      string  `json:"file"`
	LineStart int     `json:"line_start"`
	LineEnd   int     `json:"line_end"`
	IsCode    bool    `json:"is_code"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
}

// StatusDescriptor is the persisted status document for a project. It is the
// only externally visible failure signal; sub-stage detail lives in logs.
type StatusDescriptor struct {
	Status      Status `json:"status"`
	UpdatedAt   string `json:"updated_at"`
	StartedAt   string `json:"started_at,omitempty"`
	CompletedAt string `json:"completed_at,omitempty"`
	VectorCount *int   `json:"vector_count,omitempty"`
	FileCount   *int   `json:"file_count,omitempty"`
	IndexPath   string `json:"index_path,omitempty"`
	Error       string `json:"error,omitempty"`
}

// UTCNow returns the current UTC time in RFC 3339 format with a Z suffix,
// the timestamp format used by all persisted descriptors.
func UTCNow() string {
	return time.Now().UTC().Format(time.RFC3339)
}
