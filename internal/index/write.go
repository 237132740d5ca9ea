package index

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/repowiki/repowiki-mcp/pkg/types"
)

// WritePair persists the vector artifact and its metadata sidecar as one
// logical unit. Both files are written to temporaries and renamed into
// place; the vector file lands first, then the metadata, so a concurrent
// reader either sees the old pair, the new pair, or old metadata with new
// vectors, which the loader rejects on the size check rather than serving
// a torn index.
func WritePair(vectorPath, metaPath string, meta Meta, vectors []float32) error {
	if meta.Dimension <= 0 {
		return fmt.Errorf("invalid dimension: %d", meta.Dimension)
	}
	if meta.Count != len(meta.Items) {
		return fmt.Errorf("count %d does not match %d chunk records", meta.Count, len(meta.Items))
	}
	if len(vectors) != meta.Count*meta.Dimension {
		return fmt.Errorf("vector length mismatch: got %d want %d", len(vectors), meta.Count*meta.Dimension)
	}
	if meta.CreatedAt == "" {
		meta.CreatedAt = types.UTCNow()
	}
	if err := os.MkdirAll(filepath.Dir(vectorPath), 0o755); err != nil {
		return fmt.Errorf("cannot create index dir: %w", err)
	}

	if err := writeVectorsAtomic(vectorPath, vectors); err != nil {
		return err
	}
	return writeMetaAtomic(metaPath, meta)
}

// WriteEmpty persists the empty-index descriptor for a project with no
// embeddable content: a metadata file with zero count and no vector
// artifact. The valid-but-empty state is distinct from "not built".
func WriteEmpty(vectorPath, metaPath string, meta Meta) error {
	meta.Dimension = 0
	meta.Count = 0
	meta.Items = nil
	if meta.CreatedAt == "" {
		meta.CreatedAt = types.UTCNow()
	}
	if err := os.MkdirAll(filepath.Dir(metaPath), 0o755); err != nil {
		return fmt.Errorf("cannot create index dir: %w", err)
	}
	if err := writeMetaAtomic(metaPath, meta); err != nil {
		return err
	}
	if err := os.Remove(vectorPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("cannot remove stale vector file: %w", err)
	}
	return nil
}

func writeVectorsAtomic(path string, vectors []float32) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("cannot create temp vector file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := binary.Write(tmp, binary.LittleEndian, vectors); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("cannot write vectors: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("cannot replace vector file: %w", err)
	}
	return nil
}

func writeMetaAtomic(path string, meta Meta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("cannot create temp meta file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("cannot write meta: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("cannot replace meta file: %w", err)
	}
	return nil
}
