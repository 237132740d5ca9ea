package index

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LoadMeta reads and validates the metadata sidecar on its own. Used by the
// change detector, which does not need the vectors.
func LoadMeta(metaPath string) (*Meta, error) {
	data, err := os.ReadFile(metaPath)
	if os.IsNotExist(err) {
		return nil, ErrNotBuilt
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read meta %s: %w", metaPath, err)
	}
	var m Meta
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid meta JSON %s: %w", metaPath, err)
	}
	if m.Count != len(m.Items) {
		return nil, fmt.Errorf("meta %s: count %d does not match %d chunk records", metaPath, m.Count, len(m.Items))
	}
	return &m, nil
}

// Load reads the index pair from disk. A zero-count meta loads as a valid
// empty index without touching the vector file.
func Load(vectorPath, metaPath string) (*Index, error) {
	m, err := LoadMeta(metaPath)
	if err != nil {
		return nil, err
	}
	if m.Count == 0 {
		return &Index{Meta: *m}, nil
	}
	if m.Dimension <= 0 {
		return nil, fmt.Errorf("invalid dimension in meta: %d", m.Dimension)
	}

	vectors, err := loadVectors(vectorPath, m.Count, m.Dimension)
	if err != nil {
		return nil, err
	}
	return &Index{Meta: *m, Vectors: vectors}, nil
}

func loadVectors(path string, count, dim int) ([]float32, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, ErrNotBuilt
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open vector file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("cannot stat vector file %s: %w", path, err)
	}
	expected := int64(count) * int64(dim) * 4
	if st.Size() != expected {
		return nil, fmt.Errorf("vector file size mismatch: got %d want %d (rows=%d dim=%d)", st.Size(), expected, count, dim)
	}

	out := make([]float32, count*dim)
	if err := binary.Read(io.LimitReader(f, expected), binary.LittleEndian, out); err != nil {
		return nil, fmt.Errorf("cannot read vectors from %s: %w", path, err)
	}
	return out, nil
}

// PairMTimes returns the modification times of both index files, for
// staleness checks by cached readers.
func PairMTimes(vectorPath, metaPath string) (vectorMTime, metaMTime int64, err error) {
	mi, err := os.Stat(metaPath)
	if err != nil {
		return 0, 0, err
	}
	vi, err := os.Stat(vectorPath)
	if os.IsNotExist(err) {
		// Empty index: only the meta file exists.
		return 0, mi.ModTime().UnixNano(), nil
	}
	if err != nil {
		return 0, 0, err
	}
	return vi.ModTime().UnixNano(), mi.ModTime().UnixNano(), nil
}
