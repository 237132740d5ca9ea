package types

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// OverviewLeaf is the synthetic first leaf of every site map.
const OverviewLeaf = "overview"

// SiteMap is an ordered hierarchy of documentable files. Internal nodes map
// path segments to subtrees; an empty node is a leaf (one documentable file).
// Iteration and JSON serialization preserve insertion order, which keeps the
// synthetic "overview" leaf first.
type SiteMap struct {
	*orderedmap.OrderedMap[string, *SiteMap]
}

// NewSiteMap returns an empty site map node.
func NewSiteMap() *SiteMap {
	return &SiteMap{orderedmap.New[string, *SiteMap]()}
}

// IsLeaf reports whether the node documents a single file.
func (m *SiteMap) IsLeaf() bool {
	return m == nil || m.OrderedMap == nil || m.Len() == 0
}

// UnmarshalJSON decodes a nested JSON object, preserving key order.
func (m *SiteMap) UnmarshalJSON(data []byte) error {
	m.OrderedMap = orderedmap.New[string, *SiteMap]()
	return m.OrderedMap.UnmarshalJSON(data)
}

// Leaf identifies one documentable file in a site map: the directory path
// relative to the project root and the file name.
type Leaf struct {
	Dir  string
	Name string
}

// Leaves returns every leaf of the map in traversal order.
func (m *SiteMap) Leaves() []Leaf {
	var out []Leaf
	m.collectLeaves("", &out)
	return out
}

func (m *SiteMap) collectLeaves(dir string, out *[]Leaf) {
	if m == nil || m.OrderedMap == nil {
		return
	}
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.IsLeaf() {
			*out = append(*out, Leaf{Dir: dir, Name: pair.Key})
			continue
		}
		child := pair.Key
		if dir != "" {
			child = dir + "/" + pair.Key
		}
		pair.Value.collectLeaves(child, out)
	}
}
