package scanner

import "github.com/repowiki/repowiki-mcp/pkg/types"

// Diff describes how the current file set departs from a persisted manifest.
type Diff struct {
	Added   []string
	Removed []string
	Changed []string
}

// Empty reports whether no additions, removals, or changes were detected.
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// UpToDate reports whether persisted exactly matches current: the same key
// set and an identical fingerprint for every file. A nil persisted manifest
// means none was ever recorded and is never up to date; a recorded empty
// manifest matches an empty current file set.
func UpToDate(persisted, current types.Manifest) bool {
	if persisted == nil || len(persisted) != len(current) {
		return false
	}
	for rel, cur := range current {
		prev, ok := persisted[rel]
		if !ok || prev.SHA256 != cur.SHA256 {
			return false
		}
	}
	return true
}

// Compare computes the added/removed/changed sets between a persisted
// manifest and the current one. Used for logging; the rebuild decision only
// needs UpToDate.
func Compare(persisted, current types.Manifest) Diff {
	var d Diff
	for rel, cur := range current {
		prev, ok := persisted[rel]
		switch {
		case !ok:
			d.Added = append(d.Added, rel)
		case prev.SHA256 != cur.SHA256:
			d.Changed = append(d.Changed, rel)
		}
	}
	for rel := range persisted {
		if _, ok := current[rel]; !ok {
			d.Removed = append(d.Removed, rel)
		}
	}
	return d
}
