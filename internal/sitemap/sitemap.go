package sitemap

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/repowiki/repowiki-mcp/pkg/types"
)

// Build scans root and produces the documentable-file hierarchy for one
// project. Directories are visited in sorted order so the result is
// deterministic for a given tree. The synthetic "overview" leaf always
// comes first; a missing root yields a map containing only that leaf.
func Build(root string) *types.SiteMap {
	m := types.NewSiteMap()
	m.Set(types.OverviewLeaf, types.NewSiteMap())

	if st, err := os.Stat(root); err != nil || !st.IsDir() {
		return m
	}
	for pair := buildTree(root).Oldest(); pair != nil; pair = pair.Next() {
		m.Set(pair.Key, pair.Value)
	}
	return m
}

// buildTree walks one directory. Empty subtrees are pruned: a directory
// with no documentable files anywhere below it does not appear at all.
func buildTree(dir string) *types.SiteMap {
	tree := types.NewSiteMap()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return tree
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			if skipDir(name) {
				continue
			}
			subtree := buildTree(filepath.Join(dir, name))
			if subtree.Len() > 0 {
				tree.Set(name, subtree)
			}
			continue
		}
		if skipFile(name) {
			continue
		}
		if !allowedExts[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.Size() == 0 {
			continue
		}
		tree.Set(name, types.NewSiteMap())
	}
	return tree
}

// Save persists the site map descriptor as JSON.
func Save(path string, m *types.SiteMap) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads a persisted site map. A missing or invalid descriptor yields
// an empty map rather than an error; callers treat that as "not built yet".
func Load(path string) *types.SiteMap {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.NewSiteMap()
	}
	m := types.NewSiteMap()
	if err := json.Unmarshal(data, m); err != nil {
		return types.NewSiteMap()
	}
	return m
}
