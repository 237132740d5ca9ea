package sitemap

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repowiki/repowiki-mcp/pkg/types"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestBuildScenario(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.py", "def f(): pass")
	writeFile(t, root, "b.md", "# Title\nHello")

	m := Build(root)
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"overview":{},"a.py":{},"b.md":{}}`, string(data))
}

func TestBuildOverviewAlwaysFirst(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "aaa.py", "x = 1")

	m := Build(root)
	leaves := m.Leaves()
	require.NotEmpty(t, leaves)
	assert.Equal(t, types.OverviewLeaf, leaves[0].Name)
}

func TestBuildMissingRoot(t *testing.T) {
	m := Build(filepath.Join(t.TempDir(), "nope"))
	leaves := m.Leaves()
	require.Len(t, leaves, 1)
	assert.Equal(t, types.OverviewLeaf, leaves[0].Name)
}

func TestBuildFiltering(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.go", "package x")
	writeFile(t, root, "empty.py", "")                    // zero size
	writeFile(t, root, "binary.exe", "MZ")                // extension not allowed
	writeFile(t, root, "package-lock.json", "{}")         // denied filename
	writeFile(t, root, "debug.log", "x")                  // denied pattern
	writeFile(t, root, ".git/config", "x")                // denied dir
	writeFile(t, root, "node_modules/lib/index.js", "x")  // denied dir
	writeFile(t, root, ".hidden/readme.md", "x")          // dot dir
	writeFile(t, root, "src/only_binaries/app.exe", "MZ") // empty subtree pruned
	writeFile(t, root, "src/main.py", "print(1)")

	m := Build(root)
	assert.Equal(t, []types.Leaf{
		{Dir: "", Name: types.OverviewLeaf},
		{Dir: "", Name: "keep.go"},
		{Dir: "src", Name: "main.py"},
	}, m.Leaves())
}

func TestBuildDeterministicOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "c.py", "x")
	writeFile(t, root, "a.py", "x")
	writeFile(t, root, "b.py", "x")

	first, err := json.Marshal(Build(root))
	require.NoError(t, err)
	second, err := json.Marshal(Build(root))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
	assert.Equal(t, `{"overview":{},"a.py":{},"b.py":{},"c.py":{}}`, string(first))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "docs/guide.md", "# hi")
	writeFile(t, root, "main.go", "package main")

	m := Build(root)
	path := filepath.Join(t.TempDir(), "site_map.json")
	require.NoError(t, Save(path, m))

	loaded := Load(path)
	assert.Equal(t, m.Leaves(), loaded.Leaves())
}

func TestLoadMissingOrInvalid(t *testing.T) {
	assert.Empty(t, Load(filepath.Join(t.TempDir(), "nope.json")).Leaves())

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	assert.Empty(t, Load(path).Leaves())
}
