package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusAnalyzing, StatusGenerated, StatusFailed} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, Status("").Valid())
	assert.False(t, Status("done").Valid())
}

func TestChunkRecordValidate(t *testing.T) {
	valid := ChunkRecord{File: "a.go", CharStart: 0, CharEnd: 10, LineStart: 1, LineEnd: 2}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name string
		rec  ChunkRecord
	}{
		{"no file", ChunkRecord{CharStart: 0, CharEnd: 10, LineStart: 1, LineEnd: 1}},
		{"start equals end", ChunkRecord{File: "a", CharStart: 5, CharEnd: 5, LineStart: 1, LineEnd: 1}},
		{"negative start", ChunkRecord{File: "a", CharStart: -1, CharEnd: 5, LineStart: 1, LineEnd: 1}},
		{"zero line start", ChunkRecord{File: "a", CharStart: 0, CharEnd: 5, LineStart: 0, LineEnd: 1}},
		{"line start after end", ChunkRecord{File: "a", CharStart: 0, CharEnd: 5, LineStart: 3, LineEnd: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.rec.Validate())
		})
	}
}

func TestSiteMapOrderPreserved(t *testing.T) {
	m := NewSiteMap()
	m.Set(OverviewLeaf, NewSiteMap())
	m.Set("b.md", NewSiteMap())
	m.Set("a.py", NewSiteMap())

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"overview":{},"b.md":{},"a.py":{}}`, string(data))
}

func TestSiteMapJSONRoundTrip(t *testing.T) {
	m := NewSiteMap()
	m.Set(OverviewLeaf, NewSiteMap())
	sub := NewSiteMap()
	sub.Set("handler.go", NewSiteMap())
	m.Set("internal", sub)

	data, err := json.Marshal(m)
	require.NoError(t, err)

	loaded := NewSiteMap()
	require.NoError(t, json.Unmarshal(data, loaded))

	assert.Equal(t, []Leaf{
		{Dir: "", Name: OverviewLeaf},
		{Dir: "internal", Name: "handler.go"},
	}, loaded.Leaves())
}

func TestSiteMapLeaves(t *testing.T) {
	m := NewSiteMap()
	m.Set(OverviewLeaf, NewSiteMap())
	m.Set("a.py", NewSiteMap())
	nested := NewSiteMap()
	inner := NewSiteMap()
	inner.Set("deep.md", NewSiteMap())
	nested.Set("sub", inner)
	nested.Set("b.md", NewSiteMap())
	m.Set("docs", nested)

	leaves := m.Leaves()
	assert.Equal(t, []Leaf{
		{Dir: "", Name: OverviewLeaf},
		{Dir: "", Name: "a.py"},
		{Dir: "docs/sub", Name: "deep.md"},
		{Dir: "docs", Name: "b.md"},
	}, leaves)
	assert.True(t, leaves[0].Name == OverviewLeaf, "overview leaf must come first")
}
