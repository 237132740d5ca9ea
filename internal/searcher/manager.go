package searcher

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/repowiki/repowiki-mcp/internal/layout"
	"github.com/repowiki/repowiki-mcp/pkg/types"
)

// Manager hands out one cached Searcher per project, created on first use.
// The map lock guards only instance creation and eviction; queries run
// under each instance's own lock, so different projects never contend.
type Manager struct {
	mu        sync.Mutex
	searchers map[uuid.UUID]*Searcher

	layout layout.Layout
	emb    Embedder
}

// NewManager creates a searcher manager.
func NewManager(l layout.Layout, emb Embedder) *Manager {
	return &Manager{
		searchers: make(map[uuid.UUID]*Searcher),
		layout:    l,
		emb:       emb,
	}
}

// Search runs a retrieval query against the named project's index.
func (m *Manager) Search(ctx context.Context, projectID uuid.UUID, query string, topK int) ([]types.SearchResult, error) {
	return m.get(projectID).Search(ctx, query, topK)
}

func (m *Manager) get(projectID uuid.UUID) *Searcher {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.searchers[projectID]; ok {
		return s
	}
	s := newSearcher(
		m.layout.SourceDir(projectID),
		m.layout.VectorPath(projectID),
		m.layout.MetaPath(projectID),
		m.emb,
	)
	m.searchers[projectID] = s
	return s
}

// Evict drops the cached searcher for a project, releasing its loaded
// index. Used on project deletion.
func (m *Manager) Evict(projectID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.searchers, projectID)
}
