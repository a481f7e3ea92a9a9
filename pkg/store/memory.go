package store

import (
	"context"
	"sort"
	"sync"

	"github.com/mediakit/ffcheck/pkg/schemas"
)

// MemoryStore is an in-memory implementation of Store.
// Thread-safe for concurrent access.
type MemoryStore struct {
	mu       sync.RWMutex
	analyses map[string]*Analysis
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		analyses: make(map[string]*Analysis),
	}
}

// Create stores a new analysis record
func (m *MemoryStore) Create(ctx context.Context, analysis *Analysis) error {
	if analysis.ID == "" {
		return ErrInvalidAnalysisID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.analyses[analysis.ID]; exists {
		return ErrAnalysisExists
	}

	m.analyses[analysis.ID] = copyAnalysis(analysis)
	return nil
}

// Get retrieves an analysis record by ID
func (m *MemoryStore) Get(ctx context.Context, id string) (*Analysis, error) {
	if id == "" {
		return nil, ErrInvalidAnalysisID
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	analysis, exists := m.analyses[id]
	if !exists {
		return nil, ErrAnalysisNotFound
	}

	// Return a copy to prevent external modifications
	return copyAnalysis(analysis), nil
}

// Delete removes an analysis record by ID
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidAnalysisID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.analyses[id]; !exists {
		return ErrAnalysisNotFound
	}

	delete(m.analyses, id)
	return nil
}

// List returns analysis records matching the filter, newest first
func (m *MemoryStore) List(ctx context.Context, filter *ListFilter) ([]*Analysis, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Analysis
	for _, analysis := range m.analyses {
		if matchesFilter(analysis, filter) {
			out = append(out, copyAnalysis(analysis))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return paginate(out, filter), nil
}

// Close closes the store (no-op for memory store)
func (m *MemoryStore) Close() error {
	return nil
}

func copyAnalysis(a *Analysis) *Analysis {
	if a == nil {
		return nil
	}

	out := *a
	if a.Diagnostics.Messages != nil {
		out.Diagnostics.Messages = make([]schemas.Diagnostic, len(a.Diagnostics.Messages))
		copy(out.Diagnostics.Messages, a.Diagnostics.Messages)
	}

	return &out
}

func matchesFilter(a *Analysis, filter *ListFilter) bool {
	if filter == nil {
		return true
	}

	if filter.FilePath != "" && a.FilePath != filter.FilePath {
		return false
	}
	if filter.WithErrors && a.ErrorCount == 0 {
		return false
	}
	if filter.CreatedAfter != nil && a.CreatedAt.Before(*filter.CreatedAfter) {
		return false
	}
	if filter.CreatedBefore != nil && a.CreatedAt.After(*filter.CreatedBefore) {
		return false
	}

	return true
}

func paginate(analyses []*Analysis, filter *ListFilter) []*Analysis {
	if filter == nil {
		return analyses
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(analyses) {
			return []*Analysis{}
		}
		analyses = analyses[filter.Offset:]
	}

	if filter.Limit > 0 && filter.Limit < len(analyses) {
		analyses = analyses[:filter.Limit]
	}

	return analyses
}
