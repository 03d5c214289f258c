package server

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/meikuraledutech/ideagraph"
)

type memoryEntry struct {
	title   string
	graph   []byte
	views   int
	created time.Time
}

// MemoryGallery is an in-process ideagraph.Gallery for runs without PostgreSQL.
type MemoryGallery struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

// NewMemoryGallery creates an empty gallery.
func NewMemoryGallery() *MemoryGallery {
	return &MemoryGallery{entries: make(map[string]*memoryEntry), now: time.Now}
}

// CreateSchema is a no-op.
func (m *MemoryGallery) CreateSchema(ctx context.Context) error { return nil }

// DropSchema forgets every entry.
func (m *MemoryGallery) DropSchema(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.entries)
	return nil
}

// Hit returns a copy of the cached roadmap and counts one view.
func (m *MemoryGallery) Hit(ctx context.Context, slug string) (*ideagraph.Roadmap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[slug]
	if !ok {
		return nil, nil
	}
	e.views++
	var rm ideagraph.Roadmap
	if err := json.Unmarshal(e.graph, &rm); err != nil {
		return nil, err
	}
	return &rm, nil
}

// Save stores r with one view unless slug is already cached.
func (m *MemoryGallery) Save(ctx context.Context, slug, title string, r *ideagraph.Roadmap) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[slug]; ok {
		return nil
	}
	m.entries[slug] = &memoryEntry{title: title, graph: data, views: 1, created: m.now()}
	return nil
}

// Trending lists up to limit entries, most viewed first, newest first on ties.
func (m *MemoryGallery) Trending(ctx context.Context, limit int) ([]ideagraph.TrendingItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := make([]ideagraph.TrendingItem, 0, len(m.entries))
	for slug, e := range m.entries {
		items = append(items, ideagraph.TrendingItem{Slug: slug, Concept: e.title, Views: e.views, CreatedAt: e.created})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Views != items[j].Views {
			return items[i].Views > items[j].Views
		}
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].Slug < items[j].Slug
	})
	if limit >= 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
