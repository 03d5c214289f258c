package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/meikuraledutech/ideagraph"
)

// Hit returns the cached roadmap for slug and bumps its view count in the
// same statement. Returns nil, nil if the slug is not cached.
func (s *PGStore) Hit(ctx context.Context, slug string) (*ideagraph.Roadmap, error) {
	var data []byte
	err := s.db.QueryRow(ctx,
		`UPDATE gallery_roadmaps SET views = views + 1 WHERE concept_slug = $1 RETURNING graph_data`, slug,
	).Scan(&data)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("gallery: hit: %w", err)
	}

	var rm ideagraph.Roadmap
	if err := json.Unmarshal(data, &rm); err != nil {
		return nil, fmt.Errorf("gallery: decode %s: %w", slug, err)
	}
	return &rm, nil
}

// Save stores a generated roadmap with one view.
// A concurrent save of the same slug keeps the first graph.
func (s *PGStore) Save(ctx context.Context, slug, title string, r *ideagraph.Roadmap) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("gallery: encode %s: %w", slug, err)
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO gallery_roadmaps (id, concept_slug, title, graph_data, views)
		 VALUES ($1, $2, $3, $4, 1)
		 ON CONFLICT (concept_slug) DO NOTHING`,
		uuid.NewString(), slug, title, data,
	)
	if err != nil {
		return fmt.Errorf("gallery: insert %s: %w", slug, err)
	}
	return nil
}

// Trending returns up to limit entries ordered by views, most viewed first.
// Returns an empty slice (not nil) if none found.
func (s *PGStore) Trending(ctx context.Context, limit int) ([]ideagraph.TrendingItem, error) {
	rows, err := s.db.Query(ctx,
		`SELECT concept_slug, title, views, created_at FROM gallery_roadmaps
		 ORDER BY views DESC, created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("gallery: trending: %w", err)
	}
	defer rows.Close()

	items := []ideagraph.TrendingItem{}
	for rows.Next() {
		var it ideagraph.TrendingItem
		if err := rows.Scan(&it.Slug, &it.Concept, &it.Views, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("gallery: scan: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("gallery: rows: %w", err)
	}

	return items, nil
}
