package postgres

import "context"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS gallery_roadmaps (
    id           TEXT PRIMARY KEY,
    concept_slug TEXT NOT NULL UNIQUE,
    title        TEXT NOT NULL,
    graph_data   JSONB NOT NULL,
    views        INTEGER NOT NULL DEFAULT 1,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_gallery_roadmaps_views ON gallery_roadmaps(views DESC);
`

// CreateSchema creates the gallery_roadmaps table if it doesn't exist.
func (s *PGStore) CreateSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schemaSQL)
	return err
}

// DropSchema drops the gallery_roadmaps table.
func (s *PGStore) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS gallery_roadmaps CASCADE;`)
	return err
}
