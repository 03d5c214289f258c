package ideagraph

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrStaleSession is returned when a mutation targets a session that a later Load replaced.
	ErrStaleSession = errors.New("ideagraph: session is no longer active")
	// ErrNoSession is returned when a mutation arrives before any Load.
	ErrNoSession = errors.New("ideagraph: no active session")
)

// NetworkError is a rejected fetch or a non-success response.
type NetworkError struct {
	Op     string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("ideagraph: %s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("ideagraph: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Backend is the request/response contract of the generative backend.
type Backend interface {
	// Roadmap returns the initial graph for a concept.
	Roadmap(ctx context.Context, concept string) (*Roadmap, error)

	// Trending returns the gallery of recent concepts. It never fails;
	// errors degrade to an empty slice.
	Trending(ctx context.Context, limit int) []TrendingItem

	// Expand returns a subgraph rooted at the requested node.
	Expand(ctx context.Context, req ExpandRequest) (*Subgraph, error)
}

// Generator produces graph content for the reference server.
type Generator interface {
	Generate(ctx context.Context, concept string) (*Roadmap, error)
	Expand(ctx context.Context, req ExpandRequest) (*Subgraph, error)
}

// Gallery defines the contract for persisting generated roadmaps.
type Gallery interface {
	// Schema
	CreateSchema(ctx context.Context) error
	DropSchema(ctx context.Context) error

	// Hit returns the cached roadmap for slug and counts one view.
	// Returns nil, nil if the slug is not cached.
	Hit(ctx context.Context, slug string) (*Roadmap, error)

	// Save stores a freshly generated roadmap with one view.
	Save(ctx context.Context, slug, title string, r *Roadmap) error

	// Trending lists entries by views, most viewed first.
	Trending(ctx context.Context, limit int) ([]TrendingItem, error)
}
