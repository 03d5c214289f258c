package ideagraph

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session identifies one concept session of a GraphStore.
// A new session starts with every Load.
type Session string

// LayoutFunc positions nodes and returns them with the edges it kept.
type LayoutFunc func(nodes []Node, edges []Edge) Graph

// Snapshot is a copy of the store state tagged with its session.
type Snapshot struct {
	Session Session
	Graph
}

// GraphStore is the sole owner of the node and edge collections of the
// active concept. Load, Merge and Arrange are its only mutation entry points;
// each one is applied to the current state under the store lock.
type GraphStore struct {
	mu      sync.Mutex
	session Session
	graph   Graph
	logger  *zap.Logger
}

// NewGraphStore creates an empty store. A nil logger discards diagnostics.
func NewGraphStore(logger *zap.Logger) *GraphStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GraphStore{logger: logger}
}

// Load replaces all state with a fresh graph and starts a new session.
// Ghost edges are dropped.
func (s *GraphStore) Load(nodes []Node, edges []Edge) Snapshot {
	g := Graph{Nodes: make([]Node, len(nodes))}
	copy(g.Nodes, nodes)
	g.Edges = s.validate(g.Nodes, edges)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = Session(uuid.NewString())
	s.graph = g
	s.logger.Debug("graph loaded",
		zap.String("session", string(s.session)),
		zap.Int("nodes", len(g.Nodes)),
		zap.Int("edges", len(g.Edges)),
	)
	return s.snapshotLocked()
}

// Merge appends nodes and edges to the graph of session.
// Incoming node ids are not checked for collisions. Existing nodes and
// edges are never dropped; incoming edges are validated against the
// merged node set.
func (s *GraphStore) Merge(session Session, nodes []Node, edges []Edge) (Snapshot, error) {
	return s.apply(session, func(g Graph) Graph {
		return s.merge(session, g, nodes, edges)
	})
}

// MergeArranged merges nodes and edges and lays out the result in one
// step, so no reader observes merged nodes before they are positioned.
func (s *GraphStore) MergeArranged(session Session, nodes []Node, edges []Edge, layout LayoutFunc) (Snapshot, error) {
	return s.apply(session, func(g Graph) Graph {
		g = s.merge(session, g, nodes, edges)
		return layout(g.Nodes, g.Edges)
	})
}

func (s *GraphStore) merge(session Session, g Graph, nodes []Node, edges []Edge) Graph {
	g.Nodes = append(g.Nodes, nodes...)
	g.Edges = append(g.Edges, s.validate(g.Nodes, edges)...)
	s.logger.Debug("graph merged",
		zap.String("session", string(session)),
		zap.Int("new_nodes", len(nodes)),
		zap.Int("nodes", len(g.Nodes)),
	)
	return g
}

// Arrange runs layout over the whole current graph of session and keeps
// its result.
func (s *GraphStore) Arrange(session Session, layout LayoutFunc) (Snapshot, error) {
	return s.apply(session, func(g Graph) Graph {
		return layout(g.Nodes, g.Edges)
	})
}

// Session returns the active session, or "" when the store is empty.
func (s *GraphStore) Session() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Snapshot returns a copy of the current state.
func (s *GraphStore) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Discard ends the active session.
func (s *GraphStore) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = ""
	s.graph = Graph{}
}

func (s *GraphStore) apply(session Session, fn func(Graph) Graph) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == "" {
		return Snapshot{}, ErrNoSession
	}
	if session != s.session {
		return Snapshot{}, ErrStaleSession
	}
	s.graph = fn(s.graph)
	return s.snapshotLocked(), nil
}

func (s *GraphStore) snapshotLocked() Snapshot {
	return Snapshot{Session: s.session, Graph: s.graph.Clone()}
}

func (s *GraphStore) validate(nodes []Node, edges []Edge) []Edge {
	valid, ghosts := ValidateEdges(nodes, edges)
	for _, e := range ghosts {
		s.logger.Warn("ghost edge removed",
			zap.String("source", e.Source),
			zap.String("target", e.Target),
		)
	}
	return valid
}

// ValidateEdges returns the edges whose source and target both exist in
// nodes, in input order, and separately the ghost edges it rejected.
func ValidateEdges(nodes []Node, edges []Edge) (valid, ghosts []Edge) {
	ids := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		ids[n.ID] = struct{}{}
	}

	valid = make([]Edge, 0, len(edges))
	for _, e := range edges {
		_, okSrc := ids[e.Source]
		_, okDst := ids[e.Target]
		if okSrc && okDst {
			valid = append(valid, e)
			continue
		}
		ghosts = append(ghosts, e)
	}
	return valid, ghosts
}
