// Package expand drives the search and node expansion flows: it fetches
// graph content from the backend, merges it into the GraphStore and lays
// out the whole resulting graph again.
package expand

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/meikuraledutech/ideagraph"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// State is the expansion state of one node.
type State int

const (
	Idle State = iota
	Expanding
	Merged
	Failed
)

func (s State) String() string {
	switch s {
	case Expanding:
		return "expanding"
	case Merged:
		return "merged"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// FailureReporter receives expansion failures. interaction.Layer implements it.
type FailureReporter interface {
	ReportExpandFailure(nodeID string, err error)
}

type key struct {
	session ideagraph.Session
	node    string
}

// Coordinator is the sole writer of expansion results into a GraphStore.
type Coordinator struct {
	store    *ideagraph.GraphStore
	backend  ideagraph.Backend
	layout   ideagraph.LayoutFunc
	reporter FailureReporter
	logger   *zap.Logger
	limit    int

	mu       sync.Mutex
	concept  string
	states   map[key]State
	inflight map[key]int
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// WithReporter forwards expansion failures to r.
func WithReporter(r FailureReporter) Option {
	return func(c *Coordinator) { c.reporter = r }
}

// WithConcurrency caps the expansions Serve runs at once. Zero means no cap.
func WithConcurrency(n int) Option {
	return func(c *Coordinator) { c.limit = n }
}

// New creates a Coordinator writing into store. layout runs over the full
// graph after every load and merge.
func New(store *ideagraph.GraphStore, backend ideagraph.Backend, layout ideagraph.LayoutFunc, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:    store,
		backend:  backend,
		layout:   layout,
		logger:   zap.NewNop(),
		states:   make(map[key]State),
		inflight: make(map[key]int),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open fetches the initial graph of concept and replaces the store with it.
func (c *Coordinator) Open(ctx context.Context, concept string) (ideagraph.Snapshot, error) {
	rm, err := c.backend.Roadmap(ctx, concept)
	if err != nil {
		return ideagraph.Snapshot{}, err
	}

	g := rm.ToGraph()
	snap := c.store.Load(g.Nodes, g.Edges)

	c.mu.Lock()
	c.concept = concept
	clear(c.states)
	clear(c.inflight)
	c.mu.Unlock()

	c.logger.Info("concept opened",
		zap.String("concept", concept),
		zap.Int("nodes", len(snap.Nodes)),
		zap.Int("edges", len(snap.Edges)),
	)
	return c.store.Arrange(snap.Session, c.layout)
}

// Concept returns the root concept sent with expand requests. Without an
// opened concept it falls back to the first node's label.
func (c *Coordinator) Concept() string {
	c.mu.Lock()
	concept := c.concept
	c.mu.Unlock()
	if concept != "" {
		return concept
	}
	if snap := c.store.Snapshot(); len(snap.Nodes) > 0 {
		return snap.Nodes[0].Label
	}
	return ""
}

// Snapshot returns the current graph of the store.
func (c *Coordinator) Snapshot() ideagraph.Snapshot {
	return c.store.Snapshot()
}

// State returns the expansion state of a node in the active session.
func (c *Coordinator) State(nodeID string) State {
	k := key{session: c.store.Session(), node: nodeID}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.states[k]
}

// Expand fetches the subgraph rooted at req's node and merges it. An empty
// subgraph is a no-op. Concurrent calls for the same node are not
// deduplicated. A response that arrives after the session changed is
// dropped with ideagraph.ErrStaleSession.
func (c *Coordinator) Expand(ctx context.Context, req ideagraph.ExpandRequested) error {
	session := c.store.Session()
	if session == "" {
		return ideagraph.ErrNoSession
	}
	k := key{session: session, node: req.NodeID}
	c.begin(k)

	sub, err := c.backend.Expand(ctx, ideagraph.ExpandRequest{
		Concept:     c.Concept(),
		ParentNode:  req.Label,
		ParentID:    req.NodeID,
		ContextType: string(req.Type),
	})
	if err != nil {
		c.finish(k, Failed)
		c.logger.Error("expansion failed", zap.String("node", req.NodeID), zap.Error(err))
		if c.reporter != nil {
			c.reporter.ReportExpandFailure(req.NodeID, err)
		}
		return fmt.Errorf("expand %s: %w", req.NodeID, err)
	}
	if sub.Empty() {
		c.finish(k, Idle)
		c.logger.Debug("empty subgraph", zap.String("node", req.NodeID))
		return nil
	}

	g := sub.ToGraph()
	snap, err := c.store.MergeArranged(session, g.Nodes, g.Edges, c.layout)
	if err != nil {
		return c.discard(k, err)
	}

	c.finish(k, Merged)
	c.logger.Info("node expanded",
		zap.String("node", req.NodeID),
		zap.Int("new_nodes", len(g.Nodes)),
		zap.Int("nodes", len(snap.Nodes)),
	)
	return nil
}

// Serve runs one Expand per request until requests is closed or ctx is
// done, then waits for the running expansions. Failures do not stop it.
// Requests are received as they arrive; with a concurrency cap, the
// excess waits for a slot without holding up the stream.
func (c *Coordinator) Serve(ctx context.Context, requests <-chan ideagraph.ExpandRequested) error {
	var g errgroup.Group
	var slots *semaphore.Weighted
	if c.limit > 0 {
		slots = semaphore.NewWeighted(int64(c.limit))
	}

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case req, ok := <-requests:
			if !ok {
				break loop
			}
			g.Go(func() error {
				if slots != nil {
					if err := slots.Acquire(ctx, 1); err != nil {
						return nil
					}
					defer slots.Release(1)
				}
				_ = c.Expand(ctx, req)
				return nil
			})
		}
	}
	return g.Wait()
}

func (c *Coordinator) discard(k key, err error) error {
	c.finish(k, Idle)
	if errors.Is(err, ideagraph.ErrStaleSession) || errors.Is(err, ideagraph.ErrNoSession) {
		c.logger.Info("stale expansion dropped", zap.String("node", k.node))
	}
	return err
}

func (c *Coordinator) begin(k key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight[k]++
	c.states[k] = Expanding
}

// finish records the outcome of one expansion. The node stays Expanding
// while other expansions of it are running.
func (c *Coordinator) finish(k key, outcome State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight[k] == 0 {
		return
	}
	c.inflight[k]--
	if c.inflight[k] > 0 {
		return
	}
	delete(c.inflight, k)
	c.states[k] = outcome
}
