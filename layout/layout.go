// Package layout positions a concept graph with a layered (Sugiyama style)
// drawing: nodes are ranked by their longest path from a source, ordered
// within each rank to reduce crossings and placed on a fixed-size grid.
package layout

import (
	"fmt"
	"strings"

	"github.com/meikuraledutech/ideagraph"
	"go.uber.org/zap"
)

// Direction is the flow of ranks across the surface.
type Direction string

const (
	LeftToRight Direction = "LR"
	RightToLeft Direction = "RL"
	TopToBottom Direction = "TB"
	BottomToTop Direction = "BT"
)

// ParseDirection accepts LR, RL, TB and BT in any case.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToUpper(strings.TrimSpace(s))); d {
	case LeftToRight, RightToLeft, TopToBottom, BottomToTop:
		return d, nil
	}
	return "", fmt.Errorf("layout: unknown direction %q", s)
}

func (d Direction) horizontal() bool {
	return d == LeftToRight || d == RightToLeft
}

func (d Direction) reversed() bool {
	return d == RightToLeft || d == BottomToTop
}

// handles returns the incoming and outgoing sides of a node box.
func (d Direction) handles() (target, source ideagraph.Side) {
	switch d {
	case RightToLeft:
		return ideagraph.SideRight, ideagraph.SideLeft
	case TopToBottom:
		return ideagraph.SideTop, ideagraph.SideBottom
	case BottomToTop:
		return ideagraph.SideBottom, ideagraph.SideTop
	default:
		return ideagraph.SideLeft, ideagraph.SideRight
	}
}

// Options controls spacing. Every node uses the same NodeWidth × NodeHeight box.
type Options struct {
	Direction      Direction `toml:"direction"`
	RankSeparation float64   `toml:"rank_separation"`
	NodeSeparation float64   `toml:"node_separation"`
	NodeWidth      float64   `toml:"node_width"`
	NodeHeight     float64   `toml:"node_height"`
}

// DefaultOptions is a left-to-right layout with wide rank gaps.
func DefaultOptions() Options {
	return Options{
		Direction:      LeftToRight,
		RankSeparation: 150,
		NodeSeparation: 100,
		NodeWidth:      172,
		NodeHeight:     90,
	}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.Direction == "" {
		o.Direction = def.Direction
	}
	if o.NodeWidth <= 0 {
		o.NodeWidth = def.NodeWidth
	}
	if o.NodeHeight <= 0 {
		o.NodeHeight = def.NodeHeight
	}
	o.RankSeparation = max(o.RankSeparation, 0)
	o.NodeSeparation = max(o.NodeSeparation, 0)
	return o
}

// Result is a positioned graph.
type Result struct {
	Nodes []ideagraph.Node
	Edges []ideagraph.Edge

	// Ranks holds the layer of every placed node id.
	Ranks map[string]int

	// Fallbacks lists nodes that got no computed position and were put at the origin.
	Fallbacks []string
}

// Compute lays out nodes and edges. Ghost edges are dropped from the
// result; parallel edges are kept. The input slices are not modified and
// the same input sequence always yields the same positions.
func Compute(nodes []ideagraph.Node, edges []ideagraph.Edge, opts Options) Result {
	opts = opts.normalized()
	valid, _ := ideagraph.ValidateEdges(nodes, edges)

	g := newLayered(nodes, valid)
	g.removeCycles()
	g.assignRanks()
	g.splitLongEdges()
	g.initOrder()
	g.minimizeCrossings()
	centers := g.coordinates(opts)

	res := Result{
		Nodes: make([]ideagraph.Node, len(nodes)),
		Edges: valid,
		Ranks: make(map[string]int, g.real),
	}
	target, source := opts.Direction.handles()
	for i, n := range nodes {
		v, ok := g.index[n.ID]
		if !ok {
			n.Position = ideagraph.Position{}
			res.Fallbacks = append(res.Fallbacks, n.ID)
			res.Nodes[i] = n
			continue
		}
		c := centers[v]
		n.Position = ideagraph.Position{
			X: c.X - opts.NodeWidth/2,
			Y: c.Y - opts.NodeHeight/2,
		}
		n.TargetPosition = target
		n.SourcePosition = source
		res.Nodes[i] = n
		res.Ranks[n.ID] = g.rank[v]
	}
	return res
}

// Func adapts Compute to the store's layout hook. Fallbacks are logged at
// debug level on logger, which may be nil.
func Func(opts Options, logger *zap.Logger) ideagraph.LayoutFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(nodes []ideagraph.Node, edges []ideagraph.Edge) ideagraph.Graph {
		res := Compute(nodes, edges, opts)
		for _, id := range res.Fallbacks {
			logger.Debug("node defaulted to origin", zap.String("node", id))
		}
		return ideagraph.Graph{Nodes: res.Nodes, Edges: res.Edges}
	}
}

// coordinates returns the center of every vertex, virtual ones included.
func (g *layered) coordinates(opts Options) []ideagraph.Position {
	rankExtent, orderExtent := opts.NodeWidth, opts.NodeHeight
	if !opts.Direction.horizontal() {
		rankExtent, orderExtent = opts.NodeHeight, opts.NodeWidth
	}
	rankStep := rankExtent + opts.RankSeparation
	orderStep := orderExtent + opts.NodeSeparation

	widest := 0
	for _, layer := range g.layers {
		widest = max(widest, len(layer))
	}

	centers := make([]ideagraph.Position, len(g.rank))
	for r, layer := range g.layers {
		slot := r
		if opts.Direction.reversed() {
			slot = len(g.layers) - 1 - r
		}
		primary := float64(slot)*rankStep + rankExtent/2
		offset := float64(widest-len(layer)) * orderStep / 2
		for i, v := range layer {
			secondary := offset + float64(i)*orderStep + orderExtent/2
			if opts.Direction.horizontal() {
				centers[v] = ideagraph.Position{X: primary, Y: secondary}
			} else {
				centers[v] = ideagraph.Position{X: secondary, Y: primary}
			}
		}
	}
	return centers
}
