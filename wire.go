package ideagraph

import (
	"encoding/json"
	"time"
)

// WireID accepts both JSON strings and numbers; generated graphs use either.
type WireID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *WireID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = WireID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = WireID(n.String())
	return nil
}

// WireNode is a node as the backend sends it.
type WireNode struct {
	ID      WireID `json:"id" yaml:"id" validate:"required"`
	Label   string `json:"label" yaml:"label" validate:"required"`
	Type    string `json:"type" yaml:"type"`
	Tag     string `json:"tag,omitempty" yaml:"tag,omitempty"`
	Details string `json:"details,omitempty" yaml:"details,omitempty"`
}

// WireEdge is an edge as the backend sends it.
type WireEdge struct {
	Source WireID `json:"source" yaml:"source" validate:"required"`
	Target WireID `json:"target" yaml:"target" validate:"required"`
	Label  string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Roadmap is the {nodes, edges} payload of /roadmap and /expand.
// An expansion response is called a subgraph.
type Roadmap struct {
	Nodes []WireNode `json:"nodes" yaml:"nodes" validate:"dive"`
	Edges []WireEdge `json:"edges" yaml:"edges" validate:"dive"`
}

// Subgraph is the payload returned by an expansion.
type Subgraph = Roadmap

// Empty reports whether the payload carries no nodes.
func (r *Roadmap) Empty() bool {
	return r == nil || len(r.Nodes) == 0
}

// ToGraph converts the payload into client nodes and edges.
// Edges are animated and get derived ids; positions stay at the origin until laid out.
func (r *Roadmap) ToGraph() Graph {
	if r == nil {
		return Graph{}
	}
	g := Graph{
		Nodes: make([]Node, 0, len(r.Nodes)),
		Edges: make([]Edge, 0, len(r.Edges)),
	}
	for _, n := range r.Nodes {
		g.Nodes = append(g.Nodes, Node{
			ID:      string(n.ID),
			Label:   n.Label,
			Type:    ParseNodeType(n.Type),
			Tag:     n.Tag,
			Details: n.Details,
		})
	}
	for _, e := range r.Edges {
		src, dst := string(e.Source), string(e.Target)
		g.Edges = append(g.Edges, Edge{
			ID:       EdgeID(src, dst),
			Source:   src,
			Target:   dst,
			Label:    e.Label,
			Animated: true,
		})
	}
	return g
}

// TrendingItem is one gallery entry of /roadmap/trending.
type TrendingItem struct {
	Slug      string    `json:"slug"`
	Concept   string    `json:"concept"`
	Views     int       `json:"views"`
	CreatedAt time.Time `json:"created_at"`
}

// ExpandRequest is the body of POST /expand.
type ExpandRequest struct {
	Concept     string `json:"concept" validate:"required"`
	ParentNode  string `json:"parent_node" validate:"required"`
	ParentID    string `json:"parent_id" validate:"required"`
	ContextType string `json:"context_type"`
}

// RoadmapRequest is the body of POST /roadmap.
type RoadmapRequest struct {
	Concept string `json:"concept" validate:"required,min=2"`
}

// String renders an id for logs.
func (id WireID) String() string { return string(id) }
