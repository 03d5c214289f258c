package ideagraph

import "fmt"

// NodeType drives node color and semantics.
type NodeType string

const (
	NodeOrigin NodeType = "origin"
	NodeRoot   NodeType = "root"
	NodeCore   NodeType = "core"
	NodePath   NodeType = "path"
	NodeOther  NodeType = "other"
)

// ParseNodeType maps a backend type string onto the known set.
// The backend's "input" marker is the concept itself, so it is an origin.
func ParseNodeType(s string) NodeType {
	switch NodeType(s) {
	case NodeOrigin, NodeRoot, NodeCore, NodePath, NodeOther:
		return NodeType(s)
	case "input":
		return NodeOrigin
	default:
		return NodeOther
	}
}

// Side names the side of a node box a handle sits on.
type Side string

const (
	SideLeft   Side = "left"
	SideRight  Side = "right"
	SideTop    Side = "top"
	SideBottom Side = "bottom"
)

// Position is a top-left anchored coordinate on the rendering surface.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a vertex of the concept graph as the client holds it.
// Position, TargetPosition and SourcePosition are computed by the layout.
type Node struct {
	ID             string   `json:"id"`
	Label          string   `json:"label"`
	Type           NodeType `json:"type"`
	Tag            string   `json:"tag,omitempty"`
	Details        string   `json:"details,omitempty"`
	Position       Position `json:"position"`
	TargetPosition Side     `json:"targetPosition,omitempty"`
	SourcePosition Side     `json:"sourcePosition,omitempty"`
}

// Edge is a directed connection between two nodes.
// ID is derived from the ordered (Source, Target) pair, so parallel edges share it.
type Edge struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	Label    string `json:"label,omitempty"`
	Animated bool   `json:"animated"`
}

// EdgeID derives the identifier of the edge source → target.
func EdgeID(source, target string) string {
	return fmt.Sprintf("%s-%s", source, target)
}

// Graph is the node and edge sequence of one concept session.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Clone returns a copy that shares no slices with g.
func (g Graph) Clone() Graph {
	out := Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Edges: make([]Edge, len(g.Edges)),
	}
	copy(out.Nodes, g.Nodes)
	copy(out.Edges, g.Edges)
	return out
}

// NodeByID returns the first node with the given id.
func (g Graph) NodeByID(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// ExpandRequested is emitted by the interaction layer when a node's expand
// affordance is activated.
type ExpandRequested struct {
	NodeID string
	Label  string
	Type   NodeType
}
