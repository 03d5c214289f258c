// Package interaction holds the ephemeral view state of a concept graph:
// the selected node, the edge tooltip and the hovered node. It never
// touches graph data; expand actions leave it as ExpandRequested events.
package interaction

import (
	"sync"

	"github.com/meikuraledutech/ideagraph"
)

// Selection is the detail view of the clicked node.
type Selection struct {
	Label   string
	Details string
	Type    ideagraph.NodeType
	Tag     string
}

// Point is a pointer position on the screen.
type Point struct {
	X, Y float64
}

// Tooltip is an edge label anchored where the pointer entered the edge.
type Tooltip struct {
	Label  string
	Anchor Point
}

// Failure is the last expand error reported to the layer.
type Failure struct {
	NodeID string
	Err    error
}

// Layer is the interaction state machine. It is safe for concurrent use;
// event handlers are expected to come from one UI loop, failure reports
// may arrive from expansion goroutines.
type Layer struct {
	mu       sync.Mutex
	selected *Selection
	tooltip  *Tooltip
	hovered  string
	failure  *Failure

	qmu      sync.Mutex
	queue    []ideagraph.ExpandRequested
	closed   bool
	wake     chan struct{}
	requests chan ideagraph.ExpandRequested
}

// New creates a Layer whose request channel buffers up to buffer events.
// Clicks beyond that are queued in the layer, so ClickExpand never waits
// for the consumer. The forwarding goroutine exits after Close once the
// queue is delivered.
func New(buffer int) *Layer {
	l := &Layer{
		wake:     make(chan struct{}, 1),
		requests: make(chan ideagraph.ExpandRequested, max(buffer, 0)),
	}
	go l.forward()
	return l
}

// Requests is the stream of expand actions.
func (l *Layer) Requests() <-chan ideagraph.ExpandRequested {
	return l.requests
}

// ClickNode selects node, replacing any previous selection.
func (l *Layer) ClickNode(node ideagraph.Node) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selected = &Selection{
		Label:   node.Label,
		Details: node.Details,
		Type:    node.Type,
		Tag:     node.Tag,
	}
}

// ClickExpand emits an expand request for node. The click stays with the
// expand action: selection is left unchanged. It reports false when the
// layer is closed.
func (l *Layer) ClickExpand(node ideagraph.Node) bool {
	l.qmu.Lock()
	if l.closed {
		l.qmu.Unlock()
		return false
	}
	l.queue = append(l.queue, ideagraph.ExpandRequested{NodeID: node.ID, Label: node.Label, Type: node.Type})
	l.qmu.Unlock()
	l.notify()
	return true
}

func (l *Layer) notify() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// forward moves queued clicks onto the request channel in click order.
func (l *Layer) forward() {
	defer close(l.requests)
	for {
		l.qmu.Lock()
		pending, closed := l.queue, l.closed
		l.queue = nil
		l.qmu.Unlock()

		for _, req := range pending {
			l.requests <- req
		}
		if len(pending) > 0 {
			continue
		}
		if closed {
			return
		}
		<-l.wake
	}
}

// CloseDetail clears the selection.
func (l *Layer) CloseDetail() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selected = nil
}

// Selected returns the current selection.
func (l *Layer) Selected() (Selection, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.selected == nil {
		return Selection{}, false
	}
	return *l.selected, true
}

// EnterEdge opens the tooltip of a labelled edge at the pointer. Edges
// without a label show nothing.
func (l *Layer) EnterEdge(edge ideagraph.Edge, at Point) {
	if edge.Label == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tooltip = &Tooltip{Label: edge.Label, Anchor: at}
}

// MoveEdge is a pointer move inside the hovered edge. The tooltip stays
// at the position captured on enter.
func (l *Layer) MoveEdge(Point) {}

// LeaveEdge closes the tooltip.
func (l *Layer) LeaveEdge() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tooltip = nil
}

// Tooltip returns the open tooltip.
func (l *Layer) Tooltip() (Tooltip, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.tooltip == nil {
		return Tooltip{}, false
	}
	return *l.tooltip, true
}

// EnterNode marks id as hovered, which shows its expand affordance.
func (l *Layer) EnterNode(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hovered = id
}

// LeaveNode clears the hover if id is the hovered node.
func (l *Layer) LeaveNode(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.hovered == id {
		l.hovered = ""
	}
}

// ExpandVisible reports whether the expand affordance of id is shown.
func (l *Layer) ExpandVisible(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return id != "" && l.hovered == id
}

// ReportExpandFailure records a failed expansion. It is kept as a
// diagnostic and not shown as a user message.
func (l *Layer) ReportExpandFailure(nodeID string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failure = &Failure{NodeID: nodeID, Err: err}
}

// LastFailure returns the last reported expand failure.
func (l *Layer) LastFailure() (Failure, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failure == nil {
		return Failure{}, false
	}
	return *l.failure, true
}

// Reset clears selection, tooltip, hover and failure, as when the user
// leaves the graph view.
func (l *Layer) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selected = nil
	l.tooltip = nil
	l.hovered = ""
	l.failure = nil
}

// Close ends the request stream once pending clicks are delivered.
// Later expand clicks are ignored. It does not wait for the consumer.
func (l *Layer) Close() {
	l.qmu.Lock()
	l.closed = true
	l.qmu.Unlock()
	l.notify()
}
