// Package render draws a laid-out concept graph and its interaction state
// as colored terminal text.
package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/meikuraledutech/ideagraph"
	"github.com/meikuraledutech/ideagraph/interaction"
)

// Node type colors
var (
	Origin = color.New(color.FgHiGreen, color.Bold)
	Root   = color.New(color.FgMagenta)
	Core   = color.New(color.FgCyan)
	Path   = color.New(color.FgYellow)
	Other  = color.New(color.FgWhite)

	Subtle = color.New(color.FgHiBlack)
	Bad    = color.New(color.FgRed)
)

// SearchFailed is shown inline when a concept search fails.
const SearchFailed = "Could not generate roadmap. Please try again."

// ColorOf returns the color used for nodes of type t.
func ColorOf(t ideagraph.NodeType) *color.Color {
	switch t {
	case ideagraph.NodeOrigin:
		return Origin
	case ideagraph.NodeRoot:
		return Root
	case ideagraph.NodeCore:
		return Core
	case ideagraph.NodePath:
		return Path
	}
	return Other
}

// Renderer writes to a terminal or any other writer.
type Renderer struct {
	w io.Writer
}

// New returns a Renderer writing to w.
func New(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Graph lists nodes in drawing order (left to right, then top to bottom)
// followed by the edges between them.
func (r *Renderer) Graph(g ideagraph.Graph) {
	nodes := make([]ideagraph.Node, len(g.Nodes))
	copy(nodes, g.Nodes)
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i].Position, nodes[j].Position
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Y < b.Y
	})

	labels := make(map[string]string, len(nodes))
	for _, n := range nodes {
		labels[n.ID] = n.Label
	}

	Subtle.Fprintf(r.w, "%d nodes, %d edges\n", len(g.Nodes), len(g.Edges))
	for _, n := range nodes {
		line := "  " + ColorOf(n.Type).Sprint("● "+n.Label)
		if n.Tag != "" {
			line += " " + Subtle.Sprintf("[%s]", n.Tag)
		}
		line += Subtle.Sprintf("  (%g, %g)  #%s", n.Position.X, n.Position.Y, n.ID)
		fmt.Fprintln(r.w, line)
	}
	for _, e := range g.Edges {
		line := fmt.Sprintf("  %s → %s", labels[e.Source], labels[e.Target])
		if e.Label != "" {
			line += Subtle.Sprintf("  %s", e.Label)
		}
		fmt.Fprintln(r.w, line)
	}
}

// Detail draws the detail panel of a selected node.
func (r *Renderer) Detail(s interaction.Selection) {
	c := ColorOf(s.Type)
	fmt.Fprintln(r.w, c.Sprint(s.Label))
	meta := strings.ToUpper(string(s.Type))
	if s.Tag != "" {
		meta += " · " + s.Tag
	}
	Subtle.Fprintln(r.w, meta)
	if s.Details != "" {
		fmt.Fprintln(r.w, s.Details)
	}
}

// Tooltip draws an edge label next to its anchor.
func (r *Renderer) Tooltip(t interaction.Tooltip) {
	fmt.Fprintf(r.w, "%s %s\n", Subtle.Sprintf("@(%g, %g)", t.Anchor.X, t.Anchor.Y), t.Label)
}

// Trending prints the concept gallery as an aligned table.
func (r *Renderer) Trending(items []ideagraph.TrendingItem) {
	if len(items) == 0 {
		Subtle.Fprintln(r.w, "  no concepts yet")
		return
	}
	width := len("CONCEPT")
	for _, it := range items {
		width = max(width, len(it.Concept))
	}
	Subtle.Fprintf(r.w, "  %-*s  %s\n", width, "CONCEPT", "VIEWS")
	Subtle.Fprintf(r.w, "  %s  %s\n", strings.Repeat("─", width), strings.Repeat("─", len("VIEWS")))
	for _, it := range items {
		fmt.Fprintf(r.w, "  %-*s  %d\n", width, it.Concept, it.Views)
	}
}

// Loading marks the initial fetch of concept as in progress.
func (r *Renderer) Loading(concept string) {
	Subtle.Fprintf(r.w, "generating roadmap for %s…\n", concept)
}

// Error prints msg as an inline failure.
func (r *Renderer) Error(msg string) {
	Bad.Fprintln(r.w, "✗ "+msg)
}
