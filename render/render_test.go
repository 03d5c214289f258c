package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/meikuraledutech/ideagraph"
	"github.com/meikuraledutech/ideagraph/interaction"
	"github.com/stretchr/testify/assert"
)

func init() {
	color.NoColor = true
}

func TestGraph(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Graph(ideagraph.Graph{
		Nodes: []ideagraph.Node{
			{ID: "2", Label: "Blockchain", Type: ideagraph.NodeCore, Tag: "Mechanism", Position: ideagraph.Position{X: 322, Y: 0}},
			{ID: "1", Label: "Bitcoin", Type: ideagraph.NodeOrigin},
		},
		Edges: []ideagraph.Edge{{ID: "1-2", Source: "1", Target: "2", Label: "composed of"}},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"2 nodes, 1 edges",
		"  ● Bitcoin  (0, 0)  #1",
		"  ● Blockchain [Mechanism]  (322, 0)  #2",
		"  Bitcoin → Blockchain  composed of",
	}, lines)
}

func TestDetail(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Detail(interaction.Selection{
		Label:   "Lightning Network",
		Type:    ideagraph.NodePath,
		Tag:     "Difficulty: Hard",
		Details: "Payment channels.",
	})
	assert.Equal(t, "Lightning Network\nPATH · Difficulty: Hard\nPayment channels.\n", buf.String())
}

func TestTooltip(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Tooltip(interaction.Tooltip{Label: "enables", Anchor: interaction.Point{X: 10, Y: 20.5}})
	assert.Equal(t, "@(10, 20.5) enables\n", buf.String())
}

func TestTrending(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Trending(nil)
	assert.Contains(t, buf.String(), "no concepts yet")

	buf.Reset()
	New(&buf).Trending([]ideagraph.TrendingItem{{Slug: "bitcoin", Concept: "Bitcoin", Views: 3}})
	assert.Contains(t, buf.String(), "Bitcoin  3")
}

func TestError(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Error(SearchFailed)
	assert.Equal(t, "✗ Could not generate roadmap. Please try again.\n", buf.String())
}

func TestColorOf(t *testing.T) {
	assert.Same(t, Origin, ColorOf(ideagraph.NodeOrigin))
	assert.Same(t, Path, ColorOf(ideagraph.NodePath))
	assert.Same(t, Other, ColorOf("mystery"))
}

func TestLoading(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Loading("Bitcoin")
	assert.Equal(t, "generating roadmap for Bitcoin…\n", buf.String())
}
