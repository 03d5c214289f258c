package ideagraph

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func n(id string) Node { return Node{ID: id, Label: id, Type: NodeCore} }

func e(src, dst string) Edge {
	return Edge{ID: EdgeID(src, dst), Source: src, Target: dst, Animated: true}
}

func TestValidateEdges(t *testing.T) {
	nodes := []Node{n("A"), n("B")}
	edges := []Edge{e("A", "B"), e("A", "ghost"), e("ghost", "B"), e("B", "A")}

	valid, ghosts := ValidateEdges(nodes, edges)

	assert.Equal(t, []Edge{e("A", "B"), e("B", "A")}, valid)
	assert.Equal(t, []Edge{e("A", "ghost"), e("ghost", "B")}, ghosts)
}

func TestValidateEdgesEmpty(t *testing.T) {
	valid, ghosts := ValidateEdges(nil, nil)
	assert.Empty(t, valid)
	assert.Empty(t, ghosts)
}

func TestLoadReplacesStateAndDropsGhosts(t *testing.T) {
	s := NewGraphStore(nil)
	first := s.Load([]Node{n("X")}, nil)

	snap := s.Load([]Node{n("A"), n("B")}, []Edge{e("A", "ghost")})

	assert.NotEqual(t, first.Session, snap.Session)
	assert.Equal(t, snap.Session, s.Session())
	assert.Len(t, snap.Nodes, 2)
	assert.Empty(t, snap.Edges)
}

func TestMergeIsMonotonic(t *testing.T) {
	s := NewGraphStore(nil)
	before := s.Load([]Node{n("A"), n("B")}, []Edge{e("A", "B")})

	after, err := s.Merge(before.Session, []Node{n("C")}, []Edge{e("A", "C"), e("C", "gone")})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, len(after.Nodes), len(before.Nodes))
	assert.Equal(t, before.Nodes, after.Nodes[:len(before.Nodes)])
	assert.Equal(t, before.Edges, after.Edges[:len(before.Edges)])
	assert.Equal(t, []Edge{e("A", "B"), e("A", "C")}, after.Edges)
}

func TestMergeEdgeToExistingNode(t *testing.T) {
	s := NewGraphStore(nil)
	snap := s.Load([]Node{n("A"), n("B")}, nil)

	after, err := s.Merge(snap.Session, nil, []Edge{e("B", "A")})
	require.NoError(t, err)

	assert.Equal(t, []Edge{e("B", "A")}, after.Edges)
}

func TestMergeDoesNotCheckCollisions(t *testing.T) {
	s := NewGraphStore(nil)
	snap := s.Load([]Node{n("A")}, nil)

	after, err := s.Merge(snap.Session, []Node{n("A")}, nil)
	require.NoError(t, err)

	assert.Len(t, after.Nodes, 2)
}

func TestMergeRejectsStaleSession(t *testing.T) {
	s := NewGraphStore(nil)
	old := s.Load([]Node{n("A")}, nil)
	s.Load([]Node{n("Z")}, nil)

	_, err := s.Merge(old.Session, []Node{n("B")}, nil)
	assert.ErrorIs(t, err, ErrStaleSession)

	_, err = s.Arrange(old.Session, func(nodes []Node, edges []Edge) Graph { return Graph{} })
	assert.ErrorIs(t, err, ErrStaleSession)

	assert.Len(t, s.Snapshot().Nodes, 1)
}

func TestMergeWithoutSession(t *testing.T) {
	s := NewGraphStore(nil)
	_, err := s.Merge("", []Node{n("A")}, nil)
	assert.ErrorIs(t, err, ErrNoSession)

	snap := s.Load([]Node{n("A")}, nil)
	s.Discard()
	_, err = s.Merge(snap.Session, []Node{n("B")}, nil)
	assert.ErrorIs(t, err, ErrNoSession)
	assert.Empty(t, s.Snapshot().Nodes)
}

func TestArrangeSeesCurrentState(t *testing.T) {
	s := NewGraphStore(nil)
	snap := s.Load([]Node{n("A")}, nil)
	_, err := s.Merge(snap.Session, []Node{n("B")}, []Edge{e("A", "B")})
	require.NoError(t, err)

	var seen int
	arranged, err := s.Arrange(snap.Session, func(nodes []Node, edges []Edge) Graph {
		seen = len(nodes)
		out := make([]Node, len(nodes))
		for i, node := range nodes {
			node.Position = Position{X: float64(i), Y: 1}
			out[i] = node
		}
		return Graph{Nodes: out, Edges: edges}
	})
	require.NoError(t, err)

	assert.Equal(t, 2, seen)
	assert.Equal(t, Position{X: 1, Y: 1}, arranged.Nodes[1].Position)
	assert.Equal(t, arranged.Graph, s.Snapshot().Graph)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewGraphStore(nil)
	snap := s.Load([]Node{n("A")}, nil)

	snap.Nodes[0].Label = "changed"

	assert.Equal(t, "A", s.Snapshot().Nodes[0].Label)
}

func TestConcurrentMergesAllLand(t *testing.T) {
	s := NewGraphStore(nil)
	snap := s.Load([]Node{n("root")}, nil)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := EdgeID("child", string(rune('a'+i%26))) + string(rune('0'+i/26))
			_, err := s.Merge(snap.Session, []Node{n(id)}, []Edge{e("root", id)})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	final := s.Snapshot()
	assert.Len(t, final.Nodes, 51)
	assert.Len(t, final.Edges, 50)
}

func TestMergeArrangedLaysOutInOneStep(t *testing.T) {
	s := NewGraphStore(nil)
	snap := s.Load([]Node{n("A")}, nil)

	var seen int
	arranged, err := s.MergeArranged(snap.Session, []Node{n("B")}, []Edge{e("A", "B"), e("B", "ghost")},
		func(nodes []Node, edges []Edge) Graph {
			seen = len(nodes)
			out := make([]Node, len(nodes))
			for i, node := range nodes {
				node.Position = Position{X: float64(i) * 10, Y: 5}
				node.SourcePosition = SideRight
				out[i] = node
			}
			return Graph{Nodes: out, Edges: edges}
		})
	require.NoError(t, err)

	assert.Equal(t, 2, seen)
	assert.Len(t, arranged.Edges, 1)
	assert.Equal(t, Position{X: 10, Y: 5}, arranged.Nodes[1].Position)
	assert.Equal(t, arranged.Graph, s.Snapshot().Graph)

	s.Load([]Node{n("X")}, nil)
	_, err = s.MergeArranged(snap.Session, []Node{n("C")}, nil, func(nodes []Node, edges []Edge) Graph {
		return Graph{Nodes: nodes, Edges: edges}
	})
	assert.ErrorIs(t, err, ErrStaleSession)
}
