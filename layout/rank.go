package layout

import "github.com/meikuraledutech/ideagraph"

// segment is a directed edge between two vertices.
type segment struct {
	from, to int
}

// layered is the working graph of one Compute call. Vertices [0, real)
// are graph nodes in insertion order; the rest are virtual vertices that
// split edges spanning more than one rank.
type layered struct {
	index map[string]int
	real  int
	edges []segment

	rank   []int
	down   [][]int
	up     [][]int
	layers [][]int
	pos    []int
}

// newLayered indexes nodes by id. Nodes without an id are left out, and a
// repeated id resolves to its first occurrence. Self loops are dropped;
// parallel edges are kept.
func newLayered(nodes []ideagraph.Node, edges []ideagraph.Edge) *layered {
	g := &layered{index: make(map[string]int, len(nodes))}
	for _, n := range nodes {
		if n.ID == "" {
			continue
		}
		if _, dup := g.index[n.ID]; dup {
			continue
		}
		g.index[n.ID] = g.real
		g.real++
	}
	for _, e := range edges {
		u, okSrc := g.index[e.Source]
		v, okDst := g.index[e.Target]
		if !okSrc || !okDst || u == v {
			continue
		}
		g.edges = append(g.edges, segment{from: u, to: v})
	}
	g.rank = make([]int, g.real)
	return g
}

// removeCycles reverses the back edges found by a depth-first search in
// insertion order, leaving an acyclic graph.
func (g *layered) removeCycles() {
	out := make([][]int, g.real)
	for i, e := range g.edges {
		out[e.from] = append(out[e.from], i)
	}

	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)

	state := make([]int, g.real)
	var dfs func(v int)
	dfs = func(v int) {
		state[v] = visiting
		for _, ei := range out[v] {
			w := g.edges[ei].to
			switch state[w] {
			case visiting:
				g.edges[ei] = segment{from: w, to: v}
			case unvisited:
				dfs(w)
			}
		}
		state[v] = visited
	}

	for v := 0; v < g.real; v++ {
		if state[v] == unvisited {
			dfs(v)
		}
	}
}

// assignRanks sets every vertex's rank to its longest path distance from
// a source, visiting vertices in topological order.
func (g *layered) assignRanks() {
	indeg := make([]int, g.real)
	succ := make([][]int, g.real)
	for _, e := range g.edges {
		succ[e.from] = append(succ[e.from], e.to)
		indeg[e.to]++
	}

	queue := make([]int, 0, g.real)
	for v := 0; v < g.real; v++ {
		if indeg[v] == 0 {
			queue = append(queue, v)
		}
	}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, w := range succ[v] {
			g.rank[w] = max(g.rank[w], g.rank[v]+1)
			indeg[w]--
			if indeg[w] == 0 {
				queue = append(queue, w)
			}
		}
	}
}

// splitLongEdges replaces every edge spanning k > 1 ranks with a chain of
// k-1 virtual vertices, so that all links join adjacent ranks.
func (g *layered) splitLongEdges() {
	g.down = make([][]int, g.real)
	g.up = make([][]int, g.real)
	for _, e := range g.edges {
		prev := e.from
		for r := g.rank[e.from] + 1; r < g.rank[e.to]; r++ {
			v := len(g.rank)
			g.rank = append(g.rank, r)
			g.down = append(g.down, nil)
			g.up = append(g.up, nil)
			g.link(prev, v)
			prev = v
		}
		g.link(prev, e.to)
	}
}

func (g *layered) link(u, v int) {
	g.down[u] = append(g.down[u], v)
	g.up[v] = append(g.up[v], u)
}
