package layout

import "sort"

const (
	maxSweeps     = 24
	staleSweepCap = 4
)

// initOrder fills the layers by a depth-first walk that starts from the
// lowest ranks, which keeps connected nodes close before any sweep runs.
func (g *layered) initOrder() {
	if len(g.rank) == 0 {
		return
	}
	top := 0
	for _, r := range g.rank {
		top = max(top, r)
	}
	g.layers = make([][]int, top+1)

	starts := make([]int, len(g.rank))
	for v := range starts {
		starts[v] = v
	}
	sort.SliceStable(starts, func(a, b int) bool {
		return g.rank[starts[a]] < g.rank[starts[b]]
	})

	seen := make([]bool, len(g.rank))
	var walk func(v int)
	walk = func(v int) {
		if seen[v] {
			return
		}
		seen[v] = true
		g.layers[g.rank[v]] = append(g.layers[g.rank[v]], v)
		for _, w := range g.down[v] {
			walk(w)
		}
	}
	for _, v := range starts {
		walk(v)
	}

	g.pos = make([]int, len(g.rank))
	g.reindex()
}

// minimizeCrossings runs alternating barycenter sweeps and keeps the
// ordering with the fewest crossings seen.
func (g *layered) minimizeCrossings() {
	if len(g.layers) < 2 {
		return
	}
	best := g.snapshot()
	bestCross := g.crossings()

	for i, stale := 0, 0; i < maxSweeps && stale < staleSweepCap && bestCross > 0; i++ {
		if i%2 == 0 {
			for r := 1; r < len(g.layers); r++ {
				g.sortLayer(r, g.up)
			}
		} else {
			for r := len(g.layers) - 2; r >= 0; r-- {
				g.sortLayer(r, g.down)
			}
		}

		if c := g.crossings(); c < bestCross {
			bestCross = c
			best = g.snapshot()
			stale = 0
		} else {
			stale++
		}
	}

	g.layers = best
	g.reindex()
}

// sortLayer orders layer r by the mean position of each vertex's
// neighbors in the adjacent fixed layer. A vertex without neighbors keeps
// its index as barycenter; ties keep the current order.
func (g *layered) sortLayer(r int, neighbors [][]int) {
	type entry struct {
		v  int
		bc float64
	}

	layer := g.layers[r]
	entries := make([]entry, len(layer))
	for i, v := range layer {
		bc := float64(i)
		if ns := neighbors[v]; len(ns) > 0 {
			sum := 0
			for _, w := range ns {
				sum += g.pos[w]
			}
			bc = float64(sum) / float64(len(ns))
		}
		entries[i] = entry{v: v, bc: bc}
	}
	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].bc < entries[b].bc
	})
	for i, e := range entries {
		layer[i] = e.v
		g.pos[e.v] = i
	}
}

// crossings counts pairwise link crossings between all adjacent ranks.
func (g *layered) crossings() int {
	total := 0
	for r := 0; r+1 < len(g.layers); r++ {
		var links [][2]int
		for _, u := range g.layers[r] {
			for _, w := range g.down[u] {
				links = append(links, [2]int{g.pos[u], g.pos[w]})
			}
		}
		for i := range links {
			for j := i + 1; j < len(links); j++ {
				if (links[i][0]-links[j][0])*(links[i][1]-links[j][1]) < 0 {
					total++
				}
			}
		}
	}
	return total
}

func (g *layered) snapshot() [][]int {
	out := make([][]int, len(g.layers))
	for i, layer := range g.layers {
		out[i] = append([]int(nil), layer...)
	}
	return out
}

func (g *layered) reindex() {
	for _, layer := range g.layers {
		for i, v := range layer {
			g.pos[v] = i
		}
	}
}
