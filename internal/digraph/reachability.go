package digraph

// Reachability marks every vertex reachable from a set of sources.
type Reachability struct {
	marked []bool
	count  int
}

// NewReachability runs a multi-source depth-first search. Sources outside
// the graph are ignored.
func NewReachability(g *Digraph, sources ...int) *Reachability {
	r := &Reachability{marked: make([]bool, g.V())}
	for _, s := range sources {
		if g.validate(s) == nil && !r.marked[s] {
			r.dfs(g, s)
		}
	}
	return r
}

func (r *Reachability) dfs(g *Digraph, v int) {
	r.marked[v] = true
	r.count++
	for _, w := range g.adj[v] {
		if !r.marked[w] {
			r.dfs(g, w)
		}
	}
}

// Reachable reports whether v is reachable from any source.
func (r *Reachability) Reachable(v int) bool {
	if v < 0 || v >= len(r.marked) {
		return false
	}
	return r.marked[v]
}

// Count returns the number of reachable vertices, sources included.
func (r *Reachability) Count() int { return r.count }

// Unreachable lists the vertices not reached, in index order.
func (r *Reachability) Unreachable() []int {
	var out []int
	for v, ok := range r.marked {
		if !ok {
			out = append(out, v)
		}
	}
	return out
}
