package digraph

// Cycle finds a directed cycle, if one exists, with a single depth-first pass.
type Cycle struct {
	marked  []bool
	onStack []bool
	edgeTo  []int
	cycle   []int
}

// NewCycle searches g for a directed cycle. The search stops at the first
// cycle found.
func NewCycle(g *Digraph) *Cycle {
	c := &Cycle{
		marked:  make([]bool, g.V()),
		onStack: make([]bool, g.V()),
		edgeTo:  make([]int, g.V()),
	}
	for v := 0; v < g.V() && c.cycle == nil; v++ {
		if !c.marked[v] {
			c.dfs(g, v)
		}
	}
	return c
}

func (c *Cycle) dfs(g *Digraph, v int) {
	c.onStack[v] = true
	c.marked[v] = true
	for _, w := range g.adj[v] {
		if c.cycle != nil {
			return
		}
		if !c.marked[w] {
			c.edgeTo[w] = v
			c.dfs(g, w)
		} else if c.onStack[w] {
			// Walk back from the current frame to the ancestor w.
			var back []int
			for x := v; x != w; x = c.edgeTo[x] {
				back = append(back, x)
			}
			cycle := make([]int, 0, len(back)+2)
			cycle = append(cycle, w)
			for i := len(back) - 1; i >= 0; i-- {
				cycle = append(cycle, back[i])
			}
			c.cycle = append(cycle, w)
		}
	}
	c.onStack[v] = false
}

// HasCycle reports whether a cycle was found.
func (c *Cycle) HasCycle() bool { return c.cycle != nil }

// Cycle returns the vertices of the cycle in edge order, starting and ending
// with the same vertex, or nil.
func (c *Cycle) Cycle() []int {
	if c.cycle == nil {
		return nil
	}
	out := make([]int, len(c.cycle))
	copy(out, c.cycle)
	return out
}
