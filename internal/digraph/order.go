package digraph

import "slices"

// DepthFirstOrder records pre-order and post-order vertex sequences of a
// full depth-first forest, visiting roots in index order.
type DepthFirstOrder struct {
	marked []bool
	pre    []int
	post   []int
}

// NewDepthFirstOrder traverses every vertex of g.
func NewDepthFirstOrder(g *Digraph) *DepthFirstOrder {
	o := &DepthFirstOrder{
		marked: make([]bool, g.V()),
		pre:    make([]int, 0, g.V()),
		post:   make([]int, 0, g.V()),
	}
	for v := 0; v < g.V(); v++ {
		if !o.marked[v] {
			o.dfs(g, v)
		}
	}
	return o
}

func (o *DepthFirstOrder) dfs(g *Digraph, v int) {
	o.marked[v] = true
	o.pre = append(o.pre, v)
	for _, w := range g.adj[v] {
		if !o.marked[w] {
			o.dfs(g, w)
		}
	}
	o.post = append(o.post, v)
}

// Pre returns the vertices in pre-order.
func (o *DepthFirstOrder) Pre() []int { return slices.Clone(o.pre) }

// Post returns the vertices in post-order.
func (o *DepthFirstOrder) Post() []int { return slices.Clone(o.post) }

// ReversePost returns the vertices in reverse post-order.
func (o *DepthFirstOrder) ReversePost() []int {
	r := slices.Clone(o.post)
	slices.Reverse(r)
	return r
}
