package digraph

import "slices"

// Topological computes an execution order for a graph whose edges point from
// dependent to dependency.
type Topological struct {
	order []int
	cycle []int
}

// NewTopological checks g for cycles and, when it is acyclic, records the
// depth-first post-order. A cyclic graph yields an empty order.
func NewTopological(g *Digraph) *Topological {
	t := &Topological{}
	if c := NewCycle(g); c.HasCycle() {
		t.cycle = c.Cycle()
		return t
	}
	t.order = NewDepthFirstOrder(g).Post()
	return t
}

// IsDAG reports whether the graph is acyclic.
func (t *Topological) IsDAG() bool { return t.cycle == nil }

// Order returns dependencies before dependents, or nil when not a DAG.
func (t *Topological) Order() []int { return slices.Clone(t.order) }

// Cycle returns the offending cycle when the graph is not a DAG.
func (t *Topological) Cycle() []int { return slices.Clone(t.cycle) }

// Rank maps each vertex to its position in Order. It is nil when not a DAG.
func (t *Topological) Rank() []int {
	if !t.IsDAG() {
		return nil
	}
	rank := make([]int, len(t.order))
	for i, v := range t.order {
		rank[v] = i
	}
	return rank
}
