package digraph

import (
	"fmt"
	"slices"
)

// Digraph is a directed graph with a fixed number of vertices 0..V-1.
// Parallel edges and self loops are kept exactly as added.
type Digraph struct {
	v   int
	e   int
	adj [][]int
}

// New creates a graph with v vertices and no edges.
func New(v int) (*Digraph, error) {
	if v < 0 {
		return nil, fmt.Errorf("number of vertices must be non-negative, got %d", v)
	}
	return &Digraph{v: v, adj: make([][]int, v)}, nil
}

// MustNew is like New but panics on a negative vertex count.
func MustNew(v int) *Digraph {
	g, err := New(v)
	if err != nil {
		panic(err)
	}
	return g
}

// V returns the number of vertices.
func (g *Digraph) V() int { return g.v }

// E returns the number of edges.
func (g *Digraph) E() int { return g.e }

// AddEdge adds the directed edge u->w.
func (g *Digraph) AddEdge(u, w int) error {
	if err := g.validate(u); err != nil {
		return fmt.Errorf("source %w", err)
	}
	if err := g.validate(w); err != nil {
		return fmt.Errorf("destination %w", err)
	}
	g.adj[u] = append(g.adj[u], w)
	g.e++
	return nil
}

// Adj returns the vertices adjacent from v, in insertion order.
func (g *Digraph) Adj(v int) []int {
	if g.validate(v) != nil {
		return nil
	}
	return slices.Clone(g.adj[v])
}

// OutDegree returns the number of edges leaving v.
func (g *Digraph) OutDegree(v int) int {
	if g.validate(v) != nil {
		return 0
	}
	return len(g.adj[v])
}

// Reverse returns a new graph with every edge flipped.
func (g *Digraph) Reverse() *Digraph {
	r := MustNew(g.v)
	for u := 0; u < g.v; u++ {
		for _, w := range g.adj[u] {
			r.adj[w] = append(r.adj[w], u)
			r.e++
		}
	}
	return r
}

// Edges returns all edges as [u, w] pairs ordered by source vertex.
func (g *Digraph) Edges() [][2]int {
	out := make([][2]int, 0, g.e)
	for u := 0; u < g.v; u++ {
		for _, w := range g.adj[u] {
			out = append(out, [2]int{u, w})
		}
	}
	return out
}

func (g *Digraph) validate(v int) error {
	if v < 0 || v >= g.v {
		return fmt.Errorf("vertex %d is not between 0 and %d", v, g.v-1)
	}
	return nil
}
