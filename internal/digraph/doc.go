// Package digraph is the structural core of the scheduler. It provides an
// adjacency-list directed graph over dense integer vertices and the
// depth-first algorithms built on it: reachability, cycle detection,
// depth-first ordering and topological sort.
//
// Edges point from a dependent vertex to its dependency, so the post-order
// of a depth-first traversal lists every dependency before the vertices that
// need it. That post-order is what the orchestrator replays for every event.
package digraph
