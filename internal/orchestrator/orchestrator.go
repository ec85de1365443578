// Package orchestrator turns a descriptor set into a fixed execution
// sequence and drives it once per event, on one or more boards.
//
// The dependency graph has an edge from every descriptor to each of its
// children, so a topological post-order schedules dependencies first. The
// sequence is computed once at construction; running an event only walks it.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/zzalscv2/athena-atlas-sub040/internal/ctxlog"
	"github.com/zzalscv2/athena-atlas-sub040/internal/descriptor"
	"github.com/zzalscv2/athena-atlas-sub040/internal/digraph"
	"github.com/zzalscv2/athena-atlas-sub040/internal/unit"
)

// ErrNotDAG is returned by New when the descriptors' dependencies form a cycle.
var ErrNotDAG = errors.New("algorithm dependencies are not a DAG")

// Orchestrator owns the execution sequence of one configuration.
type Orchestrator struct {
	descs     []descriptor.Descriptor
	graph     *digraph.Digraph
	order     []int
	units     []unit.Unit
	boards    int
	parallel  bool
	observers []Observer
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithBoards sets the number of board replicas each event is run on.
// Values below one are ignored.
func WithBoards(n int) Option {
	return func(o *Orchestrator) {
		if n >= 1 {
			o.boards = n
		}
	}
}

// WithParallelBoards runs the boards of one event concurrently.
func WithParallelBoards() Option {
	return func(o *Orchestrator) { o.parallel = true }
}

// WithObserver registers an observer for unit and event completion.
func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
}

// New builds the dependency graph, orders it and constructs one unit per
// descriptor. descs must be indexed by serial. A cyclic graph yields
// ErrNotDAG and no sequence.
func New(ctx context.Context, descs []descriptor.Descriptor, f unit.Factory, opts ...Option) (*Orchestrator, error) {
	logger := ctxlog.FromContext(ctx)
	o := &Orchestrator{boards: 1}
	for _, opt := range opts {
		opt(o)
	}

	if len(descs) == 0 {
		return nil, errors.New("no descriptors to schedule")
	}
	o.descs = make([]descriptor.Descriptor, len(descs))
	for i, d := range descs {
		if d.Serial != i {
			return nil, fmt.Errorf("descriptor %s is at index %d, serials must be dense and ordered", d, i)
		}
		o.descs[i] = d.Clone()
	}

	g, err := buildGraph(o.descs)
	if err != nil {
		return nil, err
	}
	o.graph = g
	logger.Debug("Dependency graph built.", "vertices", g.V(), "edges", g.E())

	topo := digraph.NewTopological(g)
	if !topo.IsDAG() {
		return nil, fmt.Errorf("%w: cycle %s", ErrNotDAG, o.describePath(topo.Cycle()))
	}
	o.order = topo.Order()

	o.warnUnreachable(ctx)

	o.units = make([]unit.Unit, 0, len(o.order))
	for _, s := range o.order {
		u, err := unit.New(o.descs[s], o.descs, f)
		if err != nil {
			return nil, fmt.Errorf("failed to build execution unit: %w", err)
		}
		o.units = append(o.units, u)
	}

	logger.Info("Execution sequence built.", "algorithms", len(o.units), "boards", o.boards, "parallel", o.parallel)
	return o, nil
}

func buildGraph(descs []descriptor.Descriptor) (*digraph.Digraph, error) {
	g, err := digraph.New(len(descs))
	if err != nil {
		return nil, err
	}
	for _, d := range descs {
		for _, c := range d.ChildSerials {
			if err := g.AddEdge(d.Serial, c); err != nil {
				return nil, fmt.Errorf("%s: invalid child: %w", d, err)
			}
		}
	}
	return g, nil
}

// warnUnreachable logs every vertex with no path to a root. Such algorithms
// still run, but usually indicate a mistyped input name.
func (o *Orchestrator) warnUnreachable(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	var roots []int
	for _, d := range o.descs {
		if d.Kind == descriptor.Root {
			roots = append(roots, d.Serial)
		}
	}
	if len(roots) == 0 {
		logger.Warn("Descriptor set has no root algorithm.")
		return
	}
	reach := digraph.NewReachability(o.graph.Reverse(), roots...)
	for _, v := range reach.Unreachable() {
		logger.Warn("Algorithm cannot reach the root.", "algorithm", o.descs[v].String(), "category", o.descs[v].Category)
	}
}

func (o *Orchestrator) describePath(path []int) string {
	names := make([]string, len(path))
	for i, v := range path {
		names[i] = o.descs[v].Name
	}
	return strings.Join(names, " -> ")
}

// Sequence returns the descriptors in execution order.
func (o *Orchestrator) Sequence() []descriptor.Descriptor {
	out := make([]descriptor.Descriptor, len(o.order))
	for i, s := range o.order {
		out[i] = o.descs[s].Clone()
	}
	return out
}

// Order returns the serials in execution order.
func (o *Orchestrator) Order() []int { return slices.Clone(o.order) }

// Graph returns the dependency graph. Callers must not modify it.
func (o *Orchestrator) Graph() *digraph.Digraph { return o.graph }

// Descriptors returns the descriptors in serial order.
func (o *Orchestrator) Descriptors() []descriptor.Descriptor {
	out := make([]descriptor.Descriptor, len(o.descs))
	for i, d := range o.descs {
		out[i] = d.Clone()
	}
	return out
}

// Name returns the name of the descriptor with the given serial, or "" when
// out of range.
func (o *Orchestrator) Name(serial int) string {
	if serial < 0 || serial >= len(o.descs) {
		return ""
	}
	return o.descs[serial].Name
}

// Boards returns the number of board replicas per event.
func (o *Orchestrator) Boards() int { return o.boards }
