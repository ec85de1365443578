package registry

import (
	"errors"
	"maps"
	"slices"

	"github.com/zzalscv2/athena-atlas-sub040/internal/algorithm"
	"github.com/zzalscv2/athena-atlas-sub040/internal/descriptor"
)

// ErrUnknownClass is returned when no factory is registered for a class.
var ErrUnknownClass = errors.New("unknown implementation class")

// Module is the interface that all algorithm modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Factory builds one algorithm instance from its configured parameters.
type Factory[T any] func(p Params) (T, error)

// Registry holds all the registered factories and the instances built from
// them for a single application instance.
type Registry struct {
	counters  map[string]Factory[algorithm.Counter]
	sorters   map[string]Factory[algorithm.Sorter]
	deciders  map[string]Factory[algorithm.Decider]
	instances map[string]any
}

// New creates a Registry and registers the given modules.
func New(modules ...Module) *Registry {
	r := &Registry{
		counters:  make(map[string]Factory[algorithm.Counter]),
		sorters:   make(map[string]Factory[algorithm.Sorter]),
		deciders:  make(map[string]Factory[algorithm.Decider]),
		instances: make(map[string]any),
	}
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// Classes returns the sorted class names registered for kind. Only count,
// sort and decision kinds have registered classes.
func (r *Registry) Classes(kind descriptor.Kind) []string {
	switch kind {
	case descriptor.Count:
		return slices.Sorted(maps.Keys(r.counters))
	case descriptor.Sort:
		return slices.Sorted(maps.Keys(r.sorters))
	case descriptor.Decision:
		return slices.Sorted(maps.Keys(r.deciders))
	}
	return nil
}

// Has reports whether class is registered for kind.
func (r *Registry) Has(kind descriptor.Kind, class string) bool {
	return slices.Contains(r.Classes(kind), class)
}

// kindsOf returns every kind class is registered under.
func (r *Registry) kindsOf(class string) []descriptor.Kind {
	var out []descriptor.Kind
	if _, ok := r.counters[class]; ok {
		out = append(out, descriptor.Count)
	}
	if _, ok := r.sorters[class]; ok {
		out = append(out, descriptor.Sort)
	}
	if _, ok := r.deciders[class]; ok {
		out = append(out, descriptor.Decision)
	}
	return out
}
