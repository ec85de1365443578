package registry

import (
	"fmt"

	"github.com/zzalscv2/athena-atlas-sub040/internal/algorithm"
	"github.com/zzalscv2/athena-atlas-sub040/internal/descriptor"
)

// Counter returns the counting instance for d, building it on first use.
func (r *Registry) Counter(d descriptor.Descriptor) (algorithm.Counter, error) {
	return instance(r, d, r.counters)
}

// Sorter returns the sorting instance for d, building it on first use.
func (r *Registry) Sorter(d descriptor.Descriptor) (algorithm.Sorter, error) {
	return instance(r, d, r.sorters)
}

// Decider returns the decision instance for d, building it on first use.
func (r *Registry) Decider(d descriptor.Descriptor) (algorithm.Decider, error) {
	return instance(r, d, r.deciders)
}

// instance caches by descriptor name: a shared algorithm referenced from
// several places is built once and reused for every event.
func instance[T any](r *Registry, d descriptor.Descriptor, factories map[string]Factory[T]) (T, error) {
	var zero T
	if cached, ok := r.instances[d.Name]; ok {
		inst, ok := cached.(T)
		if !ok {
			return zero, fmt.Errorf("%s %q: cached instance has type %T", d.Kind, d.Name, cached)
		}
		return inst, nil
	}

	factory, ok := factories[d.Class]
	if !ok {
		return zero, fmt.Errorf("%s %q: %w %q", d.Kind, d.Name, ErrUnknownClass, d.Class)
	}
	inst, err := factory(Params(d.Parameters))
	if err != nil {
		return zero, fmt.Errorf("failed to build %s %q (%s): %w", d.Kind, d.Name, d.Class, err)
	}
	r.instances[d.Name] = inst
	return inst, nil
}
