package registry

import (
	"fmt"
	"log/slog"

	"github.com/zzalscv2/athena-atlas-sub040/internal/algorithm"
)

// RegisterCounter registers the factory for a counting class.
func (r *Registry) RegisterCounter(class string, f Factory[algorithm.Counter]) {
	if _, exists := r.counters[class]; exists {
		panic(fmt.Sprintf("counter with class '%s' already registered", class))
	}
	slog.Debug("Registering counter.", "class", class)
	r.counters[class] = f
}

// RegisterSorter registers the factory for a sorting class.
func (r *Registry) RegisterSorter(class string, f Factory[algorithm.Sorter]) {
	if _, exists := r.sorters[class]; exists {
		panic(fmt.Sprintf("sorter with class '%s' already registered", class))
	}
	slog.Debug("Registering sorter.", "class", class)
	r.sorters[class] = f
}

// RegisterDecider registers the factory for a decision class.
func (r *Registry) RegisterDecider(class string, f Factory[algorithm.Decider]) {
	if _, exists := r.deciders[class]; exists {
		panic(fmt.Sprintf("decider with class '%s' already registered", class))
	}
	slog.Debug("Registering decider.", "class", class)
	r.deciders[class] = f
}
