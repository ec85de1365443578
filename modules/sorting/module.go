// Package sorting provides reference sorting algorithms: objects are
// filtered by simple cuts and ordered by decreasing transverse energy.
package sorting

import (
	"context"
	"fmt"
	"sort"

	"github.com/zzalscv2/athena-atlas-sub040/internal/algorithm"
	"github.com/zzalscv2/athena-atlas-sub040/internal/registry"
	"github.com/zzalscv2/athena-atlas-sub040/internal/tob"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the sorting classes with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterSorter("EtSort", NewEtSort)
	r.RegisterSorter("EtaWindowSort", NewEtaWindowSort)
}

// EtSortParams configures EtSort.
type EtSortParams struct {
	MinEt int `mapstructure:"min_et"`
	// MaxObjects truncates the output; zero keeps every object.
	MaxObjects int `mapstructure:"max_objects"`
}

// EtSort keeps objects with Et >= MinEt, leading object first.
type EtSort struct {
	params EtSortParams
}

// NewEtSort is the registry factory for EtSort.
func NewEtSort(p registry.Params) (algorithm.Sorter, error) {
	var params EtSortParams
	if err := p.Decode(&params); err != nil {
		return nil, err
	}
	if params.MaxObjects < 0 {
		return nil, fmt.Errorf("max_objects must not be negative, got %d", params.MaxObjects)
	}
	return &EtSort{params: params}, nil
}

func (s *EtSort) Sort(_ context.Context, in tob.Refs) (tob.Array, error) {
	return tob.Array{TOBs: selectLeading(in, s.params.MaxObjects, func(t *tob.TOB) bool {
		return t.Et >= s.params.MinEt
	})}, nil
}

// EtaWindowParams configures EtaWindowSort.
type EtaWindowParams struct {
	EtSortParams `mapstructure:",squash"`
	MinAbsEta    int `mapstructure:"min_abs_eta"`
	MaxAbsEta    int `mapstructure:"max_abs_eta"`
}

// EtaWindowSort keeps objects with MinAbsEta <= |eta| <= MaxAbsEta before
// applying the EtSort cuts. A zero MaxAbsEta leaves the window open.
type EtaWindowSort struct {
	params EtaWindowParams
}

// NewEtaWindowSort is the registry factory for EtaWindowSort.
func NewEtaWindowSort(p registry.Params) (algorithm.Sorter, error) {
	var params EtaWindowParams
	if err := p.Decode(&params); err != nil {
		return nil, err
	}
	if params.MaxObjects < 0 {
		return nil, fmt.Errorf("max_objects must not be negative, got %d", params.MaxObjects)
	}
	if params.MinAbsEta < 0 || (params.MaxAbsEta != 0 && params.MaxAbsEta < params.MinAbsEta) {
		return nil, fmt.Errorf("invalid eta window [%d, %d]", params.MinAbsEta, params.MaxAbsEta)
	}
	return &EtaWindowSort{params: params}, nil
}

func (s *EtaWindowSort) Sort(_ context.Context, in tob.Refs) (tob.Array, error) {
	return tob.Array{TOBs: selectLeading(in, s.params.MaxObjects, func(t *tob.TOB) bool {
		eta := abs(t.Eta)
		inWindow := eta >= s.params.MinAbsEta && (s.params.MaxAbsEta == 0 || eta <= s.params.MaxAbsEta)
		return t.Et >= s.params.MinEt && inWindow
	})}, nil
}

// selectLeading copies the objects passing keep, ordered by decreasing Et
// with ties kept in input order, and truncates to limit when positive.
func selectLeading(in tob.Refs, limit int, keep func(*tob.TOB) bool) []tob.TOB {
	out := make([]tob.TOB, 0, len(in))
	for _, t := range in {
		if t != nil && keep(t) {
			out = append(out, *t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Et > out[j].Et })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

var (
	_ algorithm.Sorter = (*EtSort)(nil)
	_ algorithm.Sorter = (*EtaWindowSort)(nil)
)
