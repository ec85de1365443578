// Package counting provides the reference multiplicity counter.
package counting

import (
	"context"
	"errors"
	"slices"

	"github.com/zzalscv2/athena-atlas-sub040/internal/algorithm"
	"github.com/zzalscv2/athena-atlas-sub040/internal/registry"
	"github.com/zzalscv2/athena-atlas-sub040/internal/tob"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the counting classes with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterCounter("MultiplicityCount", NewMultiplicityCount)
}

// MultiplicityParams configures MultiplicityCount.
type MultiplicityParams struct {
	Thresholds []int `mapstructure:"thresholds"`
	// Saturation caps every multiplicity, as the hardware counters do.
	// Zero disables the cap.
	Saturation int `mapstructure:"saturation"`
}

// MultiplicityCount counts, per threshold, the objects with Et above it.
type MultiplicityCount struct {
	params MultiplicityParams
}

// NewMultiplicityCount is the registry factory for MultiplicityCount.
func NewMultiplicityCount(p registry.Params) (algorithm.Counter, error) {
	var params MultiplicityParams
	if err := p.Decode(&params); err != nil {
		return nil, err
	}
	if len(params.Thresholds) == 0 {
		return nil, errors.New("at least one threshold is required")
	}
	if params.Saturation < 0 {
		return nil, errors.New("saturation must not be negative")
	}
	params.Thresholds = slices.Clone(params.Thresholds)
	return &MultiplicityCount{params: params}, nil
}

func (c *MultiplicityCount) Count(_ context.Context, in tob.Refs) (tob.CountResult, error) {
	counts := make([]int, len(c.params.Thresholds))
	for _, t := range in {
		if t == nil {
			continue
		}
		for i, thr := range c.params.Thresholds {
			if t.Et > thr {
				counts[i]++
			}
		}
	}
	if sat := c.params.Saturation; sat > 0 {
		for i := range counts {
			counts[i] = min(counts[i], sat)
		}
	}
	return tob.CountResult{Counts: counts}, nil
}

var _ algorithm.Counter = (*MultiplicityCount)(nil)
