// Package decision provides reference decision algorithms producing one
// trigger bit per configured cut.
package decision

import (
	"context"
	"errors"
	"fmt"

	"github.com/zzalscv2/athena-atlas-sub040/internal/algorithm"
	"github.com/zzalscv2/athena-atlas-sub040/internal/registry"
	"github.com/zzalscv2/athena-atlas-sub040/internal/tob"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the decision classes with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterDecider("EtCut", NewEtCut)
	r.RegisterDecider("DeltaEta", NewDeltaEta)
}

// EtCutParams configures EtCut.
type EtCutParams struct {
	Thresholds []int `mapstructure:"thresholds"`
}

// EtCut fires bit i when any object of its first input has Et above
// Thresholds[i]. The accepted objects of each bit are returned as well.
type EtCut struct {
	thresholds []int
}

// NewEtCut is the registry factory for EtCut.
func NewEtCut(p registry.Params) (algorithm.Decider, error) {
	var params EtCutParams
	if err := p.Decode(&params); err != nil {
		return nil, err
	}
	if len(params.Thresholds) == 0 || len(params.Thresholds) > tob.MaxDecisionBits {
		return nil, fmt.Errorf("need 1 to %d thresholds, got %d", tob.MaxDecisionBits, len(params.Thresholds))
	}
	return &EtCut{thresholds: params.Thresholds}, nil
}

func (c *EtCut) NumOutputBits() int { return len(c.thresholds) }

func (c *EtCut) Decide(_ context.Context, in []tob.Array) (tob.Arrays, tob.Decision, error) {
	dec, err := tob.NewDecision(len(c.thresholds))
	if err != nil {
		return nil, dec, err
	}
	if len(in) == 0 {
		return nil, dec, errors.New("EtCut needs at least one input array")
	}

	out := make(tob.Arrays, len(c.thresholds))
	for i, thr := range c.thresholds {
		out[i].Name = fmt.Sprintf("et>%d", thr)
		for _, t := range in[0].TOBs {
			if t.Et > thr {
				out[i].TOBs = append(out[i].TOBs, t)
			}
		}
		dec = dec.Set(i, out[i].Len() > 0)
	}
	return out, dec, nil
}

// Window is an inclusive range.
type Window struct {
	Min int `mapstructure:"min"`
	Max int `mapstructure:"max"`
}

// DeltaEtaParams configures DeltaEta.
type DeltaEtaParams struct {
	Windows []Window `mapstructure:"windows"`
}

// DeltaEta compares the leading objects of its two inputs, or the two
// leading objects of a single input, and fires bit i when |Δη| lies in
// Windows[i].
type DeltaEta struct {
	windows []Window
}

// NewDeltaEta is the registry factory for DeltaEta.
func NewDeltaEta(p registry.Params) (algorithm.Decider, error) {
	var params DeltaEtaParams
	if err := p.Decode(&params); err != nil {
		return nil, err
	}
	if len(params.Windows) == 0 || len(params.Windows) > tob.MaxDecisionBits {
		return nil, fmt.Errorf("need 1 to %d windows, got %d", tob.MaxDecisionBits, len(params.Windows))
	}
	for i, w := range params.Windows {
		if w.Min < 0 || w.Max < w.Min {
			return nil, fmt.Errorf("window %d: invalid range [%d, %d]", i, w.Min, w.Max)
		}
	}
	return &DeltaEta{windows: params.Windows}, nil
}

func (d *DeltaEta) NumOutputBits() int { return len(d.windows) }

func (d *DeltaEta) Decide(_ context.Context, in []tob.Array) (tob.Arrays, tob.Decision, error) {
	dec, err := tob.NewDecision(len(d.windows))
	if err != nil {
		return nil, dec, err
	}

	var a, b *tob.TOB
	switch len(in) {
	case 1:
		if in[0].Len() >= 2 {
			a, b = &in[0].TOBs[0], &in[0].TOBs[1]
		}
	case 2:
		if in[0].Len() >= 1 && in[1].Len() >= 1 {
			a, b = &in[0].TOBs[0], &in[1].TOBs[0]
		}
	default:
		return nil, dec, fmt.Errorf("DeltaEta needs one or two input arrays, got %d", len(in))
	}

	out := make(tob.Arrays, len(d.windows))
	for i, w := range d.windows {
		out[i].Name = fmt.Sprintf("deta%d-%d", w.Min, w.Max)
		if a == nil {
			continue
		}
		deta := a.Eta - b.Eta
		if deta < 0 {
			deta = -deta
		}
		if deta >= w.Min && deta <= w.Max {
			out[i].TOBs = []tob.TOB{*a, *b}
			dec = dec.Set(i, true)
		}
	}
	return out, dec, nil
}

var (
	_ algorithm.Decider = (*EtCut)(nil)
	_ algorithm.Decider = (*DeltaEta)(nil)
)
