// Package unit wraps descriptors into runnable execution units. Units talk to
// each other only through the repository: each reads the entries written by
// its children and writes its own result under its serial.
package unit

import (
	"context"
	"errors"
	"fmt"

	"github.com/zzalscv2/athena-atlas-sub040/internal/algorithm"
	"github.com/zzalscv2/athena-atlas-sub040/internal/descriptor"
	"github.com/zzalscv2/athena-atlas-sub040/internal/event"
	"github.com/zzalscv2/athena-atlas-sub040/internal/repository"
	"github.com/zzalscv2/athena-atlas-sub040/internal/tob"
)

var (
	// ErrOutputBitMismatch means a decision's trigger-line count differs from
	// the output-bit count of its implementation.
	ErrOutputBitMismatch = errors.New("trigger line count does not match output bits")
	// ErrInvalidChildren means a descriptor's children do not fit its kind.
	ErrInvalidChildren = errors.New("invalid children")
)

// Unit is one schedulable step of the per-event sequence.
type Unit interface {
	Descriptor() descriptor.Descriptor
	Run(ctx context.Context, repo *repository.Repository, ev event.Context) error
}

// Factory is the subset of the registry a unit needs to obtain algorithm
// instances.
type Factory interface {
	Counter(d descriptor.Descriptor) (algorithm.Counter, error)
	Sorter(d descriptor.Descriptor) (algorithm.Sorter, error)
	Decider(d descriptor.Descriptor) (algorithm.Decider, error)
}

// New builds the unit for d. descs is the full serial-indexed descriptor set
// and is used to check the kinds of d's children.
func New(d descriptor.Descriptor, descs []descriptor.Descriptor, f Factory) (Unit, error) {
	b := base{desc: d.Clone()}

	switch d.Kind {
	case descriptor.Root:
		return &Root{b}, nil

	case descriptor.Input:
		if d.Selector == "" {
			return nil, fmt.Errorf("%s: input has no selector", d)
		}
		return &Input{b}, nil

	case descriptor.Count:
		if err := checkChildren(d, descs, 1, 1, descriptor.Input); err != nil {
			return nil, err
		}
		alg, err := f.Counter(d)
		if err != nil {
			return nil, err
		}
		return &Count{b, alg}, nil

	case descriptor.Sort:
		if err := checkChildren(d, descs, 1, 1, descriptor.Input); err != nil {
			return nil, err
		}
		alg, err := f.Sorter(d)
		if err != nil {
			return nil, err
		}
		return &Sort{b, alg}, nil

	case descriptor.Decision:
		if err := checkChildren(d, descs, 1, -1, descriptor.Sort); err != nil {
			return nil, err
		}
		alg, err := f.Decider(d)
		if err != nil {
			return nil, err
		}
		u := &Decision{b, alg}
		if err := u.checkBits(); err != nil {
			return nil, err
		}
		return u, nil
	}

	return nil, fmt.Errorf("%s: cannot build a unit for kind %s", d, d.Kind)
}

// checkChildren enforces the child count range [lo, hi] (hi < 0 means
// unbounded) and that every child has the wanted kind.
func checkChildren(d descriptor.Descriptor, descs []descriptor.Descriptor, lo, hi int, want descriptor.Kind) error {
	n := len(d.ChildSerials)
	if n < lo || (hi >= 0 && n > hi) {
		switch {
		case hi < 0:
			return fmt.Errorf("%s: %w: %s needs at least %d children, has %d", d, ErrInvalidChildren, d.Kind, lo, n)
		case lo == hi:
			return fmt.Errorf("%s: %w: %s needs exactly %d child, has %d", d, ErrInvalidChildren, d.Kind, lo, n)
		default:
			return fmt.Errorf("%s: %w: %s needs %d to %d children, has %d", d, ErrInvalidChildren, d.Kind, lo, hi, n)
		}
	}
	for _, s := range d.ChildSerials {
		if s < 0 || s >= len(descs) {
			return fmt.Errorf("%s: %w: child serial %d out of range", d, ErrInvalidChildren, s)
		}
		if k := descs[s].Kind; k != want {
			return fmt.Errorf("%s: %w: child %q is a %s, want %s", d, ErrInvalidChildren, descs[s].Name, k, want)
		}
	}
	return nil
}

type base struct {
	desc descriptor.Descriptor
}

func (b base) Descriptor() descriptor.Descriptor { return b.desc.Clone() }

// Root anchors the graph and does nothing when run.
type Root struct{ base }

func (u *Root) Run(context.Context, *repository.Repository, event.Context) error { return nil }

// Input publishes references into one event collection.
type Input struct{ base }

func (u *Input) Run(_ context.Context, repo *repository.Repository, ev event.Context) error {
	refs, err := ev.Lookup(u.desc.Selector)
	if err != nil {
		return err
	}
	repository.Write(repo, u.desc.Serial, refs)
	return nil
}

// Count runs a counting algorithm over its input.
type Count struct {
	base
	alg algorithm.Counter
}

func (u *Count) Run(ctx context.Context, repo *repository.Repository, _ event.Context) error {
	in, err := repository.Read[tob.Refs](repo, u.desc.ChildSerials[0])
	if err != nil {
		return err
	}
	res, err := u.alg.Count(ctx, in)
	if err != nil {
		return err
	}
	repository.Write(repo, u.desc.Serial, res)
	return nil
}

// Sort runs a sorting algorithm over its input.
type Sort struct {
	base
	alg algorithm.Sorter
}

func (u *Sort) Run(ctx context.Context, repo *repository.Repository, _ event.Context) error {
	in, err := repository.Read[tob.Refs](repo, u.desc.ChildSerials[0])
	if err != nil {
		return err
	}
	out, err := u.alg.Sort(ctx, in)
	if err != nil {
		return err
	}
	if out.Name == "" {
		out.Name = u.desc.Name
	}
	repository.Write(repo, u.desc.Serial, out)
	return nil
}

// Decision runs a decision algorithm over the sorted arrays of its children.
type Decision struct {
	base
	alg algorithm.Decider
}

func (u *Decision) checkBits() error {
	if lines, bits := len(u.desc.TriggerLines), u.alg.NumOutputBits(); lines != bits {
		return fmt.Errorf("%s: %w: %d trigger lines, %d output bits", u.desc, ErrOutputBitMismatch, lines, bits)
	}
	return nil
}

func (u *Decision) Run(ctx context.Context, repo *repository.Repository, _ event.Context) error {
	if err := u.checkBits(); err != nil {
		return err
	}

	inputs := make([]tob.Array, len(u.desc.ChildSerials))
	for i, s := range u.desc.ChildSerials {
		arr, err := repository.Read[tob.Array](repo, s)
		if err != nil {
			return err
		}
		inputs[i] = arr
	}

	out, dec, err := u.alg.Decide(ctx, inputs)
	if err != nil {
		return err
	}
	if n := len(u.desc.TriggerLines); dec.Len() != n || len(out) != n {
		return fmt.Errorf("%s: %w: produced %d bits and %d arrays for %d trigger lines",
			u.desc, ErrOutputBitMismatch, dec.Len(), len(out), n)
	}

	repository.Write(repo, u.desc.Serial, out)
	repository.Write(repo, u.desc.Serial, dec)
	return nil
}
