// Package algorithm declares the contracts concrete trigger algorithms
// implement. The engine never depends on a concrete algorithm; it obtains
// instances from the registry by implementation class.
package algorithm

import (
	"context"

	"github.com/zzalscv2/athena-atlas-sub040/internal/tob"
)

// Counter turns one input collection into per-threshold multiplicities.
type Counter interface {
	Count(ctx context.Context, in tob.Refs) (tob.CountResult, error)
}

// Sorter selects and orders the objects of one input collection.
type Sorter interface {
	Sort(ctx context.Context, in tob.Refs) (tob.Array, error)
}

// Decider computes trigger decisions from one or more sorted arrays.
type Decider interface {
	// NumOutputBits is the number of decision bits the algorithm produces.
	// It must equal the number of trigger lines configured for it.
	NumOutputBits() int
	// Decide returns one array of accepted objects per output bit, and the
	// decision bitset of width NumOutputBits.
	Decide(ctx context.Context, in []tob.Array) (tob.Arrays, tob.Decision, error)
}

// CounterFunc adapts a plain function to Counter.
type CounterFunc func(ctx context.Context, in tob.Refs) (tob.CountResult, error)

func (f CounterFunc) Count(ctx context.Context, in tob.Refs) (tob.CountResult, error) {
	return f(ctx, in)
}

// SorterFunc adapts a plain function to Sorter.
type SorterFunc func(ctx context.Context, in tob.Refs) (tob.Array, error)

func (f SorterFunc) Sort(ctx context.Context, in tob.Refs) (tob.Array, error) {
	return f(ctx, in)
}
