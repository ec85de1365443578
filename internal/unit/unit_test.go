package unit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zzalscv2/athena-atlas-sub040/internal/algorithm"
	"github.com/zzalscv2/athena-atlas-sub040/internal/descriptor"
	"github.com/zzalscv2/athena-atlas-sub040/internal/event"
	"github.com/zzalscv2/athena-atlas-sub040/internal/repository"
	"github.com/zzalscv2/athena-atlas-sub040/internal/tob"
)

// flexDecider reports a fixed bit count and returns whatever it is told to.
type flexDecider struct {
	bits    int
	outBits int
}

func (d *flexDecider) NumOutputBits() int { return d.bits }

func (d *flexDecider) Decide(_ context.Context, in []tob.Array) (tob.Arrays, tob.Decision, error) {
	dec, err := tob.NewDecision(d.outBits)
	if err != nil {
		return nil, tob.Decision{}, err
	}
	return make(tob.Arrays, d.outBits), dec, nil
}

type stubFactory struct {
	decider algorithm.Decider
	err     error
}

func (f stubFactory) Counter(descriptor.Descriptor) (algorithm.Counter, error) {
	return algorithm.CounterFunc(func(_ context.Context, in tob.Refs) (tob.CountResult, error) {
		return tob.CountResult{Counts: []int{len(in)}}, nil
	}), f.err
}

func (f stubFactory) Sorter(descriptor.Descriptor) (algorithm.Sorter, error) {
	return algorithm.SorterFunc(func(_ context.Context, in tob.Refs) (tob.Array, error) {
		return tob.Array{TOBs: in.Values()}, nil
	}), f.err
}

func (f stubFactory) Decider(descriptor.Descriptor) (algorithm.Decider, error) {
	return f.decider, f.err
}

func descs() []descriptor.Descriptor {
	return []descriptor.Descriptor{
		{Name: "root", Class: "RootAlg", Serial: 0, Kind: descriptor.Root},
		{Name: "d", Class: "Dec", Serial: 1, Kind: descriptor.Decision, ChildSerials: []int{2, 2},
			TriggerLines: []descriptor.TriggerLine{{Name: "L1_A"}, {Name: "L1_B", Position: 1}}},
		{Name: "s", Class: "Sort", Serial: 2, Kind: descriptor.Sort, ChildSerials: []int{4}},
		{Name: "c", Class: "Count", Serial: 3, Kind: descriptor.Count, ChildSerials: []int{4}},
		{Name: "eEM", Class: "InputTOBs", Serial: 4, Kind: descriptor.Input, Selector: "eEM", ChildSerials: []int{0}},
	}
}

func emEvent(t *testing.T) *event.Event {
	t.Helper()
	ev, err := event.New(event.Info{Run: 1}, map[string][]tob.TOB{"eEM": {{Et: 9}, {Et: 4}, {Et: 1}}})
	require.NoError(t, err)
	return ev
}

func TestUnits_RunInDependencyOrder(t *testing.T) {
	all := descs()
	f := stubFactory{decider: &flexDecider{bits: 2, outBits: 2}}
	repo := repository.New()
	ev := emEvent(t)

	for _, serial := range []int{0, 4, 2, 3, 1} {
		u, err := New(all[serial], all, f)
		require.NoError(t, err)
		assert.Equal(t, serial, u.Descriptor().Serial)
		require.NoError(t, u.Run(context.Background(), repo, ev))
	}

	counts, err := repository.Read[tob.CountResult](repo, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, counts.Counts)

	arr, err := repository.Read[tob.Array](repo, 2)
	require.NoError(t, err)
	assert.Equal(t, "s", arr.Name)

	dec, err := repository.Read[tob.Decision](repo, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, dec.Len())
}

func TestNew_ChildChecks(t *testing.T) {
	f := stubFactory{decider: &flexDecider{bits: 2, outBits: 2}}

	testCases := []struct {
		name   string
		mutate func(d []descriptor.Descriptor) descriptor.Descriptor
		want   string
	}{
		{
			name: "sort with two children",
			mutate: func(d []descriptor.Descriptor) descriptor.Descriptor {
				d[2].ChildSerials = []int{4, 4}
				return d[2]
			},
			want: "sort needs exactly 1 child, has 2",
		},
		{
			name: "count fed by a sort",
			mutate: func(d []descriptor.Descriptor) descriptor.Descriptor {
				d[3].ChildSerials = []int{2}
				return d[3]
			},
			want: `child "s" is a sort, want input`,
		},
		{
			name: "decision without children",
			mutate: func(d []descriptor.Descriptor) descriptor.Descriptor {
				d[1].ChildSerials = nil
				return d[1]
			},
			want: "decision needs at least 1 children, has 0",
		},
		{
			name: "unresolved child",
			mutate: func(d []descriptor.Descriptor) descriptor.Descriptor {
				d[2].ChildSerials = []int{-1}
				return d[2]
			},
			want: "child serial -1 out of range",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			all := descs()
			d := tc.mutate(all)
			_, err := New(d, all, f)
			require.ErrorIs(t, err, ErrInvalidChildren)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestNew_Errors(t *testing.T) {
	all := descs()

	_, err := New(descriptor.Descriptor{Name: "x", Kind: descriptor.Unset}, all, stubFactory{})
	require.Error(t, err)

	in := all[4]
	in.Selector = ""
	_, err = New(in, all, stubFactory{})
	require.Error(t, err)

	factoryErr := errors.New("no such class")
	_, err = New(all[2], all, stubFactory{err: factoryErr})
	require.ErrorIs(t, err, factoryErr)
}

func TestDecision_OutputBitMismatch(t *testing.T) {
	all := descs()

	t.Run("at construction", func(t *testing.T) {
		_, err := New(all[1], all, stubFactory{decider: &flexDecider{bits: 1, outBits: 1}})
		require.ErrorIs(t, err, ErrOutputBitMismatch)
		assert.Contains(t, err.Error(), "2 trigger lines, 1 output bits")
	})

	t.Run("at run time", func(t *testing.T) {
		dec := &flexDecider{bits: 2, outBits: 2}
		u, err := New(all[1], all, stubFactory{decider: dec})
		require.NoError(t, err)

		repo := repository.New()
		repository.Write(repo, 2, tob.Array{Name: "s"})

		dec.bits = 3
		err = u.Run(context.Background(), repo, emEvent(t))
		require.ErrorIs(t, err, ErrOutputBitMismatch)

		dec.bits, dec.outBits = 2, 1
		err = u.Run(context.Background(), repo, emEvent(t))
		require.ErrorIs(t, err, ErrOutputBitMismatch)
		assert.Contains(t, err.Error(), "produced 1 bits")
	})
}

func TestRun_MissingInputIsNotFound(t *testing.T) {
	all := descs()
	u, err := New(all[2], all, stubFactory{})
	require.NoError(t, err)

	err = u.Run(context.Background(), repository.New(), emEvent(t))
	require.ErrorIs(t, err, repository.ErrNotFound)
}
