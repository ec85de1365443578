// Package event provides the per-event input collections read by input
// algorithms, and a YAML reader for event files.
package event

import (
	"errors"
	"fmt"
	"slices"

	"github.com/zzalscv2/athena-atlas-sub040/internal/tob"
)

// ErrUnknownSelector is returned by Lookup for a selector that names no known
// input collection.
var ErrUnknownSelector = errors.New("unknown input selector")

// KnownSelectors lists the input collections an event may carry.
var KnownSelectors = []string{
	"jJ", "jLJ", "jTAU", "jEM",
	"eEM", "eTAU", "cTAU",
	"gJ", "gLJ",
	"MU",
	"jXE", "gXE",
}

// IsKnownSelector reports whether s names a known input collection.
func IsKnownSelector(s string) bool {
	return slices.Contains(KnownSelectors, s)
}

// Info identifies an event.
type Info struct {
	Run       uint32 `yaml:"run"`
	Event     uint64 `yaml:"event"`
	LumiBlock uint32 `yaml:"lumi_block"`
	BCID      uint32 `yaml:"bcid"`
}

// String implements fmt.Stringer.
func (i Info) String() string {
	return fmt.Sprintf("run %d event %d", i.Run, i.Event)
}

// Context is what execution units see of the current event.
type Context interface {
	Info() Info
	// Lookup returns references into the named input collection. A known
	// selector with no data yields empty refs.
	Lookup(selector string) (tob.Refs, error)
}

// Event is the in-memory Context implementation.
type Event struct {
	info        Info
	collections map[string][]tob.TOB
}

var _ Context = (*Event)(nil)

// New creates an event. Collections with unknown selectors are rejected.
func New(info Info, collections map[string][]tob.TOB) (*Event, error) {
	var unknown []string
	for sel := range collections {
		if !IsKnownSelector(sel) {
			unknown = append(unknown, sel)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return nil, fmt.Errorf("%s: %w: %v", info, ErrUnknownSelector, unknown)
	}
	return &Event{info: info, collections: collections}, nil
}

func (e *Event) Info() Info { return e.info }

func (e *Event) Lookup(selector string) (tob.Refs, error) {
	if !IsKnownSelector(selector) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSelector, selector)
	}
	objs := e.collections[selector]
	refs := make(tob.Refs, len(objs))
	for i := range objs {
		refs[i] = &objs[i]
	}
	return refs, nil
}
