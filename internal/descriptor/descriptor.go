// Package descriptor defines the immutable record describing one schedulable
// trigger algorithm. Descriptors are produced once per configuration load by
// the fetcher and addressed afterwards by their dense serial number, which is
// also their vertex id in the dependency graph.
package descriptor

import (
	"fmt"
	"maps"
	"slices"
)

// Kind determines which execution unit variant a descriptor becomes.
type Kind int

const (
	Unset Kind = iota
	Decision
	Sort
	Count
	Input
	Root
)

var kindNames = map[Kind]string{
	Unset:    "unset",
	Decision: "decision",
	Sort:     "sort",
	Count:    "count",
	Input:    "input",
	Root:     "root",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return Unset, fmt.Errorf("unknown descriptor kind %q", s)
}

// AssignmentOrder is the fixed partition order used when serials are handed out.
var AssignmentOrder = []Kind{Root, Decision, Sort, Count, Input}

// TriggerLine names one output bit of a decision algorithm.
type TriggerLine struct {
	Name     string
	Position int
}

// Descriptor describes one schedulable algorithm node.
type Descriptor struct {
	Name     string
	Class    string
	Serial   int
	Category string
	Kind     Kind

	// ChildNames are the raw dependency references from configuration;
	// ChildSerials is their resolved form, index for index.
	ChildNames   []string
	ChildSerials []int

	// TriggerLines is only meaningful for Decision descriptors.
	TriggerLines []TriggerLine

	// Selector is the event-context key read by Input descriptors.
	Selector string

	Parameters map[string]any
}

// Clone returns a deep copy so callers cannot mutate shared state.
func (d Descriptor) Clone() Descriptor {
	c := d
	c.ChildNames = slices.Clone(d.ChildNames)
	c.ChildSerials = slices.Clone(d.ChildSerials)
	c.TriggerLines = slices.Clone(d.TriggerLines)
	c.Parameters = maps.Clone(d.Parameters)
	return c
}

// LineNames returns the trigger line names in position order.
func (d Descriptor) LineNames() []string {
	names := make([]string, len(d.TriggerLines))
	for i, l := range d.TriggerLines {
		names[i] = l.Name
	}
	return names
}

// String returns a short human-readable identification.
func (d Descriptor) String() string {
	return fmt.Sprintf("%s/%s[%d]", d.Class, d.Name, d.Serial)
}
