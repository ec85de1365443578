// Package tob holds the payload value types exchanged between trigger
// algorithms: trigger objects (TOBs) and the results built from them.
package tob

import (
	"fmt"
	"strings"
)

// TOB is a single trigger object. Energies and coordinates are kept in the
// integer granularity of the hardware.
type TOB struct {
	Et  int `yaml:"et" json:"et"`
	Eta int `yaml:"eta" json:"eta"`
	Phi int `yaml:"phi" json:"phi"`
}

// String implements fmt.Stringer.
func (t TOB) String() string {
	return fmt.Sprintf("TOB(et=%d eta=%d phi=%d)", t.Et, t.Eta, t.Phi)
}

// Refs are raw references into an event's input collection. Algorithms must
// treat the pointed-to objects as read-only.
type Refs []*TOB

// Values copies the referenced objects.
func (r Refs) Values() []TOB {
	out := make([]TOB, 0, len(r))
	for _, t := range r {
		if t != nil {
			out = append(out, *t)
		}
	}
	return out
}

// CountResult holds one multiplicity per counting threshold.
type CountResult struct {
	Counts []int `yaml:"counts" json:"counts"`
}

// Array is a named, ordered collection of trigger objects.
type Array struct {
	Name string `yaml:"name" json:"name"`
	TOBs []TOB  `yaml:"tobs" json:"tobs"`
}

// Len returns the number of objects.
func (a Array) Len() int { return len(a.TOBs) }

// Arrays is an array of arrays, one per decision output bit.
type Arrays []Array

// MaxDecisionBits is the largest output-bit count a Decision can hold.
const MaxDecisionBits = 64

// Decision is a fixed-width bitset of trigger decisions.
type Decision struct {
	bits uint64
	n    int
}

// NewDecision creates an all-zero decision with n bits.
func NewDecision(n int) (Decision, error) {
	if n < 0 || n > MaxDecisionBits {
		return Decision{}, fmt.Errorf("decision width %d out of range [0, %d]", n, MaxDecisionBits)
	}
	return Decision{n: n}, nil
}

// Len returns the number of bits.
func (d Decision) Len() int { return d.n }

// Set returns a copy with bit i set to v. Out-of-range indices panic.
func (d Decision) Set(i int, v bool) Decision {
	d.check(i)
	if v {
		d.bits |= 1 << uint(i)
	} else {
		d.bits &^= 1 << uint(i)
	}
	return d
}

// Bit reports the value of bit i. Out-of-range indices panic.
func (d Decision) Bit(i int) bool {
	d.check(i)
	return d.bits&(1<<uint(i)) != 0
}

// Any reports whether at least one bit is set.
func (d Decision) Any() bool { return d.bits != 0 }

// Uint64 returns the raw bits.
func (d Decision) Uint64() uint64 { return d.bits }

func (d Decision) check(i int) {
	if i < 0 || i >= d.n {
		panic(fmt.Sprintf("tob: decision bit %d out of range [0, %d)", i, d.n))
	}
}

// String renders the bits, bit 0 first.
func (d Decision) String() string {
	var sb strings.Builder
	for i := 0; i < d.n; i++ {
		if d.Bit(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// MarshalYAML renders the bitset as its string form.
func (d Decision) MarshalYAML() (any, error) {
	return d.String(), nil
}
