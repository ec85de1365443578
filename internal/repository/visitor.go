package repository

import (
	"github.com/zzalscv2/athena-atlas-sub040/internal/tob"
)

// Visitor receives every payload kind of a repository. Adding a payload type
// adds a method here, so every implementation must handle it.
type Visitor interface {
	VisitRefs(entries []Entry[tob.Refs]) error
	VisitCounts(entries []Entry[tob.CountResult]) error
	VisitArrays(entries []Entry[tob.Array]) error
	VisitNested(entries []Entry[tob.Arrays]) error
	VisitDecisions(entries []Entry[tob.Decision]) error
}

// Accept calls each Visitor method once, in declaration order, and stops at
// the first error. Visitors must not retain the slices.
func (r *Repository) Accept(v Visitor) error {
	if err := v.VisitRefs(r.refs); err != nil {
		return err
	}
	if err := v.VisitCounts(r.counts); err != nil {
		return err
	}
	if err := v.VisitArrays(r.arrays); err != nil {
		return err
	}
	if err := v.VisitNested(r.nested); err != nil {
		return err
	}
	return v.VisitDecisions(r.decisions)
}
