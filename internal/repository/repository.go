// Package repository implements the per-event data store through which
// execution units exchange their results.
//
// Storage is heterogeneous but closed: one slice per payload type, addressed
// by the producing algorithm's serial number. Reads and writes are generic
// over the Payload union so a wrong type is a compile error, and Accept walks
// every payload kind in a fixed order through the Visitor interface.
package repository

import (
	"errors"
	"fmt"

	"github.com/zzalscv2/athena-atlas-sub040/internal/tob"
)

// ErrNotFound is returned by Read when no entry of the requested type exists
// for a serial.
var ErrNotFound = errors.New("repository entry not found")

// Payload is the closed set of value types a repository can hold.
type Payload interface {
	tob.Refs | tob.CountResult | tob.Array | tob.Arrays | tob.Decision
}

// Entry pairs a payload with the serial of the algorithm that produced it.
type Entry[T Payload] struct {
	Serial int
	Value  T
}

// Repository holds the results of one event on one board. It is not safe for
// concurrent use; each board owns its own instance.
type Repository struct {
	refs      []Entry[tob.Refs]
	counts    []Entry[tob.CountResult]
	arrays    []Entry[tob.Array]
	nested    []Entry[tob.Arrays]
	decisions []Entry[tob.Decision]
}

// New returns an empty repository.
func New() *Repository {
	return &Repository{}
}

// Write appends an entry. Uniqueness per serial is not enforced; the
// schedule guarantees each algorithm runs once per event.
func Write[T Payload](r *Repository, serial int, v T) {
	s := slot[T](r)
	*s = append(*s, Entry[T]{Serial: serial, Value: v})
}

// Read returns the first entry of type T written for serial.
func Read[T Payload](r *Repository, serial int) (T, error) {
	for _, e := range *slot[T](r) {
		if e.Serial == serial {
			return e.Value, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: no %s for serial %d", ErrNotFound, kindName[T](), serial)
}

// Len returns the total number of entries across all payload kinds.
func (r *Repository) Len() int {
	return len(r.refs) + len(r.counts) + len(r.arrays) + len(r.nested) + len(r.decisions)
}

// Reset empties the repository while keeping its allocated capacity.
func (r *Repository) Reset() {
	r.refs = r.refs[:0]
	r.counts = r.counts[:0]
	r.arrays = r.arrays[:0]
	r.nested = r.nested[:0]
	r.decisions = r.decisions[:0]
}

// slot returns the backing slice for payload type T.
func slot[T Payload](r *Repository) *[]Entry[T] {
	var zero T
	switch any(zero).(type) {
	case tob.Refs:
		return any(&r.refs).(*[]Entry[T])
	case tob.CountResult:
		return any(&r.counts).(*[]Entry[T])
	case tob.Array:
		return any(&r.arrays).(*[]Entry[T])
	case tob.Arrays:
		return any(&r.nested).(*[]Entry[T])
	case tob.Decision:
		return any(&r.decisions).(*[]Entry[T])
	}
	panic(fmt.Sprintf("repository: unhandled payload type %T", zero))
}

func kindName[T Payload]() string {
	var zero T
	switch any(zero).(type) {
	case tob.Refs:
		return "refs"
	case tob.CountResult:
		return "count result"
	case tob.Array:
		return "array"
	case tob.Arrays:
		return "array of arrays"
	case tob.Decision:
		return "decision"
	}
	return fmt.Sprintf("%T", zero)
}
