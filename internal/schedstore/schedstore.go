// Package schedstore persists computed execution schedules keyed by a digest
// of the descriptor set they were built from, so a reload of the same menu
// can be checked against the order computed last time.
package schedstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/zzalscv2/athena-atlas-sub040/internal/descriptor"
)

// ErrNotFound is returned by Load when no schedule is stored for a digest.
var ErrNotFound = errors.New("schedule not found")

// Schedule is the persisted form of an execution sequence.
type Schedule struct {
	Digest    string    `json:"digest"`
	Names     []string  `json:"names"`
	Order     []int     `json:"order"`
	Graph     string    `json:"graph"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists schedules.
type Store interface {
	Save(ctx context.Context, s *Schedule) error
	Load(ctx context.Context, digest string) (*Schedule, error)
}

// New builds a schedule from serial-ordered descriptors, their execution
// order and the text form of their dependency graph.
func New(descs []descriptor.Descriptor, order []int, graph string) *Schedule {
	names := make([]string, len(descs))
	for i, d := range descs {
		names[i] = d.Name
	}
	return &Schedule{
		Digest:    Digest(descs),
		Names:     names,
		Order:     slices.Clone(order),
		Graph:     graph,
		CreatedAt: time.Now().UTC(),
	}
}

// SameOrder reports whether two schedules run the same algorithms in the
// same sequence.
func (s *Schedule) SameOrder(other *Schedule) bool {
	if other == nil || len(s.Order) != len(other.Order) {
		return false
	}
	for i := range s.Order {
		if s.name(s.Order[i]) != other.name(other.Order[i]) {
			return false
		}
	}
	return true
}

func (s *Schedule) name(serial int) string {
	if serial < 0 || serial >= len(s.Names) {
		return ""
	}
	return s.Names[serial]
}

// Digest returns a hex SHA-256 over everything that influences scheduling
// and execution of the descriptors.
func Digest(descs []descriptor.Descriptor) string {
	h := sha256.New()
	for _, d := range descs {
		// fmt prints map keys sorted, keeping the digest stable.
		fmt.Fprintf(h, "%d|%s|%s|%s|%s|%v|%v|%s|%v\n",
			d.Serial, d.Kind, d.Class, d.Name, d.Category,
			d.ChildSerials, d.TriggerLines, d.Selector, d.Parameters)
	}
	return hex.EncodeToString(h.Sum(nil))
}
