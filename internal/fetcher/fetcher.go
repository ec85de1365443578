// Package fetcher turns a trigger configuration source into a complete,
// internally consistent set of descriptors.
//
// Fetching runs in passes: enumerate the raw entries and derive their kinds,
// deduplicate shared algorithms, hand out dense serial numbers partitioned by
// kind, index names to serials, and finally resolve every child reference.
// Failures are collected rather than raised so a single run reports every
// problem in the configuration at once.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/zzalscv2/athena-atlas-sub040/internal/config"
	"github.com/zzalscv2/athena-atlas-sub040/internal/ctxlog"
	"github.com/zzalscv2/athena-atlas-sub040/internal/descriptor"
)

// ErrInvalidConfiguration is wrapped by Result.Err when fetching failed.
var ErrInvalidConfiguration = errors.New("invalid trigger configuration")

const (
	// DefaultRootName is used when the source declares no root.
	DefaultRootName = "root"
	// DefaultRootClass is the implementation class of a synthesised root.
	DefaultRootClass = "RootAlg"
	// DefaultInputClass is used for input entries that omit a class.
	DefaultInputClass = "InputTOBs"
)

// Result is the outcome of a fetch. Callers must check IsValid before using
// the descriptors.
type Result struct {
	descriptors []*descriptor.Descriptor
	errs        []string
}

// IsValid reports whether the descriptor set is complete and consistent.
func (r *Result) IsValid() bool { return len(r.errs) == 0 }

// Errors returns the human-readable validation failures.
func (r *Result) Errors() []string { return slices.Clone(r.errs) }

// Err joins all failures into one error wrapping ErrInvalidConfiguration,
// or returns nil for a valid result.
func (r *Result) Err() error {
	if r.IsValid() {
		return nil
	}
	return fmt.Errorf("%w:\n- %s", ErrInvalidConfiguration, strings.Join(r.errs, "\n- "))
}

// Descriptors returns deep copies of the descriptors in serial order. It is
// empty when the result is not valid.
func (r *Result) Descriptors() []descriptor.Descriptor {
	if !r.IsValid() {
		return nil
	}
	out := make([]descriptor.Descriptor, len(r.descriptors))
	for i, d := range r.descriptors {
		out[i] = d.Clone()
	}
	return out
}

// Len returns the number of descriptors.
func (r *Result) Len() int { return len(r.descriptors) }

func (r *Result) fail(format string, args ...any) {
	r.errs = append(r.errs, fmt.Sprintf(format, args...))
}

// Fetch reads the source and builds the descriptor set.
func Fetch(ctx context.Context, src config.Source) *Result {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Fetch: Starting descriptor construction.")
	r := &Result{}

	raw := r.enumerate(src)
	logger.Debug("Fetch: Enumeration complete.", "raw_count", len(raw))
	if !r.IsValid() {
		return r
	}

	descs := r.deduplicate(ctx, raw)
	if !r.IsValid() {
		logger.Debug("Fetch: Deduplication failed.", "errors", len(r.errs))
		return r
	}
	logger.Debug("Fetch: Deduplication complete.", "count", len(descs))

	r.descriptors = assignSerials(descs)

	index := r.index()
	if !r.IsValid() {
		return r
	}

	r.resolve(index)
	if !r.IsValid() {
		logger.Debug("Fetch: Child resolution failed.", "errors", len(r.errs))
		return r
	}

	logger.Debug("Fetch: Descriptor construction successful.", "count", len(r.descriptors))
	return r
}

// enumerate converts every entry of the source into a descriptor, deriving
// its kind from the accessor it came from.
func (r *Result) enumerate(src config.Source) []*descriptor.Descriptor {
	roots := src.Roots()
	rootName := DefaultRootName
	if len(roots) == 0 {
		roots = []*config.Entry{{Name: DefaultRootName, Class: DefaultRootClass, Origin: "default"}}
	} else if roots[0] != nil {
		rootName = roots[0].Name
	}

	groups := []struct {
		kind    descriptor.Kind
		entries []*config.Entry
	}{
		{descriptor.Root, roots},
		{descriptor.Decision, src.Decisions()},
		{descriptor.Sort, src.Sorts()},
		{descriptor.Count, src.Counts()},
		{descriptor.Input, src.Inputs()},
	}

	var out []*descriptor.Descriptor
	for _, g := range groups {
		for _, e := range g.entries {
			if e == nil {
				continue
			}
			if d := r.newDescriptor(g.kind, e, rootName); d != nil {
				out = append(out, d)
			}
		}
	}
	return out
}

func (r *Result) newDescriptor(kind descriptor.Kind, e *config.Entry, rootName string) *descriptor.Descriptor {
	if e.Name == "" {
		r.fail("%s entry of class %q has an empty name%s", kind, e.Class, origin(e))
		return nil
	}

	d := &descriptor.Descriptor{
		Name:       e.Name,
		Class:      e.Class,
		Category:   e.Category,
		Kind:       kind,
		ChildNames: slices.Clone(e.Inputs),
		Parameters: e.Parameters,
	}

	switch kind {
	case descriptor.Root:
		if d.Class == "" {
			d.Class = DefaultRootClass
		}
	case descriptor.Input:
		if d.Class == "" {
			d.Class = DefaultInputClass
		}
		d.Selector = e.Selector
		if d.Selector == "" {
			d.Selector = e.Name
		}
		if len(d.ChildNames) == 0 {
			d.ChildNames = []string{rootName}
		}
	case descriptor.Decision:
		d.TriggerLines = r.triggerLines(e)
	}

	if d.Class == "" {
		r.fail("%s %q has no implementation class%s", kind, e.Name, origin(e))
		return nil
	}
	return d
}

// triggerLines resolves line positions and orders the lines by position.
// Explicit positions are placed first; each unpositioned line then takes the
// lowest free position. Position i is decision bit i, so the result must
// cover 0..n-1 without gaps.
func (r *Result) triggerLines(e *config.Entry) []descriptor.TriggerLine {
	if len(e.TriggerLines) == 0 {
		r.fail("decision %q declares no trigger lines%s", e.Name, origin(e))
		return nil
	}

	names := make(map[string]struct{}, len(e.TriggerLines))
	taken := make(map[int]string, len(e.TriggerLines))
	clash := false
	for _, l := range e.TriggerLines {
		if _, dup := names[l.Name]; dup {
			r.fail("decision %q declares trigger line %q twice", e.Name, l.Name)
		}
		names[l.Name] = struct{}{}
		if l.Position < 0 {
			continue
		}
		if other, dup := taken[l.Position]; dup {
			r.fail("decision %q assigns position %d to both %q and %q", e.Name, l.Position, other, l.Name)
			clash = true
			continue
		}
		taken[l.Position] = l.Name
	}

	lines := make([]descriptor.TriggerLine, 0, len(e.TriggerLines))
	next := 0
	for _, l := range e.TriggerLines {
		pos := l.Position
		if pos < 0 {
			for {
				if _, used := taken[next]; !used {
					break
				}
				next++
			}
			pos = next
			taken[pos] = l.Name
		}
		lines = append(lines, descriptor.TriggerLine{Name: l.Name, Position: pos})
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Position < lines[j].Position })

	if !clash {
		for i, l := range lines {
			if l.Position != i {
				r.fail("decision %q: trigger line %q has position %d, positions must run from 0 to %d without gaps",
					e.Name, l.Name, l.Position, len(lines)-1)
				break
			}
		}
	}
	return lines
}

// deduplicate merges exact repeats of a declaration and records a duplicate
// failure for any other name collision.
func (r *Result) deduplicate(ctx context.Context, raw []*descriptor.Descriptor) []*descriptor.Descriptor {
	logger := ctxlog.FromContext(ctx)
	seen := make(map[string]*descriptor.Descriptor, len(raw))
	out := make([]*descriptor.Descriptor, 0, len(raw))
	roots := 0

	for _, d := range raw {
		prev, exists := seen[d.Name]
		if !exists {
			seen[d.Name] = d
			out = append(out, d)
			if d.Kind == descriptor.Root {
				roots++
			}
			continue
		}
		if prev.Class != d.Class || prev.Kind != d.Kind {
			r.fail("duplicate: name %q is declared as %s %s and as %s %s", d.Name, prev.Kind, prev.Class, d.Kind, d.Class)
			continue
		}
		if diff := sharedConflict(prev, d); diff != "" {
			r.fail("duplicate: %s %q is declared twice with different %s", d.Kind, d.Name, diff)
			continue
		}
		logger.Debug("Merging shared algorithm declaration.", "name", d.Name, "class", d.Class)
	}

	if roots > 1 {
		r.fail("duplicate: %d root algorithms declared, exactly one is allowed", roots)
	}
	return out
}

// sharedConflict names the first field in which two declarations of the same
// class and kind disagree, or returns "" when they are identical.
func sharedConflict(a, b *descriptor.Descriptor) string {
	switch {
	case !slices.Equal(a.ChildNames, b.ChildNames):
		return "inputs"
	case a.Selector != b.Selector:
		return "selector"
	case !slices.Equal(a.TriggerLines, b.TriggerLines):
		return "trigger lines"
	case !cmp.Equal(a.Parameters, b.Parameters, cmpopts.EquateEmpty()):
		return "parameters"
	}
	return ""
}

// assignSerials partitions by kind in descriptor.AssignmentOrder, keeping
// configuration order inside each partition.
func assignSerials(descs []*descriptor.Descriptor) []*descriptor.Descriptor {
	out := make([]*descriptor.Descriptor, 0, len(descs))
	for _, kind := range descriptor.AssignmentOrder {
		for _, d := range descs {
			if d.Kind == kind {
				d.Serial = len(out)
				out = append(out, d)
			}
		}
	}
	return out
}

func (r *Result) index() map[string]int {
	index := make(map[string]int, len(r.descriptors))
	for _, d := range r.descriptors {
		index[d.Name] = d.Serial
	}
	if len(index) != len(r.descriptors) {
		r.fail("inversion: name index holds %d entries for %d descriptors", len(index), len(r.descriptors))
	}
	return index
}

func (r *Result) resolve(index map[string]int) {
	for _, d := range r.descriptors {
		d.ChildSerials = make([]int, len(d.ChildNames))
		for i, name := range d.ChildNames {
			serial, ok := index[name]
			if !ok {
				r.fail("unknown child: %s %q references undefined algorithm %q", d.Kind, d.Name, name)
				serial = -1
			}
			d.ChildSerials[i] = serial
		}
	}
}

func origin(e *config.Entry) string {
	if e.Origin == "" {
		return ""
	}
	return " (" + e.Origin + ")"
}
