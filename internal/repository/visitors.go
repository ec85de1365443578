package repository

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/zzalscv2/athena-atlas-sub040/internal/tob"
	"gopkg.in/yaml.v3"
)

// NameFunc maps a serial to a display name. A nil NameFunc leaves names empty.
type NameFunc func(serial int) string

func (f NameFunc) name(serial int) string {
	if f == nil {
		return ""
	}
	return f(serial)
}

// Summary counts entries per payload kind and records serials that were
// written more than once for the same kind.
type Summary struct {
	Refs         int
	CountResults int
	Arrays       int
	Nested       int
	Decisions    int
	Duplicates   []string
}

var _ Visitor = (*Summary)(nil)

// Total returns the number of entries seen.
func (s *Summary) Total() int {
	return s.Refs + s.CountResults + s.Arrays + s.Nested + s.Decisions
}

func (s *Summary) VisitRefs(entries []Entry[tob.Refs]) error {
	s.Refs += len(entries)
	s.Duplicates = append(s.Duplicates, duplicates("refs", entries)...)
	return nil
}

func (s *Summary) VisitCounts(entries []Entry[tob.CountResult]) error {
	s.CountResults += len(entries)
	s.Duplicates = append(s.Duplicates, duplicates("count result", entries)...)
	return nil
}

func (s *Summary) VisitArrays(entries []Entry[tob.Array]) error {
	s.Arrays += len(entries)
	s.Duplicates = append(s.Duplicates, duplicates("array", entries)...)
	return nil
}

func (s *Summary) VisitNested(entries []Entry[tob.Arrays]) error {
	s.Nested += len(entries)
	s.Duplicates = append(s.Duplicates, duplicates("array of arrays", entries)...)
	return nil
}

func (s *Summary) VisitDecisions(entries []Entry[tob.Decision]) error {
	s.Decisions += len(entries)
	s.Duplicates = append(s.Duplicates, duplicates("decision", entries)...)
	return nil
}

func duplicates[T Payload](kind string, entries []Entry[T]) []string {
	var out []string
	seen := make(map[int]int, len(entries))
	for _, e := range entries {
		seen[e.Serial]++
		if seen[e.Serial] == 2 {
			out = append(out, fmt.Sprintf("%s for serial %d", kind, e.Serial))
		}
	}
	return out
}

// LogVisitor writes one structured log record per entry.
type LogVisitor struct {
	ctx    context.Context
	logger *slog.Logger
	level  slog.Level
	names  NameFunc
}

var _ Visitor = (*LogVisitor)(nil)

// NewLogVisitor creates a visitor logging at the given level.
func NewLogVisitor(ctx context.Context, logger *slog.Logger, level slog.Level, names NameFunc) *LogVisitor {
	return &LogVisitor{ctx: ctx, logger: logger, level: level, names: names}
}

func (v *LogVisitor) log(kind string, serial int, attrs ...any) {
	args := append([]any{"kind", kind, "serial", serial, "name", v.names.name(serial)}, attrs...)
	v.logger.Log(v.ctx, v.level, "Repository entry.", args...)
}

func (v *LogVisitor) VisitRefs(entries []Entry[tob.Refs]) error {
	for _, e := range entries {
		v.log("refs", e.Serial, "objects", len(e.Value))
	}
	return nil
}

func (v *LogVisitor) VisitCounts(entries []Entry[tob.CountResult]) error {
	for _, e := range entries {
		v.log("count", e.Serial, "counts", e.Value.Counts)
	}
	return nil
}

func (v *LogVisitor) VisitArrays(entries []Entry[tob.Array]) error {
	for _, e := range entries {
		v.log("array", e.Serial, "array", e.Value.Name, "objects", e.Value.Len())
	}
	return nil
}

func (v *LogVisitor) VisitNested(entries []Entry[tob.Arrays]) error {
	for _, e := range entries {
		v.log("nested", e.Serial, "arrays", len(e.Value))
	}
	return nil
}

func (v *LogVisitor) VisitDecisions(entries []Entry[tob.Decision]) error {
	for _, e := range entries {
		v.log("decision", e.Serial, "bits", e.Value.String())
	}
	return nil
}

type yamlEntry[T any] struct {
	Serial int    `yaml:"serial"`
	Name   string `yaml:"name,omitempty"`
	Value  T      `yaml:"value"`
}

type yamlDocument struct {
	Refs      []yamlEntry[[]tob.TOB]       `yaml:"refs,omitempty"`
	Counts    []yamlEntry[tob.CountResult] `yaml:"counts,omitempty"`
	Arrays    []yamlEntry[tob.Array]       `yaml:"arrays,omitempty"`
	Nested    []yamlEntry[tob.Arrays]      `yaml:"nested,omitempty"`
	Decisions []yamlEntry[tob.Decision]    `yaml:"decisions,omitempty"`
}

// YAMLVisitor collects the repository contents into a YAML document.
// Referenced objects are copied so the dump does not alias event data.
type YAMLVisitor struct {
	names NameFunc
	doc   yamlDocument
}

var _ Visitor = (*YAMLVisitor)(nil)

// NewYAMLVisitor creates an empty YAML visitor.
func NewYAMLVisitor(names NameFunc) *YAMLVisitor {
	return &YAMLVisitor{names: names}
}

func (v *YAMLVisitor) VisitRefs(entries []Entry[tob.Refs]) error {
	for _, e := range entries {
		v.doc.Refs = append(v.doc.Refs, yamlEntry[[]tob.TOB]{e.Serial, v.names.name(e.Serial), e.Value.Values()})
	}
	return nil
}

func (v *YAMLVisitor) VisitCounts(entries []Entry[tob.CountResult]) error {
	v.doc.Counts = appendEntries(v.doc.Counts, entries, v.names)
	return nil
}

func (v *YAMLVisitor) VisitArrays(entries []Entry[tob.Array]) error {
	v.doc.Arrays = appendEntries(v.doc.Arrays, entries, v.names)
	return nil
}

func (v *YAMLVisitor) VisitNested(entries []Entry[tob.Arrays]) error {
	v.doc.Nested = appendEntries(v.doc.Nested, entries, v.names)
	return nil
}

func (v *YAMLVisitor) VisitDecisions(entries []Entry[tob.Decision]) error {
	v.doc.Decisions = appendEntries(v.doc.Decisions, entries, v.names)
	return nil
}

func appendEntries[T Payload](dst []yamlEntry[T], entries []Entry[T], names NameFunc) []yamlEntry[T] {
	for _, e := range entries {
		dst = append(dst, yamlEntry[T]{e.Serial, names.name(e.Serial), e.Value})
	}
	return dst
}

// Encode writes the collected document.
func (v *YAMLVisitor) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v.doc); err != nil {
		return fmt.Errorf("failed to encode repository: %w", err)
	}
	return enc.Close()
}

// Dump writes the contents of r to w as YAML.
func Dump(w io.Writer, r *Repository, names NameFunc) error {
	v := NewYAMLVisitor(names)
	if err := r.Accept(v); err != nil {
		return err
	}
	return v.Encode(w)
}
