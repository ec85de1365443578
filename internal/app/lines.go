package app

import (
	"github.com/zzalscv2/athena-atlas-sub040/internal/descriptor"
	"github.com/zzalscv2/athena-atlas-sub040/internal/repository"
	"github.com/zzalscv2/athena-atlas-sub040/internal/tob"
)

// lineCollector gathers the names of the trigger lines whose decision bit
// is set, in serial then bit order.
type lineCollector struct {
	descs    []descriptor.Descriptor
	accepted []string
}

var _ repository.Visitor = (*lineCollector)(nil)

func newLineCollector(descs []descriptor.Descriptor) *lineCollector {
	return &lineCollector{descs: descs, accepted: []string{}}
}

func (c *lineCollector) VisitRefs([]repository.Entry[tob.Refs]) error          { return nil }
func (c *lineCollector) VisitCounts([]repository.Entry[tob.CountResult]) error { return nil }
func (c *lineCollector) VisitArrays([]repository.Entry[tob.Array]) error       { return nil }
func (c *lineCollector) VisitNested([]repository.Entry[tob.Arrays]) error      { return nil }

func (c *lineCollector) VisitDecisions(entries []repository.Entry[tob.Decision]) error {
	for _, e := range entries {
		if e.Serial < 0 || e.Serial >= len(c.descs) {
			continue
		}
		lines := c.descs[e.Serial].TriggerLines
		for i := 0; i < e.Value.Len() && i < len(lines); i++ {
			if e.Value.Bit(i) {
				c.accepted = append(c.accepted, lines[i].Name)
			}
		}
	}
	return nil
}
