package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/zzalscv2/athena-atlas-sub040/internal/repository"
	"github.com/zzalscv2/athena-atlas-sub040/internal/tob"
)

// DecisionVisitor increments the accept counter of every trigger line whose
// bit is set. Bits of unknown decisions are labelled "<serial>/<bit>".
type DecisionVisitor struct {
	lines   map[int][]string
	accepts *prometheus.CounterVec
}

var _ repository.Visitor = (*DecisionVisitor)(nil)

func (v *DecisionVisitor) VisitRefs([]repository.Entry[tob.Refs]) error          { return nil }
func (v *DecisionVisitor) VisitCounts([]repository.Entry[tob.CountResult]) error { return nil }
func (v *DecisionVisitor) VisitArrays([]repository.Entry[tob.Array]) error       { return nil }
func (v *DecisionVisitor) VisitNested([]repository.Entry[tob.Arrays]) error      { return nil }

func (v *DecisionVisitor) VisitDecisions(entries []repository.Entry[tob.Decision]) error {
	for _, e := range entries {
		names := v.lines[e.Serial]
		for i := 0; i < e.Value.Len(); i++ {
			if !e.Value.Bit(i) {
				continue
			}
			line := fmt.Sprintf("%d/%d", e.Serial, i)
			if i < len(names) {
				line = names[i]
			}
			v.accepts.WithLabelValues(line).Inc()
		}
	}
	return nil
}
