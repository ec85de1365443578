package digraph

import (
	"fmt"
	"sort"
	"strings"
)

// DotOptions customises the visualisation export. Both functions are optional.
type DotOptions struct {
	// Label returns the display label of a vertex.
	Label func(v int) string
	// Cluster returns the group a vertex is drawn in; "" means no group.
	Cluster func(v int) string
}

// Dot renders the graph as a Graphviz "digraph { u->w ... }" block.
func (g *Digraph) Dot(opts DotOptions) string {
	var sb strings.Builder
	sb.WriteString("digraph {\n")

	if opts.Label != nil || opts.Cluster != nil {
		clusters := make(map[string][]int)
		for v := 0; v < g.v; v++ {
			c := ""
			if opts.Cluster != nil {
				c = opts.Cluster(v)
			}
			clusters[c] = append(clusters[c], v)
		}
		names := make([]string, 0, len(clusters))
		for c := range clusters {
			names = append(names, c)
		}
		sort.Strings(names)

		for _, c := range names {
			indent := "  "
			if c != "" {
				fmt.Fprintf(&sb, "  subgraph %q {\n    label=%q;\n", "cluster_"+c, c)
				indent = "    "
			}
			for _, v := range clusters[c] {
				label := fmt.Sprint(v)
				if opts.Label != nil {
					label = opts.Label(v)
				}
				fmt.Fprintf(&sb, "%s%d [label=%q];\n", indent, v, label)
			}
			if c != "" {
				sb.WriteString("  }\n")
			}
		}
	}

	for _, e := range g.Edges() {
		fmt.Fprintf(&sb, "  %d->%d;\n", e[0], e[1])
	}
	sb.WriteString("}\n")
	return sb.String()
}
