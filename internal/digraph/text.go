package digraph

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Text serialises the graph as "V\nE\n" followed by one "u w" line per edge.
func (g *Digraph) Text() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d\n%d\n", g.v, g.e)
	for _, e := range g.Edges() {
		fmt.Fprintf(&sb, "%d %d\n", e[0], e[1])
	}
	return sb.String()
}

// String implements fmt.Stringer with the text form.
func (g *Digraph) String() string { return g.Text() }

// FromText rebuilds a graph from the output of Text.
func FromText(s string) (*Digraph, error) {
	return Read(strings.NewReader(s))
}

// Read parses the text form from r. Blank lines are ignored.
func Read(r io.Reader) (*Digraph, error) {
	sc := bufio.NewScanner(r)
	next := func() (string, bool) {
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line != "" {
				return line, true
			}
		}
		return "", false
	}

	header := func(what string) (int, error) {
		line, ok := next()
		if !ok {
			return 0, fmt.Errorf("missing %s count", what)
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			return 0, fmt.Errorf("invalid %s count %q: %w", what, line, err)
		}
		if n < 0 {
			return 0, fmt.Errorf("%s count must be non-negative, got %d", what, n)
		}
		return n, nil
	}

	v, err := header("vertex")
	if err != nil {
		return nil, err
	}
	e, err := header("edge")
	if err != nil {
		return nil, err
	}

	g := MustNew(v)
	for i := 0; i < e; i++ {
		line, ok := next()
		if !ok {
			return nil, fmt.Errorf("expected %d edges, found %d", e, i)
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("edge %d: expected two vertices, got %q", i, line)
		}
		u, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
		w, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
		if err := g.AddEdge(u, w); err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return g, nil
}
