package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zzalscv2/athena-atlas-sub040/internal/config"
	"github.com/zzalscv2/athena-atlas-sub040/internal/ctxlog"
	"github.com/zzalscv2/athena-atlas-sub040/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file found under paths and merges all algorithm
// blocks into one menu, in file then declaration order.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Menu, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.FindFiles(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	menu := config.NewMenu()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		m, err := l.decode(ctx, file, hclFile.Body)
		if err != nil {
			return nil, err
		}
		menu.Merge(m)
	}

	logger.Debug("HCL loading complete.",
		"roots", len(menu.RootEntries),
		"decisions", len(menu.DecisionEntries),
		"sorts", len(menu.SortEntries),
		"counts", len(menu.CountEntries),
		"inputs", len(menu.InputEntries),
	)
	return menu, nil
}

// LoadBytes decodes a single in-memory HCL document. filename is only used
// for diagnostics.
func (l *Loader) LoadBytes(ctx context.Context, src []byte, filename string) (*config.Menu, error) {
	hclFile, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	return l.decode(ctx, filename, hclFile.Body)
}

func (l *Loader) decode(ctx context.Context, file string, body hcl.Body) (*config.Menu, error) {
	var root fileRoot
	if diags := gohcl.DecodeBody(body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
	}

	menu := config.NewMenu()
	groups := []struct {
		kind   string
		blocks []*AlgorithmBlock
		dst    *[]*config.Entry
	}{
		{"root", root.Roots, &menu.RootEntries},
		{"decision", root.Decisions, &menu.DecisionEntries},
		{"sort", root.Sorts, &menu.SortEntries},
		{"count", root.Counts, &menu.CountEntries},
		{"input", root.Inputs, &menu.InputEntries},
	}
	for _, g := range groups {
		for _, b := range g.blocks {
			entry, err := translateBlock(ctx, file, g.kind, b)
			if err != nil {
				return nil, err
			}
			*g.dst = append(*g.dst, entry)
		}
	}
	return menu, nil
}
