// Package yaml_adapter loads trigger menus written in YAML into the
// format-agnostic config model.
package yaml_adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/zzalscv2/athena-atlas-sub040/internal/config"
	"github.com/zzalscv2/athena-atlas-sub040/internal/ctxlog"
	"github.com/zzalscv2/athena-atlas-sub040/internal/fsutil"
	"gopkg.in/yaml.v3"
)

type fileRoot struct {
	Roots     []algorithmDoc `yaml:"roots"`
	Inputs    []algorithmDoc `yaml:"inputs"`
	Sorts     []algorithmDoc `yaml:"sorts"`
	Counts    []algorithmDoc `yaml:"counts"`
	Decisions []algorithmDoc `yaml:"decisions"`
}

type algorithmDoc struct {
	Name         string           `yaml:"name"`
	Class        string           `yaml:"class"`
	Category     string           `yaml:"category"`
	Inputs       []string         `yaml:"inputs"`
	Selector     string           `yaml:"selector"`
	Parameters   map[string]any   `yaml:"parameters"`
	TriggerLines []triggerLineDoc `yaml:"trigger_lines"`
}

type triggerLineDoc struct {
	Name     string `yaml:"name"`
	Position *int   `yaml:"position"`
}

// Loader is the YAML implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new YAML configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load decodes every .yaml or .yml file found under paths. Unknown keys are
// rejected so that non-menu YAML files are not silently read as empty menus.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Menu, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "path_count", len(paths))

	files, err := fsutil.FindFiles(paths, ".yaml", ".yml")
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered YAML files.", "count", len(files))

	menu := config.NewMenu()
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read YAML file %s: %w", file, err)
		}
		m, err := l.LoadBytes(ctx, data, file)
		if err != nil {
			return nil, err
		}
		menu.Merge(m)
	}

	logger.Debug("YAML loading complete.", "entries", menu.Len())
	return menu, nil
}

// LoadBytes decodes a single in-memory YAML document.
func (l *Loader) LoadBytes(ctx context.Context, src []byte, filename string) (*config.Menu, error) {
	var root fileRoot
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)
	if err := dec.Decode(&root); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", filename, err)
	}

	menu := config.NewMenu()
	menu.RootEntries = translate(root.Roots, filename, false)
	menu.DecisionEntries = translate(root.Decisions, filename, true)
	menu.SortEntries = translate(root.Sorts, filename, false)
	menu.CountEntries = translate(root.Counts, filename, false)
	menu.InputEntries = translate(root.Inputs, filename, false)
	ctxlog.FromContext(ctx).Debug("Decoded YAML menu.", "file", filename, "entries", menu.Len())
	return menu, nil
}

// translate converts documents into entries. Trigger lines are only kept
// for decisions.
func translate(docs []algorithmDoc, origin string, withLines bool) []*config.Entry {
	if len(docs) == 0 {
		return nil
	}
	out := make([]*config.Entry, len(docs))
	for i, d := range docs {
		e := &config.Entry{
			Name:       d.Name,
			Class:      d.Class,
			Category:   d.Category,
			Inputs:     d.Inputs,
			Selector:   d.Selector,
			Parameters: d.Parameters,
			Origin:     origin,
		}
		for _, tl := range d.TriggerLines {
			if !withLines {
				break
			}
			pos := -1
			if tl.Position != nil {
				pos = *tl.Position
			}
			e.TriggerLines = append(e.TriggerLines, config.TriggerLine{Name: tl.Name, Position: pos})
		}
		out[i] = e
	}
	return out
}
