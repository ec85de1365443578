package event

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/zzalscv2/athena-atlas-sub040/internal/tob"
	"gopkg.in/yaml.v3"
)

type fileDocument struct {
	Events []eventDocument `yaml:"events"`
}

type eventDocument struct {
	Info        `yaml:",inline"`
	Collections map[string][]tob.TOB `yaml:"collections"`
}

// Decode reads an event file of the form
//
//	events:
//	  - run: 1
//	    event: 42
//	    collections:
//	      jJ: [{et: 30, eta: 4, phi: 10}]
func Decode(r io.Reader) ([]*Event, error) {
	var doc fileDocument
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}

	out := make([]*Event, 0, len(doc.Events))
	for i, d := range doc.Events {
		ev, err := New(d.Info, d.Collections)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		out = append(out, ev)
	}
	return out, nil
}

// ReadFile decodes the events stored in path.
func ReadFile(path string) ([]*Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open event file: %w", err)
	}
	defer f.Close()

	events, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return events, nil
}
