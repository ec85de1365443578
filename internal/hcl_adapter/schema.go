// This file contains the Go structs that define the HCL schema of a trigger
// menu file. They are decoded by gohcl and then translated into the
// format-agnostic config model.

package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any
// file. Anything else at the top level is a decode error.
type fileRoot struct {
	Roots     []*AlgorithmBlock `hcl:"root,block"`
	Inputs    []*AlgorithmBlock `hcl:"input,block"`
	Sorts     []*AlgorithmBlock `hcl:"sort,block"`
	Counts    []*AlgorithmBlock `hcl:"count,block"`
	Decisions []*AlgorithmBlock `hcl:"decision,block"`
}

// AlgorithmBlock is one `<kind> "<Class>" "<name>" { ... }` block.
type AlgorithmBlock struct {
	Class        string              `hcl:"class,label"`
	Name         string              `hcl:"name,label"`
	Category     string              `hcl:"category,optional"`
	Inputs       []string            `hcl:"inputs,optional"`
	Selector     string              `hcl:"selector,optional"`
	Parameters   hcl.Expression      `hcl:"parameters,optional"`
	TriggerLines []*TriggerLineBlock `hcl:"trigger_line,block"`
}

// TriggerLineBlock maps to `trigger_line "<name>" { position = N }`.
type TriggerLineBlock struct {
	Name     string `hcl:"name,label"`
	Position *int   `hcl:"position,optional"`
}
