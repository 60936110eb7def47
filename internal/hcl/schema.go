package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all top-level blocks from any file.
// Unknown blocks and attributes are rejected by the decoder.
type fileRoot struct {
	Variables []*Variable `hcl:"variable,block"`
	Workflows []*Workflow `hcl:"workflow,block"`
}

// Variable is a named value reachable from expressions as `var.<name>`.
type Variable struct {
	Name        string         `hcl:"name,label"`
	Default     hcl.Expression `hcl:"default,optional"`
	Description string         `hcl:"description,optional"`
}

// Workflow is the HCL schema of a `workflow` block.
type Workflow struct {
	Name        string         `hcl:"name,label"`
	Machines    hcl.Expression `hcl:"machines,optional"`
	Description string         `hcl:"description,optional"`
	Jobs        []*Job         `hcl:"job,block"`
}

// Job is the HCL schema of a `job` block.
type Job struct {
	ID          string         `hcl:"id,label"`
	Duration    hcl.Expression `hcl:"duration"`
	DependsOn   hcl.Expression `hcl:"depends_on,optional"`
	Description string         `hcl:"description,optional"`
}
