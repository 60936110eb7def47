package config

// Model is the unified representation of all loaded workflow definitions.
type Model struct {
	// Workflows keeps the order in which definitions were discovered.
	Workflows []*Workflow
}

// Workflow is a single DAG of jobs to be scheduled.
type Workflow struct {
	Name string
	// Machines is the machine count declared by the definition. Zero means
	// the definition left it to the caller.
	Machines int
	Jobs     []*Job
	// Source points at the definition, e.g. "examples/one.hcl:1,1-20".
	Source string
}

// Job is the format-agnostic representation of a `job` block.
type Job struct {
	ID       string
	Duration int64
	// DependsOn lists the producers this job consumes from.
	DependsOn []Dependency
	Source    string
}

// Dependency is an incoming edge of a Job.
type Dependency struct {
	From   string
	Weight int64
}

// Workflow returns the workflow with the given name.
func (m *Model) Workflow(name string) (*Workflow, bool) {
	for _, wf := range m.Workflows {
		if wf.Name == name {
			return wf, true
		}
	}
	return nil, false
}
