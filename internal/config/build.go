package config

import (
	"fmt"

	"github.com/vk/dagsched/internal/topo"
	"github.com/vk/dagsched/internal/workflow"
)

// Build turns a workflow definition into a fresh graph. Jobs are registered in
// declaration order first, then each job's dependencies are wired in the
// order they are listed, so a producer's outgoing edges follow the order in
// which its consumers were declared. A cyclic definition fails with a
// *topo.CyclicGraphError naming the jobs of the cycle.
func Build(wf *Workflow) (*workflow.Graph, error) {
	g := workflow.New()
	for _, j := range wf.Jobs {
		if err := g.AddJob(workflow.JobID(j.ID), j.Duration); err != nil {
			return nil, fmt.Errorf("workflow %q (%s): %w", wf.Name, j.Source, err)
		}
	}
	for _, j := range wf.Jobs {
		for _, dep := range j.DependsOn {
			if err := g.AddDependency(workflow.JobID(dep.From), workflow.JobID(j.ID), dep.Weight); err != nil {
				return nil, fmt.Errorf("workflow %q (%s): job %q depends_on: %w", wf.Name, j.Source, j.ID, err)
			}
		}
	}
	if err := topo.Validate(g); err != nil {
		return nil, fmt.Errorf("workflow %q (%s): %w", wf.Name, wf.Source, err)
	}
	return g, nil
}
