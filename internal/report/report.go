// Package report turns a finished schedule into a read-only summary and
// renders it for humans (text) or machines (JSON, HCL).
package report

import (
	"slices"
	"strings"

	"github.com/vk/dagsched/internal/scheduler"
	"github.com/vk/dagsched/internal/workflow"
)

// Row is one line of the per-job completion table.
type Row struct {
	Job        workflow.JobID
	Machine    int
	Completion int64
}

// Report summarizes a single scheduling run.
type Report struct {
	Workflow      string
	Machines      int
	Order         []workflow.JobID
	Rows          []Row
	MachineJobs   [][]workflow.JobID
	MachineFinish []int64
	Makespan      int64
	ClosedForm    bool
}

// Build summarizes s. Rows are sorted by job id and only cover placed jobs,
// so a closed-form or no-op schedule has none.
func Build(name string, s *scheduler.Schedule) *Report {
	r := &Report{
		Workflow:      name,
		Machines:      s.Machines,
		Order:         slices.Clone(s.Order),
		MachineJobs:   s.MachineJobs(),
		MachineFinish: slices.Clone(s.MachineFinish),
		Makespan:      scheduler.Makespan(s.MachineFinish),
		ClosedForm:    s.ClosedForm,
	}

	for id, m := range s.Assignment {
		r.Rows = append(r.Rows, Row{Job: id, Machine: m, Completion: s.Completion[id]})
	}
	slices.SortFunc(r.Rows, func(a, b Row) int {
		return strings.Compare(string(a.Job), string(b.Job))
	})
	return r
}
