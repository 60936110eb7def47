package scheduler

import (
	"github.com/vk/dagsched/internal/trace"
	"github.com/vk/dagsched/internal/workflow"
)

// Schedule is the result of one scheduling run. It is created fresh per run
// and is read-only once returned.
type Schedule struct {
	// Machines is the machine count the run was asked for.
	Machines int
	// Order is the topological order the jobs were visited in. It is empty
	// for the no-op case.
	Order []workflow.JobID
	// Assignment maps each placed job to its machine index.
	Assignment map[workflow.JobID]int
	// Completion maps each placed job to its completion time.
	Completion map[workflow.JobID]int64
	// MachineFinish holds the time each machine becomes free.
	MachineFinish []int64
	// Makespan is the overall completion time of the workflow.
	Makespan int64
	// ClosedForm is true when the single-machine shortcut produced Makespan.
	// In that case Assignment and Completion are empty.
	ClosedForm bool
}

// MachineJobs returns the jobs placed on each machine, in placement order.
func (s *Schedule) MachineJobs() [][]workflow.JobID {
	if len(s.MachineFinish) == 0 {
		return nil
	}
	out := make([][]workflow.JobID, len(s.MachineFinish))
	for _, id := range s.Order {
		if m, ok := s.Assignment[id]; ok {
			out[m] = append(out[m], id)
		}
	}
	return out
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithTracer installs a tracer that receives every scheduling step.
func WithTracer(t trace.Tracer) Option {
	return func(s *Scheduler) {
		if t != nil {
			s.tracer = t
		}
	}
}
