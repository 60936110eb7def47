package scheduler

import (
	"context"
	"fmt"
	"slices"

	"github.com/vk/dagsched/internal/ctxlog"
	"github.com/vk/dagsched/internal/topo"
	"github.com/vk/dagsched/internal/trace"
	"github.com/vk/dagsched/internal/workflow"
)

// Scheduler is the greedy list scheduler.
type Scheduler struct {
	tracer trace.Tracer
}

// New creates a scheduler. Without options no trace is emitted.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{tracer: trace.Nop}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule places every job of g on one of machines identical machines.
//
// A cyclic graph fails with a *topo.CyclicGraphError before any placement is
// made. ctx is checked between jobs; a cancelled run returns no schedule.
func (s *Scheduler) Schedule(ctx context.Context, g *workflow.Graph, machines int) (*Schedule, error) {
	logger := ctxlog.FromContext(ctx).With("machines", machines, "jobs", g.Len())

	if machines <= 0 {
		logger.Debug("No machines available, scheduling is a no-op.")
		return &Schedule{
			Machines:      machines,
			Assignment:    map[workflow.JobID]int{},
			Completion:    map[workflow.JobID]int64{},
			MachineFinish: []int64{},
		}, nil
	}

	order, err := topo.Sort(g)
	if err != nil {
		return nil, fmt.Errorf("cannot schedule: %w", err)
	}
	s.tracer.Trace(ctx, trace.Event{Kind: trace.KindOrder, Order: order})

	if machines == 1 {
		makespan := g.TotalDuration() + g.TotalWeight()
		logger.Debug("Single machine, using closed-form makespan.", "makespan", makespan)
		sched := &Schedule{
			Machines:      1,
			Order:         order,
			Assignment:    map[workflow.JobID]int{},
			Completion:    map[workflow.JobID]int64{},
			MachineFinish: []int64{makespan},
			Makespan:      makespan,
			ClosedForm:    true,
		}
		s.tracer.Trace(ctx, trace.Event{Kind: trace.KindFinished, MachineFinish: sched.MachineFinish, Makespan: makespan})
		return sched, nil
	}

	pass := &run{
		graph:      g,
		tracer:     s.tracer,
		finish:     make([]int64, machines),
		completion: make(map[workflow.JobID]int64, len(order)),
		assignment: make(map[workflow.JobID]int, len(order)),
	}
	for _, id := range order {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("scheduling interrupted before job %q: %w", id, err)
		}
		pass.place(ctx, id)
	}

	sched := &Schedule{
		Machines:      machines,
		Order:         order,
		Assignment:    pass.assignment,
		Completion:    pass.completion,
		MachineFinish: pass.finish,
		Makespan:      Makespan(pass.finish),
	}
	s.tracer.Trace(ctx, trace.Event{Kind: trace.KindFinished, MachineFinish: sched.MachineFinish, Makespan: sched.Makespan})
	logger.Debug("Scheduling finished.", "makespan", sched.Makespan)
	return sched, nil
}

// run is the mutable state of a single scheduling pass.
type run struct {
	graph      *workflow.Graph
	tracer     trace.Tracer
	finish     []int64
	completion map[workflow.JobID]int64
	assignment map[workflow.JobID]int
}

// place assigns one job, already known to have all predecessors placed.
func (r *run) place(ctx context.Context, id workflow.JobID) {
	job, _ := r.graph.Job(id)
	m := EarliestMachine(r.finish)
	preds := r.graph.PredecessorsOf(id)

	if len(preds) == 0 {
		r.finish[m] += job.Duration
		r.completion[id] = r.finish[m]
	} else {
		var maxReady int64
		for _, p := range preds {
			edge, ok := r.graph.EdgeBetween(p.ID, id)
			candidate := max(r.completion[p.ID], r.finish[m]) + edge.Weight
			maxReady = max(maxReady, candidate)
			r.tracer.Trace(ctx, trace.Event{
				Kind:        trace.KindDependency,
				Job:         id,
				Predecessor: p.ID,
				Candidate:   candidate,
				MaxReady:    maxReady,
				MissingEdge: !ok,
			})
		}
		r.finish[m] = max(maxReady, r.finish[m]) + job.Duration
		r.completion[id] = maxReady + job.Duration
	}
	r.assignment[id] = m

	predIDs := make([]workflow.JobID, len(preds))
	for i, p := range preds {
		predIDs[i] = p.ID
	}
	r.tracer.Trace(ctx, trace.Event{
		Kind:          trace.KindPlacement,
		Job:           id,
		Predecessors:  predIDs,
		Machine:       m,
		Completion:    r.completion[id],
		MachineFinish: slices.Clone(r.finish),
	})
}

// EarliestMachine returns the index of the machine with the smallest finish
// time. The first minimum wins.
func EarliestMachine(finish []int64) int {
	earliest := 0
	for i := 1; i < len(finish); i++ {
		if finish[i] < finish[earliest] {
			earliest = i
		}
	}
	return earliest
}
