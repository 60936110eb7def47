// Package trace carries the optional narration of a scheduling run: the
// computed order, every predecessor evaluated for a job, each placement and
// the final machine finish times. The scheduler emits events; sinks decide
// how to render or ship them.
package trace

import (
	"context"
	"slices"
	"sync"

	"github.com/vk/dagsched/internal/workflow"
)

// Kind names the stage of a scheduling run an Event belongs to.
type Kind string

const (
	KindOrder      Kind = "order"
	KindDependency Kind = "dependency"
	KindPlacement  Kind = "placement"
	KindFinished   Kind = "finished"
)

// Event is a single trace record. Only the fields relevant to Kind are set.
type Event struct {
	Kind Kind
	// Workflow is filled in by WithWorkflow; the scheduler leaves it empty.
	Workflow string

	// KindOrder.
	Order []workflow.JobID

	// KindDependency: the candidate ready time contributed by Predecessor and
	// the running maximum over the predecessors seen so far.
	Job         workflow.JobID
	Predecessor workflow.JobID
	Candidate   int64
	MaxReady    int64
	// MissingEdge is set when Predecessor has no edge to Job.
	MissingEdge bool

	// KindPlacement.
	Predecessors []workflow.JobID
	Machine      int
	Completion   int64

	// KindPlacement and KindFinished.
	MachineFinish []int64
	Makespan      int64
}

// Tracer receives scheduling events. Implementations must not retain the
// slices of an Event past the call.
type Tracer interface {
	Trace(ctx context.Context, ev Event)
}

// Func adapts an ordinary function to the Tracer interface.
type Func func(ctx context.Context, ev Event)

// Trace calls f(ctx, ev).
func (f Func) Trace(ctx context.Context, ev Event) { f(ctx, ev) }

// Nop discards every event.
var Nop Tracer = Func(func(context.Context, Event) {})

// Multi fans every event out to each non-nil tracer in order.
func Multi(tracers ...Tracer) Tracer {
	var ts []Tracer
	for _, t := range tracers {
		if t != nil {
			ts = append(ts, t)
		}
	}
	switch len(ts) {
	case 0:
		return Nop
	case 1:
		return ts[0]
	}
	return Func(func(ctx context.Context, ev Event) {
		for _, t := range ts {
			t.Trace(ctx, ev)
		}
	})
}

// WithWorkflow stamps every event with the given workflow name before
// passing it on.
func WithWorkflow(name string, next Tracer) Tracer {
	return Func(func(ctx context.Context, ev Event) {
		ev.Workflow = name
		next.Trace(ctx, ev)
	})
}

// Recorder keeps a copy of every event. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Trace implements Tracer.
func (r *Recorder) Trace(_ context.Context, ev Event) {
	ev.Order = slices.Clone(ev.Order)
	ev.Predecessors = slices.Clone(ev.Predecessors)
	ev.MachineFinish = slices.Clone(ev.MachineFinish)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns the recorded events, optionally filtered by kind.
func (r *Recorder) Events(kinds ...Kind) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Event
	for _, ev := range r.events {
		if len(kinds) == 0 || slices.Contains(kinds, ev.Kind) {
			out = append(out, ev)
		}
	}
	return out
}

