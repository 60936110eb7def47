package trace

import (
	"context"
	"log/slog"

	"github.com/vk/dagsched/internal/ctxlog"
)

// Log writes events to the logger found in the context at the given level.
type Log struct {
	Level slog.Level
}

// NewLog returns a Log tracer writing at debug level.
func NewLog() *Log {
	return &Log{Level: slog.LevelDebug}
}

// Trace implements Tracer.
func (l *Log) Trace(ctx context.Context, ev Event) {
	logger := ctxlog.FromContext(ctx)
	if ev.Workflow != "" {
		logger = logger.With("workflow", ev.Workflow)
	}

	switch ev.Kind {
	case KindOrder:
		logger.Log(ctx, l.Level, "Topological order computed.", "order", ev.Order)
	case KindDependency:
		if ev.MissingEdge {
			logger.Warn("Predecessor has no edge to job, using zero weight.", "job", ev.Job, "predecessor", ev.Predecessor)
		}
		logger.Log(ctx, l.Level, "Dependency evaluated.",
			"job", ev.Job,
			"predecessor", ev.Predecessor,
			"finish_time", ev.Candidate,
			"max_dependency_finish_time", ev.MaxReady,
		)
	case KindPlacement:
		logger.Log(ctx, l.Level, "Job placed.",
			"job", ev.Job,
			"predecessors", ev.Predecessors,
			"machine", ev.Machine,
			"completion", ev.Completion,
			"machine_finish", ev.MachineFinish,
		)
	case KindFinished:
		logger.Log(ctx, l.Level, "Scheduling finished.", "machine_finish", ev.MachineFinish, "makespan", ev.Makespan)
	}
}
