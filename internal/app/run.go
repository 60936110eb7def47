package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vk/dagsched/internal/config"
	"github.com/vk/dagsched/internal/ctxlog"
	"github.com/vk/dagsched/internal/report"
	"github.com/vk/dagsched/internal/scheduler"
	"github.com/vk/dagsched/internal/trace"
)

// Run schedules every loaded workflow and renders one report per workflow in
// load order. Workflows are independent and scheduled concurrently, bounded
// by Config.Workers. The first failure cancels the rest.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	tracer, closeTracer, err := a.newTracer(ctx)
	if err != nil {
		return err
	}
	defer closeTracer()

	if len(a.model.Workflows) == 0 {
		a.logger.Warn("No workflows found, nothing to schedule.")
		return nil
	}

	reports := make([]*report.Report, len(a.model.Workflows))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.config.Workers)

	a.logger.Info("Scheduling workflows.", "count", len(a.model.Workflows), "workers", a.config.Workers)
	for i, wf := range a.model.Workflows {
		g.Go(func() error {
			r, err := a.scheduleWorkflow(gctx, wf, tracer)
			if err != nil {
				return fmt.Errorf("workflow %q: %w", wf.Name, err)
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := report.Render(a.outW, a.config.Output, reports...); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

// scheduleWorkflow builds a private graph for wf and schedules it.
func (a *App) scheduleWorkflow(ctx context.Context, wf *config.Workflow, tracer trace.Tracer) (*report.Report, error) {
	logger := ctxlog.FromContext(ctx).With("workflow", wf.Name)

	g, err := config.Build(wf)
	if err != nil {
		return nil, err
	}

	machines := wf.Machines
	if a.config.Machines != nil {
		machines = *a.config.Machines
	}
	if machines <= 0 {
		logger.Warn("No machines configured, nothing will be scheduled.", "source", wf.Source)
	}

	s := scheduler.New(scheduler.WithTracer(trace.WithWorkflow(wf.Name, tracer)))
	sched, err := s.Schedule(ctx, g, machines)
	if err != nil {
		return nil, err
	}

	r := report.Build(wf.Name, sched)
	logger.Info("Workflow scheduled.", "jobs", g.Len(), "machines", machines, "makespan", r.Makespan)
	return r, nil
}

// newTracer assembles the tracers requested by the configuration. The
// returned close function is always safe to call.
func (a *App) newTracer(ctx context.Context) (trace.Tracer, func(), error) {
	var tracers []trace.Tracer
	if a.config.Trace {
		tracers = append(tracers, trace.NewLog())
	}

	closeFn := func() {}
	if a.config.TraceURL != "" {
		pub, err := trace.DialSocketIO(ctx, trace.SocketIOConfig{
			URL:       a.config.TraceURL,
			Namespace: a.config.TraceNamespace,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to start trace publisher: %w", err)
		}
		tracers = append(tracers, pub)
		closeFn = func() {
			if err := pub.Close(); err != nil {
				a.logger.Warn("Trace publisher did not close cleanly.", "error", err)
			}
		}
	}

	return trace.Multi(tracers...), closeFn, nil
}
