// This file contains the logic for translating HCL schema structs into the
// format-agnostic configuration model defined in the config package.

package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/dagsched/internal/config"
	"github.com/vk/dagsched/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// translateWorkflow converts the HCL-specific workflow schema into the agnostic model.
func (l *Loader) translateWorkflow(ctx context.Context, path string, w *Workflow, evalCtx *hcl.EvalContext) (*config.Workflow, error) {
	logger := ctxlog.FromContext(ctx).With("workflow", w.Name)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Translating HCL workflow to internal config model.", "jobs", len(w.Jobs))

	wf := &config.Workflow{
		Name:   w.Name,
		Source: path,
		Jobs:   make([]*config.Job, 0, len(w.Jobs)),
	}

	if isExprDefined(ctx, w.Machines, "machines") {
		machines, err := evalWholeNumber(w.Machines, evalCtx)
		if err != nil {
			return nil, fmt.Errorf("workflow %q: machines: %w", w.Name, err)
		}
		wf.Machines = int(machines)
	} else {
		logger.Debug("`machines` attribute is not defined. Leaving it to the caller.")
	}

	for _, j := range w.Jobs {
		job, err := l.translateJob(ctx, j, evalCtx)
		if err != nil {
			return nil, fmt.Errorf("workflow %q: %w", w.Name, err)
		}
		wf.Jobs = append(wf.Jobs, job)
	}
	return wf, nil
}

// translateJob converts a single `job` block.
func (l *Loader) translateJob(ctx context.Context, j *Job, evalCtx *hcl.EvalContext) (*config.Job, error) {
	if !isExprDefined(ctx, j.Duration, "duration") {
		return nil, fmt.Errorf("job %q: duration is required", j.ID)
	}
	duration, err := evalWholeNumber(j.Duration, evalCtx)
	if err != nil {
		return nil, fmt.Errorf("job %q: duration: %w", j.ID, err)
	}

	job := &config.Job{
		ID:       j.ID,
		Duration: duration,
		Source:   j.Duration.Range().String(),
	}

	if !isExprDefined(ctx, j.DependsOn, "depends_on") {
		return job, nil
	}

	deps, err := evalDependsOn(j.DependsOn, evalCtx)
	if err != nil {
		return nil, fmt.Errorf("job %q: depends_on: %w", j.ID, err)
	}
	job.DependsOn = deps
	return job, nil
}

// evalDependsOn evaluates a `{ producer = weight }` object. Producers are
// returned in ascending key order, the iteration order of cty maps.
func evalDependsOn(expr hcl.Expression, evalCtx *hcl.EvalContext) ([]config.Dependency, error) {
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("expected an object of producer = weight, got %s", val.Type().FriendlyName())
	}
	if val.LengthInt() == 0 {
		return nil, nil
	}

	weights, err := convert.Convert(val, cty.Map(cty.Number))
	if err != nil {
		return nil, fmt.Errorf("weights must be numbers: %w", err)
	}

	deps := make([]config.Dependency, 0, weights.LengthInt())
	for it := weights.ElementIterator(); it.Next(); {
		k, v := it.Element()
		from := k.AsString()
		w, err := wholeNumber(v)
		if err != nil {
			return nil, fmt.Errorf("weight of %q: %w", from, err)
		}
		deps = append(deps, config.Dependency{From: from, Weight: w})
	}
	return deps, nil
}
