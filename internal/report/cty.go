package report

import (
	"github.com/vk/dagsched/internal/workflow"
	"github.com/zclconf/go-cty/cty"
)

var rowType = cty.Object(map[string]cty.Type{
	"job":        cty.String,
	"machine":    cty.Number,
	"completion": cty.Number,
})

// ctyValue converts the report into a cty object.
func (r *Report) ctyValue() cty.Value {
	rows := cty.ListValEmpty(rowType)
	if len(r.Rows) > 0 {
		vals := make([]cty.Value, len(r.Rows))
		for i, row := range r.Rows {
			vals[i] = cty.ObjectVal(map[string]cty.Value{
				"job":        cty.StringVal(string(row.Job)),
				"machine":    cty.NumberIntVal(int64(row.Machine)),
				"completion": cty.NumberIntVal(row.Completion),
			})
		}
		rows = cty.ListVal(vals)
	}

	machineJobs := cty.ListValEmpty(cty.List(cty.String))
	if len(r.MachineJobs) > 0 && !r.ClosedForm {
		vals := make([]cty.Value, len(r.MachineJobs))
		for i, jobs := range r.MachineJobs {
			vals[i] = idList(jobs)
		}
		machineJobs = cty.ListVal(vals)
	}

	return cty.ObjectVal(map[string]cty.Value{
		"workflow":       cty.StringVal(r.Workflow),
		"machines":       cty.NumberIntVal(int64(r.Machines)),
		"makespan":       cty.NumberIntVal(r.Makespan),
		"closed_form":    cty.BoolVal(r.ClosedForm),
		"order":          idList(r.Order),
		"machine_finish": intList(r.MachineFinish),
		"machine_jobs":   machineJobs,
		"jobs":           rows,
	})
}

func idList(ids []workflow.JobID) cty.Value {
	if len(ids) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	vals := make([]cty.Value, len(ids))
	for i, id := range ids {
		vals[i] = cty.StringVal(string(id))
	}
	return cty.ListVal(vals)
}

func intList(ns []int64) cty.Value {
	if len(ns) == 0 {
		return cty.ListValEmpty(cty.Number)
	}
	vals := make([]cty.Value, len(ns))
	for i, n := range ns {
		vals[i] = cty.NumberIntVal(n)
	}
	return cty.ListVal(vals)
}
