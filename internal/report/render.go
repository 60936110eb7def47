package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/vk/dagsched/internal/workflow"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Format selects a renderer.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatHCL  Format = "hcl"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatHCL:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q: must be 'text', 'json' or 'hcl'", s)
}

// Render writes the reports to w in the requested format.
func Render(w io.Writer, format Format, reports ...*Report) error {
	switch format {
	case FormatText:
		return renderText(w, reports)
	case FormatJSON:
		return renderJSON(w, reports)
	case FormatHCL:
		return renderHCL(w, reports)
	}
	return fmt.Errorf("unknown output format %q", format)
}

func renderText(w io.Writer, reports []*Report) error {
	var b strings.Builder
	for i, r := range reports {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Workflow %s (%d machines)\n", r.Workflow, r.Machines)
		if len(r.Order) > 0 {
			fmt.Fprintf(&b, "Topological sort (job execution order): %s\n", joinIDs(r.Order))
		}

		switch {
		case r.Machines <= 0:
			b.WriteString("No machines available, nothing was scheduled.\n")
		case r.ClosedForm:
			b.WriteString("Single machine: makespan is the sum of all durations and edge weights.\n")
		default:
			for m, jobs := range r.MachineJobs {
				fmt.Fprintf(&b, "Machine %d scheduled jobs: %s\n", m+1, joinIDs(jobs))
			}
			b.WriteString("\nJob completion times:\n")
			for _, row := range r.Rows {
				fmt.Fprintf(&b, "  %s: %d (machine %d)\n", row.Job, row.Completion, row.Machine+1)
			}
		}

		fmt.Fprintf(&b, "\nMinimum execution time of entire workflow: %d\n", r.Makespan)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func joinIDs(ids []workflow.JobID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// renderJSON encodes the reports as an array through cty so that the JSON
// and HCL outputs share one value model.
func renderJSON(w io.Writer, reports []*Report) error {
	vals := make([]cty.Value, len(reports))
	for i, r := range reports {
		vals[i] = r.ctyValue()
	}
	list := cty.EmptyTupleVal
	if len(vals) > 0 {
		list = cty.TupleVal(vals)
	}

	raw, err := ctyjson.SimpleJSONValue{Value: list}.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return fmt.Errorf("failed to indent report: %w", err)
	}
	out.WriteByte('\n')
	_, err = out.WriteTo(w)
	return err
}

func renderHCL(w io.Writer, reports []*Report) error {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	for i, r := range reports {
		if i > 0 {
			root.AppendNewline()
		}
		block := root.AppendNewBlock("schedule", []string{r.Workflow})
		body := block.Body()
		body.SetAttributeValue("machines", cty.NumberIntVal(int64(r.Machines)))
		body.SetAttributeValue("makespan", cty.NumberIntVal(r.Makespan))
		body.SetAttributeValue("closed_form", cty.BoolVal(r.ClosedForm))
		body.SetAttributeValue("order", idList(r.Order))
		body.SetAttributeValue("machine_finish", intList(r.MachineFinish))

		if r.ClosedForm {
			continue
		}
		for m, jobs := range r.MachineJobs {
			body.AppendNewline()
			mb := body.AppendNewBlock("machine", []string{strconv.Itoa(m)}).Body()
			mb.SetAttributeValue("finish", cty.NumberIntVal(r.MachineFinish[m]))
			mb.SetAttributeValue("jobs", idList(jobs))
		}
		for _, row := range r.Rows {
			body.AppendNewline()
			jb := body.AppendNewBlock("job", []string{string(row.Job)}).Body()
			jb.SetAttributeValue("machine", cty.NumberIntVal(int64(row.Machine)))
			jb.SetAttributeValue("completion", cty.NumberIntVal(row.Completion))
		}
	}

	_, err := f.WriteTo(w)
	return err
}
