package trace

import "github.com/vk/dagsched/internal/workflow"

func idStrings(ids []workflow.JobID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
