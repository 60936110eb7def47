// Package topo orders the jobs of a workflow graph so that every producer
// comes before each of its consumers.
package topo

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/vk/dagsched/internal/workflow"
)

// ErrCyclicGraph is matched by errors.Is for every *CyclicGraphError.
var ErrCyclicGraph = errors.New("graph contains a cycle")

// CyclicGraphError reports a graph that cannot be ordered completely.
type CyclicGraphError struct {
	// Ordered is the number of jobs placed before the sort got stuck.
	Ordered int
	// Total is the number of jobs in the graph.
	Total int
	// Remaining holds the jobs that never reached in-degree zero, ascending.
	Remaining []workflow.JobID
}

func (e *CyclicGraphError) Error() string {
	return fmt.Sprintf("graph contains a cycle: %d of %d jobs ordered, unresolved: %v", e.Ordered, e.Total, e.Remaining)
}

// Is reports whether target is ErrCyclicGraph.
func (e *CyclicGraphError) Is(target error) bool {
	return target == ErrCyclicGraph
}

// Order runs Kahn's algorithm over g. Jobs with no incoming edges seed the
// queue in ascending id order; a consumer is enqueued as soon as its last
// incoming edge has been consumed, following the producer's edge order.
//
// For a cyclic graph the returned slice is shorter than g.Len().
func Order(g *workflow.Graph) []workflow.JobID {
	jobs := g.Jobs()

	inDegree := make(map[workflow.JobID]int, len(jobs))
	for _, j := range jobs {
		for _, e := range j.Outputs {
			inDegree[e.To]++
		}
	}

	queue := make([]*workflow.Job, 0, len(jobs))
	for _, j := range jobs {
		if inDegree[j.ID] == 0 {
			queue = append(queue, j)
		}
	}

	order := make([]workflow.JobID, 0, len(jobs))
	for len(queue) > 0 {
		j := queue[0]
		queue = queue[1:]
		order = append(order, j.ID)

		for _, e := range j.Outputs {
			inDegree[e.To]--
			if inDegree[e.To] == 0 {
				next, _ := g.Job(e.To)
				queue = append(queue, next)
			}
		}
	}
	return order
}

// Sort is Order with the completeness check: a graph that cannot be fully
// ordered yields a *CyclicGraphError and no order.
func Sort(g *workflow.Graph) ([]workflow.JobID, error) {
	order := Order(g)
	total := g.Len()
	if len(order) == total {
		return order, nil
	}

	seen := make(map[workflow.JobID]struct{}, len(order))
	for _, id := range order {
		seen[id] = struct{}{}
	}
	var remaining []workflow.JobID
	for _, j := range g.Jobs() {
		if _, ok := seen[j.ID]; !ok {
			remaining = append(remaining, j.ID)
		}
	}
	return nil, &CyclicGraphError{Ordered: len(order), Total: total, Remaining: remaining}
}

// Validate checks g for cycles with a depth-first search and returns a
// *CyclicGraphError naming the jobs of the first cycle found. Jobs are
// visited in ascending id order so the reported cycle is stable.
func Validate(g *workflow.Graph) error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[workflow.JobID]int)
	var stack []workflow.JobID

	var visit func(j *workflow.Job) []workflow.JobID
	visit = func(j *workflow.Job) []workflow.JobID {
		color[j.ID] = gray
		stack = append(stack, j.ID)

		for _, e := range j.Outputs {
			switch color[e.To] {
			case gray:
				// The cycle is the stack suffix starting at the revisited job.
				start := slices.Index(stack, e.To)
				return slices.Clone(stack[start:])
			case white:
				next, _ := g.Job(e.To)
				if cycle := visit(next); cycle != nil {
					return cycle
				}
			}
		}

		stack = stack[:len(stack)-1]
		color[j.ID] = black
		return nil
	}

	jobs := g.Jobs()
	for _, j := range jobs {
		if color[j.ID] != white {
			continue
		}
		if cycle := visit(j); cycle != nil {
			slices.SortFunc(cycle, func(a, b workflow.JobID) int {
				return strings.Compare(string(a), string(b))
			})
			return &CyclicGraphError{Total: len(jobs), Remaining: cycle}
		}
	}
	return nil
}
