package workflow

import (
	"fmt"
	"slices"
	"strings"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		jobs: make(map[JobID]*Job),
	}
}

// AddJob registers a new job. Registering an id twice fails with a
// *DuplicateJobError and leaves the existing job untouched.
func (g *Graph) AddJob(id JobID, duration int64) error {
	if duration < 0 {
		return fmt.Errorf("job %q: duration %d: %w", id, duration, ErrNegativeValue)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.jobs[id]; ok {
		return &DuplicateJobError{ID: id}
	}

	g.jobs[id] = &Job{ID: id, Duration: duration}
	return nil
}

// AddDependency appends a directed edge from the producer to the consumer.
// Both jobs must already exist. Parallel edges are kept as separate entries;
// EdgeBetween resolves them to the first one added.
func (g *Graph) AddDependency(from, to JobID, weight int64) error {
	if weight < 0 {
		return fmt.Errorf("dependency %q -> %q: weight %d: %w", from, to, weight, ErrNegativeValue)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	producer, ok := g.jobs[from]
	if !ok {
		return &UnknownJobError{ID: from, Role: "producer"}
	}
	if _, ok := g.jobs[to]; !ok {
		return &UnknownJobError{ID: to, Role: "consumer"}
	}

	producer.Outputs = append(producer.Outputs, Dependency{From: from, To: to, Weight: weight})
	return nil
}

// Job returns a copy of the job registered under id. Changing the copy does
// not affect the graph.
func (g *Graph) Job(id JobID) (*Job, bool) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	j, ok := g.jobs[id]
	if !ok {
		return nil, false
	}
	return j.clone(), true
}

// Len returns the number of jobs in the graph.
func (g *Graph) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.jobs)
}

// Jobs returns a copy of every job in ascending id order.
func (g *Graph) Jobs() []*Job {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return g.sortedJobs()
}

// sortedJobs returns copies and must be called with the read lock held.
func (g *Graph) sortedJobs() []*Job {
	jobs := make([]*Job, 0, len(g.jobs))
	for _, j := range g.jobs {
		jobs = append(jobs, j.clone())
	}
	slices.SortFunc(jobs, func(a, b *Job) int {
		return strings.Compare(string(a.ID), string(b.ID))
	})
	return jobs
}

// PredecessorsOf returns every job with an outgoing edge to id, scanning
// producers in ascending id order. A producer with several parallel edges to
// id is listed once per edge. Unknown ids have no predecessors.
func (g *Graph) PredecessorsOf(id JobID) []*Job {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	var preds []*Job
	for _, j := range g.sortedJobs() {
		for _, e := range j.Outputs {
			if e.To == id {
				preds = append(preds, j)
			}
		}
	}
	return preds
}

// EdgeBetween returns the first edge from producer to consumer. The boolean is
// false when no such edge exists.
func (g *Graph) EdgeBetween(from, to JobID) (Dependency, bool) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	producer, ok := g.jobs[from]
	if !ok {
		return Dependency{}, false
	}
	for _, e := range producer.Outputs {
		if e.To == to {
			return e, true
		}
	}
	return Dependency{}, false
}

// Dependencies returns all edges, grouped by producer in ascending id order
// and in insertion order within a producer.
func (g *Graph) Dependencies() []Dependency {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	var deps []Dependency
	for _, j := range g.sortedJobs() {
		deps = append(deps, j.Outputs...)
	}
	return deps
}

// TotalDuration is the sum of all job durations.
func (g *Graph) TotalDuration() int64 {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	var total int64
	for _, j := range g.jobs {
		total += j.Duration
	}
	return total
}

// TotalWeight is the sum of all edge weights, parallel edges included.
func (g *Graph) TotalWeight() int64 {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	var total int64
	for _, j := range g.jobs {
		for _, e := range j.Outputs {
			total += e.Weight
		}
	}
	return total
}
