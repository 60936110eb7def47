package workflow

import (
	"slices"
	"sync"
)

// JobID identifies a job. IDs are totally ordered by plain string comparison,
// which fixes the order in which ties are broken during sorting.
type JobID string

// Job is a schedulable unit of work.
type Job struct {
	// ID is the unique identifier of the job.
	ID JobID
	// Duration is the execution time of the job on any machine.
	Duration int64
	// Outputs lists outgoing dependency edges in the order they were added.
	Outputs []Dependency
}

func (j *Job) clone() *Job {
	c := *j
	c.Outputs = slices.Clone(j.Outputs)
	return &c
}

// Dependency is a directed producer -> consumer edge. The consumer cannot be
// considered ready before the producer has finished and Weight time units of
// communication delay have elapsed.
type Dependency struct {
	From   JobID
	To     JobID
	Weight int64
}

// Graph is a collection of jobs and their dependencies.
// All operations on the graph are concurrency-safe.
type Graph struct {
	// mutex protects jobs during concurrent construction.
	mutex sync.RWMutex
	// jobs stores all jobs, keyed by their unique ID.
	jobs map[JobID]*Job
}
