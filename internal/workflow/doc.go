// Package workflow holds the graph model consumed by the scheduler: jobs
// (vertices) with an execution duration and weighted dependency edges that
// carry the communication cost between a producing and a consuming job.
//
// # Lifecycle
//
//  1. **Construction:** a caller registers jobs with AddJob and wires them with
//     AddDependency. Both are safe to call concurrently.
//  2. **Scheduling:** the graph is read-only. The scheduler queries
//     PredecessorsOf and EdgeBetween but never mutates jobs; completion times
//     are returned in a separate result.
//
// Acyclicity is not enforced here. A cycle is reported by the topological
// sorter and the scheduler refuses to run on such a graph.
package workflow
