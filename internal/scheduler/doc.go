// Package scheduler assigns the jobs of a workflow graph to a fixed number of
// identical machines with a greedy list-scheduling heuristic.
//
// # How It Works
//
// Jobs are visited once, in topological order. For each job:
//  1. Pick the machine with the smallest finish time (lowest index on ties).
//  2. For every predecessor p, compute max(completion(p), finish(m)) + weight(p -> job)
//     and keep the maximum as the earliest moment the job's inputs are available.
//  3. The job completes at that moment plus its duration; the machine becomes
//     free at max(that moment, finish(m)) plus the duration.
//
// A job without predecessors simply extends the chosen machine's finish time.
//
// # Known Limitations
//
//   - **Communication cost is always charged:** the edge weight is added even when
//     producer and consumer land on the same machine.
//   - **One machine is a closed form:** with a single machine the makespan is the sum
//     of all durations plus the sum of all edge weights. No placement is simulated,
//     so the result double-counts communication compared to a real serial run.
//   - **No machines is a no-op:** a machine count of zero or less yields an empty
//     schedule with makespan zero.
//
// The algorithm is a heuristic; it is deterministic but not optimal.
//
// # Thread-Safety
//
// A Scheduler holds no per-run state and may be shared. A single run is
// sequential and never mutates the graph; results live in the returned Schedule.
package scheduler
