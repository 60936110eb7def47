package scheduler

// Makespan reduces machine finish times to the overall completion time:
// the largest finish time, or 0 when there are no machines.
func Makespan(finish []int64) int64 {
	var makespan int64
	for _, f := range finish {
		makespan = max(makespan, f)
	}
	return makespan
}
