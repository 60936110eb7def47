package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/dagsched/internal/topo"
	"github.com/vk/dagsched/internal/trace"
	"github.com/vk/dagsched/internal/workflow"
)

func TestSchedule_SingleMachineClosedForm(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	g := chain.build(t)

	// --- Act ---
	s, err := New().Schedule(context.Background(), g, 1)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, int64(19), s.Makespan, "5+3+8 durations plus 2+1 weights")
	assert.True(t, s.ClosedForm)
	assert.Empty(t, s.Assignment)
	assert.Empty(t, s.Completion)
	assert.Equal(t, []int64{19}, s.MachineFinish)
}

func TestSchedule_ChainWithAmpleMachines(t *testing.T) {
	t.Parallel()

	for _, machines := range []int{3, 4, 8} {
		s, err := New().Schedule(context.Background(), chain.build(t), machines)
		require.NoError(t, err)

		assert.Equal(t, map[workflow.JobID]int64{"A": 5, "B": 10, "C": 19}, s.Completion)
		assert.Equal(t, map[workflow.JobID]int{"A": 0, "B": 1, "C": 2}, s.Assignment)
		assert.Equal(t, int64(19), s.Makespan)
		assert.Len(t, s.MachineFinish, machines)
		assert.False(t, s.ClosedForm)
	}
}

func TestSchedule_NoMachinesIsNoop(t *testing.T) {
	t.Parallel()

	for _, machines := range []int{0, -1, -42} {
		s, err := New().Schedule(context.Background(), exampleOne.build(t), machines)
		require.NoError(t, err)
		assert.Zero(t, s.Makespan)
		assert.Empty(t, s.Assignment)
		assert.Empty(t, s.Completion)
		assert.Empty(t, s.Order)
	}
}

func TestSchedule_CyclicGraphFails(t *testing.T) {
	t.Parallel()

	cyclic := fixture{
		jobs:  []job{{"A", 1}, {"B", 2}, {"C", 3}},
		edges: []edge{{"A", "B", 1}, {"B", "C", 1}, {"C", "B", 1}},
	}

	for _, machines := range []int{1, 2, 3} {
		rec := &trace.Recorder{}
		s, err := New(WithTracer(rec)).Schedule(context.Background(), cyclic.build(t), machines)

		require.Error(t, err)
		assert.Nil(t, s, "no partial schedule may be returned")
		assert.ErrorIs(t, err, topo.ErrCyclicGraph)

		var cycErr *topo.CyclicGraphError
		require.True(t, errors.As(err, &cycErr))
		assert.Equal(t, []workflow.JobID{"B", "C"}, cycErr.Remaining)
		assert.Empty(t, rec.Events(trace.KindPlacement))
	}
}

func TestSchedule_ReferenceExamples(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		fixture  fixture
		machines int
		makespan int64
		finish   []int64
	}{
		{exampleOne, 1, 53, []int64{53}},
		{exampleOne, 2, 39, []int64{34, 39}},
		{exampleOne, 3, 36, []int64{36, 31, 22}},
		{exampleTwo, 1, 75, []int64{75}},
		{exampleTwo, 2, 34, []int64{32, 34}},
		{exampleTwo, 3, 30, []int64{30, 20, 27}},
		{exampleThree, 1, 71, []int64{71}},
		{exampleThree, 2, 38, []int64{38, 33}},
		{exampleThree, 3, 28, []int64{28, 28, 28}},
		{exampleThree, 4, 23, []int64{18, 23, 23, 23}},
	}

	for _, tc := range testCases {
		t.Run(tc.fixture.name, func(t *testing.T) {
			s, err := New().Schedule(context.Background(), tc.fixture.build(t), tc.machines)
			require.NoError(t, err)
			assert.Equal(t, tc.makespan, s.Makespan, "machines=%d", tc.machines)
			assert.Equal(t, tc.finish, s.MachineFinish, "machines=%d", tc.machines)
		})
	}
}

func TestSchedule_ExampleOneOnTwoMachines(t *testing.T) {
	t.Parallel()

	s, err := New().Schedule(context.Background(), exampleOne.build(t), 2)
	require.NoError(t, err)

	wantCompletion := map[workflow.JobID]int64{
		"A": 5, "B": 3, "C": 11, "D": 20, "E": 25, "F": 25, "G": 34, "H": 39,
	}
	wantAssignment := map[workflow.JobID]int{
		"A": 0, "B": 1, "C": 1, "D": 0, "E": 1, "F": 0, "G": 0, "H": 1,
	}
	if diff := cmp.Diff(wantCompletion, s.Completion); diff != "" {
		t.Errorf("completion mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantAssignment, s.Assignment); diff != "" {
		t.Errorf("assignment mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, [][]workflow.JobID{{"A", "D", "F", "G"}, {"B", "C", "E", "H"}}, s.MachineJobs())
}

func TestSchedule_CompletionRespectsDependencies(t *testing.T) {
	t.Parallel()

	for _, f := range allFixtures {
		for machines := 2; machines <= 5; machines++ {
			g := f.build(t)
			s, err := New().Schedule(context.Background(), g, machines)
			require.NoError(t, err)

			require.Len(t, s.Completion, g.Len())
			for _, d := range g.Dependencies() {
				consumer, _ := g.Job(d.To)
				assert.GreaterOrEqual(t, s.Completion[d.To], s.Completion[d.From]+d.Weight+consumer.Duration,
					"%s: %s -> %s on %d machines", f.name, d.From, d.To, machines)
			}
		}
	}
}

func TestSchedule_Deterministic(t *testing.T) {
	t.Parallel()

	for _, f := range allFixtures {
		for machines := 1; machines <= 4; machines++ {
			first, err := New().Schedule(context.Background(), f.build(t), machines)
			require.NoError(t, err)
			second, err := New().Schedule(context.Background(), f.build(t), machines)
			require.NoError(t, err)

			if diff := cmp.Diff(first, second); diff != "" {
				t.Errorf("%s on %d machines differs between runs (-first +second):\n%s", f.name, machines, diff)
			}
		}
	}
}

func TestSchedule_MoreMachinesNeverIncreaseMakespan(t *testing.T) {
	t.Parallel()

	for _, f := range allFixtures {
		g := f.build(t)
		prev := int64(-1)
		for machines := 1; machines <= 6; machines++ {
			s, err := New().Schedule(context.Background(), g, machines)
			require.NoError(t, err)
			if prev >= 0 {
				assert.LessOrEqual(t, s.Makespan, prev, "%s: %d machines", f.name, machines)
			}
			prev = s.Makespan
		}
	}
}

func TestSchedule_ParallelEdgesUseFirstWeight(t *testing.T) {
	t.Parallel()

	f := fixture{
		jobs:  []job{{"A", 5}, {"B", 3}},
		edges: []edge{{"A", "B", 4}, {"A", "B", 7}},
	}

	s, err := New().Schedule(context.Background(), f.build(t), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(12), s.Completion["B"], "5 + 4 + 3")

	s, err = New().Schedule(context.Background(), f.build(t), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(19), s.Makespan, "closed form sums every edge")
}

func TestSchedule_DoesNotMutateGraph(t *testing.T) {
	t.Parallel()

	g := exampleOne.build(t)
	before := g.Dependencies()

	_, err := New().Schedule(context.Background(), g, 3)
	require.NoError(t, err)

	assert.Equal(t, before, g.Dependencies())
	a, _ := g.Job("A")
	assert.Equal(t, int64(5), a.Duration)
}

func TestSchedule_Trace(t *testing.T) {
	t.Parallel()

	rec := &trace.Recorder{}
	_, err := New(WithTracer(rec)).Schedule(context.Background(), exampleOne.build(t), 2)
	require.NoError(t, err)

	orders := rec.Events(trace.KindOrder)
	require.Len(t, orders, 1)
	assert.Equal(t, []workflow.JobID{"A", "B", "C", "D", "E", "F", "G", "H"}, orders[0].Order)

	assert.Len(t, rec.Events(trace.KindPlacement), 8)
	assert.Len(t, rec.Events(trace.KindDependency), 8, "one event per predecessor edge")

	var forD []trace.Event
	for _, ev := range rec.Events(trace.KindDependency) {
		if ev.Job == "D" {
			forD = append(forD, ev)
		}
	}
	require.Len(t, forD, 3)
	assert.Equal(t, workflow.JobID("A"), forD[0].Predecessor)
	assert.Equal(t, int64(7), forD[0].Candidate)
	assert.Equal(t, int64(6), forD[1].Candidate)
	assert.Equal(t, int64(16), forD[2].Candidate)
	assert.Equal(t, int64(16), forD[2].MaxReady)

	placements := rec.Events(trace.KindPlacement)
	assert.Equal(t, workflow.JobID("D"), placements[3].Job)
	assert.Equal(t, []workflow.JobID{"A", "B", "C"}, placements[3].Predecessors)
	assert.Equal(t, []int64{20, 11}, placements[3].MachineFinish)

	finished := rec.Events(trace.KindFinished)
	require.Len(t, finished, 1)
	assert.Equal(t, int64(39), finished[0].Makespan)
}

func TestSchedule_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := New().Schedule(ctx, exampleOne.build(t), 2)
	require.Error(t, err)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEarliestMachine(t *testing.T) {
	testCases := []struct {
		name   string
		finish []int64
		want   int
	}{
		{"single", []int64{7}, 0},
		{"all equal picks first", []int64{3, 3, 3}, 0},
		{"minimum in middle", []int64{5, 2, 9}, 1},
		{"first of tied minima", []int64{4, 1, 8, 1}, 1},
		{"empty", []int64{}, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, EarliestMachine(tc.finish))
		})
	}
}

func TestMakespan(t *testing.T) {
	assert.Zero(t, Makespan(nil))
	assert.Zero(t, Makespan([]int64{}))
	assert.Equal(t, int64(9), Makespan([]int64{3, 9, 4}))
}
