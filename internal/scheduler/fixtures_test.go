package scheduler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/dagsched/internal/workflow"
)

type job struct {
	id       workflow.JobID
	duration int64
}

type edge struct {
	from, to workflow.JobID
	weight   int64
}

type fixture struct {
	name  string
	jobs  []job
	edges []edge
}

func (f fixture) build(t *testing.T) *workflow.Graph {
	t.Helper()
	g := workflow.New()
	for _, j := range f.jobs {
		require.NoError(t, g.AddJob(j.id, j.duration))
	}
	for _, e := range f.edges {
		require.NoError(t, g.AddDependency(e.from, e.to, e.weight))
	}
	return g
}

var chain = fixture{
	name:  "chain",
	jobs:  []job{{"A", 5}, {"B", 3}, {"C", 8}},
	edges: []edge{{"A", "B", 2}, {"B", "C", 1}},
}

var exampleOne = fixture{
	name: "example-1",
	jobs: []job{{"A", 5}, {"B", 3}, {"C", 8}, {"D", 4}, {"E", 2}, {"F", 1}, {"G", 7}, {"H", 3}},
	edges: []edge{
		{"A", "D", 2}, {"B", "D", 1}, {"C", "D", 5}, {"D", "E", 3},
		{"D", "F", 4}, {"E", "G", 1}, {"F", "G", 2}, {"G", "H", 2},
	},
}

var exampleTwo = fixture{
	name: "example-2",
	jobs: []job{{"A", 2}, {"B", 3}, {"C", 4}, {"D", 9}, {"E", 7}, {"F", 3}, {"G", 2}, {"H", 3}, {"I", 5}, {"J", 7}},
	edges: []edge{
		{"A", "D", 3}, {"B", "D", 2}, {"B", "E", 3}, {"C", "E", 2}, {"D", "F", 1}, {"E", "G", 5},
		{"E", "H", 2}, {"F", "I", 3}, {"G", "J", 3}, {"H", "I", 3}, {"H", "J", 3},
	},
}

var exampleThree = fixture{
	name: "example-3",
	jobs: []job{
		{"A", 3}, {"B", 3}, {"C", 3}, {"D", 3}, {"E", 3}, {"F", 3}, {"G", 3},
		{"H", 3}, {"I", 3}, {"J", 3}, {"K", 3}, {"L", 3}, {"M", 3},
	},
	edges: []edge{
		{"C", "A", 2}, {"C", "B", 2}, {"D", "B", 2}, {"D", "G", 2}, {"D", "H", 2}, {"E", "A", 2},
		{"E", "D", 2}, {"E", "F", 2}, {"F", "K", 2}, {"F", "J", 2}, {"G", "I", 2}, {"H", "I", 2},
		{"J", "I", 2}, {"J", "L", 2}, {"J", "M", 2}, {"K", "J", 2},
	},
}

var allFixtures = []fixture{chain, exampleOne, exampleTwo, exampleThree}
