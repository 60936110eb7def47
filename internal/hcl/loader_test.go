package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/dagsched/internal/config"
)

// writeFiles creates the given files under a temporary directory and returns it.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

func TestLoad_Workflow(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := writeFiles(t, map[string]string{
		"main.hcl": `
			workflow "chain" {
				machines = 3
				job "A" { duration = 5 }
				job "B" {
					duration   = 3
					depends_on = { A = 2 }
				}
				job "C" {
					duration   = 8
					depends_on = { B = 1 }
				}
			}
		`,
	})

	// --- Act ---
	model, err := NewLoader().Load(context.Background(), dir)

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, model.Workflows, 1)

	wf := model.Workflows[0]
	assert.Equal(t, "chain", wf.Name)
	assert.Equal(t, 3, wf.Machines)
	require.Len(t, wf.Jobs, 3)
	assert.Equal(t, "A", wf.Jobs[0].ID)
	assert.Equal(t, int64(5), wf.Jobs[0].Duration)
	assert.Empty(t, wf.Jobs[0].DependsOn)
	assert.Equal(t, []config.Dependency{{From: "A", Weight: 2}}, wf.Jobs[1].DependsOn)
	assert.Contains(t, wf.Jobs[2].Source, "main.hcl")
}

func TestLoad_Variables(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"vars.hcl": `
			variable "comm" { default = 2 }
			variable "dur" { default = "4" }
		`,
		"wf.hcl": `
			workflow "w" {
				job "A" { duration = var.dur }
				job "B" {
					duration   = var.dur * 2
					depends_on = { A = var.comm }
				}
			}
		`,
	}

	t.Run("defaults are used", func(t *testing.T) {
		model, err := NewLoader().Load(context.Background(), writeFiles(t, files))
		require.NoError(t, err)

		wf := model.Workflows[0]
		assert.Zero(t, wf.Machines, "machines is left to the caller")
		assert.Equal(t, int64(4), wf.Jobs[0].Duration)
		assert.Equal(t, int64(8), wf.Jobs[1].Duration)
		assert.Equal(t, []config.Dependency{{From: "A", Weight: 2}}, wf.Jobs[1].DependsOn)
	})

	t.Run("overrides win", func(t *testing.T) {
		loader := NewLoader(WithVariables(map[string]string{"comm": "7"}))
		model, err := loader.Load(context.Background(), writeFiles(t, files))
		require.NoError(t, err)
		assert.Equal(t, []config.Dependency{{From: "A", Weight: 7}}, model.Workflows[0].Jobs[1].DependsOn)
	})

	t.Run("undeclared override is rejected", func(t *testing.T) {
		loader := NewLoader(WithVariables(map[string]string{"nope": "1"}))
		_, err := loader.Load(context.Background(), writeFiles(t, files))
		assert.ErrorContains(t, err, `variable "nope" is set but never declared`)
	})

	t.Run("malformed override is rejected", func(t *testing.T) {
		loader := NewLoader(WithVariables(map[string]string{"comm": "{{"}))
		_, err := loader.Load(context.Background(), writeFiles(t, files))
		assert.ErrorContains(t, err, `invalid value for variable "comm"`)
	})
}

func TestLoad_DependsOnIsSortedByProducer(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{
		"main.hcl": `
			workflow "w" {
				job "A" { duration = 1 }
				job "B" { duration = 1 }
				job "C" { duration = 1 }
				job "D" {
					duration   = 1
					depends_on = { C = 5, A = 2, B = 1 }
				}
			}
		`,
	})

	model, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, []config.Dependency{
		{From: "A", Weight: 2},
		{From: "B", Weight: 1},
		{From: "C", Weight: 5},
	}, model.Workflows[0].Jobs[3].DependsOn)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "syntax error",
			content: `workflow "w" {`,
			wantErr: "failed to parse HCL file",
		},
		{
			name:    "unknown block",
			content: `pipeline "w" {}`,
			wantErr: "failed to decode HCL file",
		},
		{
			name: "missing duration",
			content: `workflow "w" {
				job "A" {}
			}`,
			wantErr: "is required",
		},
		{
			name: "negative duration",
			content: `workflow "w" {
				job "A" { duration = -1 }
			}`,
			wantErr: "value -1 must not be negative",
		},
		{
			name:    "fractional weight",
			content: `workflow "w" {
				job "A" { duration = 1 }
				job "B" {
					duration   = 1
					depends_on = { A = 1.5 }
				}
			}`,
			wantErr: `weight of "A"`,
		},
		{
			name:    "depends_on is not an object",
			content: `workflow "w" {
				job "A" {
					duration   = 1
					depends_on = 3
				}
			}`,
			wantErr: "expected an object of producer = weight",
		},
		{
			name: "unknown variable",
			content: `workflow "w" {
				job "A" { duration = var.nope }
			}`,
			wantErr: "Unsupported attribute",
		},
		{
			name:    "variable without default",
			content: `variable "x" {}`,
			wantErr: `variable "x" has no default`,
		},
		{
			name: "duplicate workflow",
			content: `
				workflow "w" {
					job "A" { duration = 1 }
				}
				workflow "w" {
					job "B" { duration = 1 }
				}
			`,
			wantErr: "is already defined in",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := writeFiles(t, map[string]string{"main.hcl": tc.content})
			_, err := NewLoader().Load(context.Background(), dir)
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestLoad_Paths(t *testing.T) {
	t.Parallel()

	t.Run("missing path", func(t *testing.T) {
		_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope.hcl"))
		assert.ErrorContains(t, err, "error accessing path")
	})

	t.Run("directory without hcl files", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{"readme.txt": "hi"})
		_, err := NewLoader().Load(context.Background(), dir)
		assert.ErrorContains(t, err, "no .hcl files found")
	})

	t.Run("file given twice is loaded once", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{"a.hcl": `
			workflow "w" {
				job "A" { duration = 1 }
			}
		`})
		file := filepath.Join(dir, "a.hcl")
		model, err := NewLoader().Load(context.Background(), dir, file)
		require.NoError(t, err)
		assert.Len(t, model.Workflows, 1)
	})
}

func TestLoad_BundledExamples(t *testing.T) {
	t.Parallel()

	model, err := NewLoader().Load(context.Background(), filepath.Join("..", "..", "examples"))
	require.NoError(t, err)
	require.Len(t, model.Workflows, 3)

	for _, name := range []string{"example-1", "example-2", "example-3"} {
		wf, ok := model.Workflow(name)
		require.True(t, ok, name)
		assert.Equal(t, 2, wf.Machines)

		g, err := config.Build(wf)
		require.NoError(t, err, name)
		assert.Equal(t, len(wf.Jobs), g.Len())
	}

	wf, _ := model.Workflow("example-3")
	g, err := config.Build(wf)
	require.NoError(t, err)
	assert.Equal(t, int64(39), g.TotalDuration())
	assert.Equal(t, int64(32), g.TotalWeight())
}
