package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/dagsched/internal/config"
	"github.com/vk/dagsched/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	// overrides holds raw `-var name=expr` values from the command line.
	overrides map[string]string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithVariables overrides variable values. Each value is parsed as an HCL
// expression, so `3` is a number and `"x"` a string.
func WithVariables(vars map[string]string) LoaderOption {
	return func(l *Loader) {
		for k, v := range vars {
			l.overrides[k] = v
		}
	}
}

// NewLoader creates a new HCL workflow loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{overrides: make(map[string]string)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// parsedFile pairs a decoded file with its path for later translation.
type parsedFile struct {
	path string
	root fileRoot
}

// Load orchestrates the entire HCL loading process. Variables from every file
// share one namespace and are resolved before any workflow is translated.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(hclFiles) == 0 {
		return nil, fmt.Errorf("no .hcl files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()
	files := make([]parsedFile, 0, len(hclFiles))
	var variables []*Variable

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
		files = append(files, parsedFile{path: file, root: root})
		variables = append(variables, root.Variables...)
	}

	evalCtx, err := l.evalContext(ctx, variables)
	if err != nil {
		return nil, err
	}

	model := &config.Model{}
	seen := make(map[string]string)
	for _, f := range files {
		for _, w := range f.root.Workflows {
			if prev, dup := seen[w.Name]; dup {
				return nil, fmt.Errorf("workflow %q in %s is already defined in %s", w.Name, f.path, prev)
			}
			seen[w.Name] = f.path

			wf, err := l.translateWorkflow(ctx, f.path, w, evalCtx)
			if err != nil {
				return nil, err
			}
			model.Workflows = append(model.Workflows, wf)
		}
	}

	logger.Debug("HCL loading complete.", "workflows", len(model.Workflows), "variables", len(variables))
	return model, nil
}

// evalContext resolves every variable into the `var` object. A command-line
// override wins over the declared default.
func (l *Loader) evalContext(ctx context.Context, variables []*Variable) (*hcl.EvalContext, error) {
	logger := ctxlog.FromContext(ctx)
	values := make(map[string]cty.Value, len(variables))

	for _, v := range variables {
		if _, dup := values[v.Name]; dup {
			return nil, fmt.Errorf("variable %q is declared more than once", v.Name)
		}

		if raw, ok := l.overrides[v.Name]; ok {
			val, err := parseOverride(v.Name, raw)
			if err != nil {
				return nil, err
			}
			logger.Debug("Variable overridden.", "variable", v.Name)
			values[v.Name] = val
			continue
		}

		if !isExprDefined(ctx, v.Default, "default") {
			return nil, fmt.Errorf("variable %q has no default and was not set", v.Name)
		}
		val, diags := v.Default.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("variable %q: %w", v.Name, diags)
		}
		values[v.Name] = val
	}

	for name := range l.overrides {
		if _, ok := values[name]; !ok {
			return nil, fmt.Errorf("variable %q is set but never declared", name)
		}
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"var": cty.ObjectVal(values)},
	}, nil
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl files found.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})

	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			add(path)
			continue
		}

		err = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && filepath.Ext(p) == ".hcl" {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return allFiles, nil
}
