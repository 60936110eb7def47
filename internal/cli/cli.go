package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/vk/dagsched/internal/app"
	"github.com/vk/dagsched/internal/report"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("dagsched", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
dagsched - Schedules DAG workflows onto identical machines and reports the makespan.

Usage:
  dagsched [options] WORKFLOW_PATH [WORKFLOW_PATH...]

Arguments:
  WORKFLOW_PATH
    Path to a single .hcl file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	machinesFlag := flagSet.String("machines", "", "Number of machines. Overrides the value declared by each workflow.")
	workflowFlag := flagSet.String("workflow", "", "Only schedule the workflow with this name.")
	workersFlag := flagSet.Int("workers", 4, "Number of workflows scheduled concurrently.")
	outputFlag := flagSet.String("output", "text", "Report format. Options: 'text', 'json' or 'hcl'.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	traceFlag := flagSet.Bool("trace", false, "Log every scheduling step. Requires -log-level=debug to be visible.")
	traceURLFlag := flagSet.String("trace-url", "", "socket.io endpoint that receives scheduling steps, e.g. http://localhost:3000.")
	traceNamespaceFlag := flagSet.String("trace-namespace", "", "socket.io namespace for -trace-url. Defaults to '/'.")

	vars := map[string]string{}
	flagSet.Func("var", "Set a workflow variable, as name=value. Can be repeated.", func(s string) error {
		name, value, ok := strings.Cut(s, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return errors.New("expected name=value")
		}
		vars[name] = value
		return nil
	})

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	paths := flagSet.Args()
	if len(paths) == 0 {
		slog.Debug("No workflow path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	var machines *int
	if *machinesFlag != "" {
		n, err := strconv.Atoi(*machinesFlag)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("invalid machines %q: must be an integer", *machinesFlag)}
		}
		machines = &n
	}

	format, err := report.ParseFormat(*outputFlag)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		Paths:          paths,
		Machines:       machines,
		Workflow:       *workflowFlag,
		Workers:        *workersFlag,
		Vars:           vars,
		Output:         format,
		LogFormat:      logFormat,
		LogLevel:       logLevel,
		Trace:          *traceFlag,
		TraceURL:       *traceURLFlag,
		TraceNamespace: *traceNamespaceFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
