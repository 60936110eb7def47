package app

import (
	"errors"
	"fmt"

	"github.com/vk/dagsched/internal/report"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Paths []string // hcl files or directories

	// Machines overrides the machine count of every workflow. Nil keeps the
	// value each workflow declares.
	Machines *int
	// Workflow limits the run to a single workflow by name.
	Workflow string
	// Workers bounds how many workflows are scheduled at the same time.
	Workers int
	Vars    map[string]string

	Output    report.Format
	LogFormat string
	LogLevel  string

	// Trace logs every scheduling step at debug level.
	Trace          bool
	TraceURL       string
	TraceNamespace string
}

func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.Paths) == 0 {
		return nil, errors.New("at least one workflow path is required")
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	if cfg.Output == "" {
		cfg.Output = report.FormatText
	}
	if _, err := report.ParseFormat(string(cfg.Output)); err != nil {
		return nil, err
	}
	if cfg.TraceNamespace != "" && cfg.TraceURL == "" {
		return nil, errors.New("trace-namespace requires trace-url")
	}
	if cfg.TraceNamespace == "" {
		cfg.TraceNamespace = "/"
	}

	return &cfg, nil
}
