package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/dagsched/internal/config"
	"github.com/vk/dagsched/internal/ctxlog"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	model  *config.Model
}

// NewApp is the constructor for the main application. Reports are written to
// outW and logs to logW. It loads every workflow up front so that definition
// errors surface before anything is scheduled.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, cfg.Paths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Debug("Configuration loaded and translated into unified model.", "workflows", len(model.Workflows))

	if cfg.Workflow != "" {
		wf, ok := model.Workflow(cfg.Workflow)
		if !ok {
			return nil, fmt.Errorf("workflow %q not found in %v", cfg.Workflow, cfg.Paths)
		}
		model = &config.Model{Workflows: []*config.Workflow{wf}}
	}

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		model:  model,
	}, nil
}

// Model returns the loaded workflows. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}
