package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/flowline"
	"github.com/aretw0/flowline/internal/config"
	"github.com/aretw0/flowline/internal/samples/codereview"
	"github.com/aretw0/flowline/internal/validator"
	"github.com/aretw0/flowline/pkg/adapters/process"
	"github.com/aretw0/flowline/pkg/observability"
)

// EngineOptions controls how CreateEngine assembles an engine.
type EngineOptions struct {
	Config config.Config
	Logger *slog.Logger

	// Metrics, when set, is fed by the engine's lifecycle hooks.
	Metrics *observability.Metrics
}

// CreateEngine initializes an engine with the standard CLI conventions:
// bundled samples, external process handlers and the workflows directory.
func CreateEngine(opts EngineOptions) (*flowline.Engine, error) {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	hooks := observability.LoggingHooks(logger)
	if opts.Metrics != nil {
		hooks = hooks.Merge(opts.Metrics.Hooks())
	}

	engineOpts := []flowline.Option{
		flowline.WithLogger(logger),
		flowline.WithLifecycleHooks(hooks),
	}
	if cfg.Engine.MaxSteps > 0 {
		engineOpts = append(engineOpts, flowline.WithMaxSteps(cfg.Engine.MaxSteps))
	}
	if cfg.Engine.Strict {
		engineOpts = append(engineOpts, flowline.WithStrictValidation())
	}

	engine := flowline.New(engineOpts...)

	if cfg.Server.Samples {
		if err := codereview.Register(engine); err != nil {
			return nil, fmt.Errorf("error registering samples: %w", err)
		}
	}

	if cfg.HandlersFile != "" {
		configs, err := process.LoadHandlers(cfg.HandlersFile)
		if err != nil {
			return nil, err
		}
		names := process.RegisterAll(engine, configs, process.WithBaseDir(filepath.Dir(cfg.HandlersFile)))
		if len(names) > 0 {
			logger.Info("process handlers registered", "count", len(names), "file", cfg.HandlersFile)
		}
	}

	if cfg.WorkflowsDir != "" {
		names, err := LoadWorkflows(engine, cfg.WorkflowsDir)
		if err != nil {
			return nil, err
		}
		logger.Info("workflows loaded", "count", len(names), "dir", cfg.WorkflowsDir)
		warnUnreachable(engine, names, logger)
	}

	return engine, nil
}

// warnUnreachable logs loaded workflows that contain nodes no run can reach.
func warnUnreachable(engine *flowline.Engine, names []string, logger *slog.Logger) {
	for _, name := range names {
		g, err := engine.Workflow(name)
		if err != nil {
			continue
		}
		if err := validator.CheckReachability(g); err != nil {
			logger.Warn("workflow has unreachable nodes", "workflow", name, "err", err)
		}
	}
}
