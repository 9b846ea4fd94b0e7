package flowline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/flowline/internal/logging"
	"github.com/aretw0/flowline/internal/runtime"
	"github.com/aretw0/flowline/pkg/domain"
	"github.com/aretw0/flowline/pkg/registry"
)

// HandlerFunc is a synchronous node handler.
type HandlerFunc = registry.Func

// AsyncHandlerFunc is a suspending node handler; the engine awaits its Outcome.
type AsyncHandlerFunc = registry.AsyncFunc

// Outcome is the eventual result of an AsyncHandlerFunc.
type Outcome = registry.Outcome

// Engine is the high-level entry point for the Flowline library.
// It owns its handler and workflow registries and wraps the internal runtime.
// There is no process-wide instance: create one per application and pass it around.
type Engine struct {
	runtime   *runtime.Engine
	handlers  *registry.Handlers
	workflows *registry.Workflows
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	maxSteps  int
	strict    bool
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
// Calling it several times chains the hooks in order.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMaxSteps bounds the number of nodes a single run may enter.
// The default (0) leaves cyclic graphs unbounded.
func WithMaxSteps(n int) Option {
	return func(e *Engine) {
		e.maxSteps = n
	}
}

// WithStrictValidation makes RegisterWorkflow reject structurally invalid graphs
// instead of deferring the failure to traversal time.
func WithStrictValidation() Option {
	return func(e *Engine) {
		e.strict = true
	}
}

// WithHandlers shares an existing handler registry.
func WithHandlers(h *registry.Handlers) Option {
	return func(e *Engine) {
		e.handlers = h
	}
}

// WithWorkflows shares an existing workflow registry.
func WithWorkflows(w *registry.Workflows) Option {
	return func(e *Engine) {
		e.workflows = w
	}
}

// New initializes a new Flowline Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.handlers == nil {
		eng.handlers = registry.NewHandlers()
	}
	if eng.workflows == nil {
		eng.workflows = registry.NewWorkflows()
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	eng.runtime = runtime.NewEngine(
		eng.workflows,
		eng.handlers,
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithMaxSteps(eng.maxSteps),
	)
	return eng
}

// RegisterHandler stores a handler under name, replacing any previous one.
func (e *Engine) RegisterHandler(name string, h registry.Handler) {
	e.handlers.Register(name, h)
	e.logger.Debug("handler registered", "name", name, "kind", h.Kind().String())
}

// RegisterFunc registers a synchronous handler function.
func (e *Engine) RegisterFunc(name string, fn registry.Func) {
	e.RegisterHandler(name, registry.Sync(fn))
}

// RegisterAsync registers a suspending handler function.
func (e *Engine) RegisterAsync(name string, fn registry.AsyncFunc) {
	e.RegisterHandler(name, registry.Async(fn))
}

// RegisterWorkflow stores a graph under its name, replacing any previous version.
// With WithStrictValidation the graph is validated first.
func (e *Engine) RegisterWorkflow(g domain.Graph) error {
	if e.strict {
		if err := domain.Validate(g); err != nil {
			return err
		}
	}
	if err := e.workflows.Register(g); err != nil {
		return fmt.Errorf("failed to register workflow: %w", err)
	}
	e.logger.Debug("workflow registered", "name", g.Name, "nodes", len(g.Nodes))
	return nil
}

// Execute runs the named workflow to completion or failure.
// See runtime.Engine.Execute for the returned state on failure.
func (e *Engine) Execute(ctx context.Context, name string, initialData map[string]any) (*domain.State, error) {
	return e.runtime.Execute(ctx, name, initialData)
}

// Workflow returns a copy of the registered graph.
func (e *Engine) Workflow(name string) (domain.Graph, error) {
	g, err := e.workflows.Get(name)
	if err != nil {
		return domain.Graph{}, err
	}
	return g.Clone(), nil
}

// HandlerNames lists registered handler names.
func (e *Engine) HandlerNames() []string {
	return e.handlers.Names()
}

// WorkflowNames lists registered workflow names.
func (e *Engine) WorkflowNames() []string {
	return e.workflows.Names()
}

// Logger returns the engine's logger so adapters can share it.
func (e *Engine) Logger() *slog.Logger {
	return e.logger
}
