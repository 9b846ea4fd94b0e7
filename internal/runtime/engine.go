package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/flowline/internal/logging"
	"github.com/aretw0/flowline/pkg/domain"
	"github.com/aretw0/flowline/pkg/registry"
	"github.com/aretw0/flowline/pkg/schema"
)

// GraphSource resolves workflow definitions by name.
type GraphSource interface {
	Get(name string) (domain.Graph, error)
}

// HandlerResolver resolves node handlers by name.
type HandlerResolver interface {
	Resolve(name string) (registry.Handler, error)
}

// Engine is the core traversal state machine.
// It holds no per-run state: every Execute call owns its own domain.State.
type Engine struct {
	graphs   GraphSource
	handlers HandlerResolver
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	maxSteps int
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger. A nil logger keeps the default.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMaxSteps bounds the number of nodes a single run may enter.
// Zero (the default) leaves traversal unbounded.
func WithMaxSteps(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxSteps = n
		}
	}
}

// NewEngine creates a new engine with dependencies.
func NewEngine(graphs GraphSource, handlers HandlerResolver, opts ...EngineOption) *Engine {
	e := &Engine{
		graphs:   graphs,
		handlers: handlers,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs the named workflow to completion or failure.
//
// An unknown workflow, or initial data rejected by the workflow's input
// schema, fails before any state is created and (nil, err) is returned.
// Any other failure returns the partially updated state with Status == failed
// together with the unmodified error.
func (e *Engine) Execute(ctx context.Context, workflowName string, initialData map[string]any) (*domain.State, error) {
	graph, err := e.graphs.Get(workflowName)
	if err != nil {
		return nil, err
	}
	if err := schema.ValidateInput(graph.InputSchema, initialData); err != nil {
		return nil, fmt.Errorf("workflow '%s': %w", graph.Name, err)
	}

	state := domain.NewState(graph.Name, initialData)
	started := time.Now()
	e.emitRunStart(ctx, state)

	err = e.traverse(ctx, graph, state)

	e.emitRunFinish(ctx, state, time.Since(started), err)
	if err != nil {
		return state, err
	}

	e.logger.DebugContext(ctx, "workflow completed", "workflow", graph.Name, "steps", state.Steps)
	return state, nil
}

func (e *Engine) traverse(ctx context.Context, graph domain.Graph, state *domain.State) error {
	current := graph.EntryPoint

	for current != "" {
		// Failures before entering a node are reported against the node
		// that would have run next.
		if e.maxSteps > 0 && state.Steps >= e.maxSteps {
			state.CurrentNode = current
			return e.fail(ctx, state, current, &domain.StepLimitError{Limit: e.maxSteps})
		}
		if err := ctx.Err(); err != nil {
			state.CurrentNode = current
			return e.fail(ctx, state, current, err)
		}

		node, ok := graph.Nodes[current]
		if !ok {
			state.CurrentNode = current
			return e.fail(ctx, state, current, &domain.NodeNotFoundError{Workflow: graph.Name, NodeID: current})
		}

		state.CurrentNode = node.ID
		state.Status = domain.StatusRunning
		state.Steps++
		state.Path = append(state.Path, node.ID)
		e.emitNodeEnter(ctx, graph.Name, node, state.Steps)

		enteredAt := time.Now()
		result, err := e.invoke(ctx, node, state)
		if err != nil {
			e.emitNodeLeave(ctx, graph.Name, node, state.Steps, time.Since(enteredAt), err)
			return e.fail(ctx, state, node.ID, err)
		}

		if update, ok := domain.AsUpdate(result); ok {
			state.Merge(update)
		}

		state.Status = domain.StatusCompleted
		state.AddLog(fmt.Sprintf("node '%s' completed successfully", node.ID))
		e.emitNodeLeave(ctx, graph.Name, node, state.Steps, time.Since(enteredAt), nil)

		current = resolveNextNodeID(node, result)
		e.logger.DebugContext(ctx, "node completed", "workflow", graph.Name, "node", node.ID, "next", current)
	}

	state.CurrentNode = ""
	return nil
}

// invoke resolves the node's handler and awaits its result.
// A panicking handler is reported as a *domain.HandlerPanicError.
func (e *Engine) invoke(ctx context.Context, node domain.Node, state *domain.State) (result any, err error) {
	handler, err := e.handlers.Resolve(node.Handler)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &domain.HandlerPanicError{Handler: node.Handler, Value: r}
		}
	}()

	return handler.Execute(ctx, state)
}

// fail records the failure on the state and returns err unchanged.
func (e *Engine) fail(ctx context.Context, state *domain.State, nodeID string, err error) error {
	state.Status = domain.StatusFailed
	state.AddLogLevel(domain.LevelError, fmt.Sprintf("node '%s' failed: %v", nodeID, err))
	e.logger.ErrorContext(ctx, "node failed", "workflow", state.Workflow, "node", nodeID, "err", err)
	return err
}
