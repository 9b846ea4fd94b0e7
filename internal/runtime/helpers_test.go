package runtime_test

import (
	"context"

	"github.com/aretw0/flowline/internal/runtime"
	"github.com/aretw0/flowline/pkg/domain"
	"github.com/aretw0/flowline/pkg/registry"
)

type fixture struct {
	handlers  *registry.Handlers
	workflows *registry.Workflows
	visited   []string
}

func newFixture() *fixture {
	return &fixture{
		handlers:  registry.NewHandlers(),
		workflows: registry.NewWorkflows(),
	}
}

// engine builds an engine that records every entered node in f.visited.
func (f *fixture) engine(opts ...runtime.EngineOption) *runtime.Engine {
	hooks := domain.LifecycleHooks{
		OnNodeEnter: func(ctx context.Context, e *domain.NodeEvent) {
			f.visited = append(f.visited, e.NodeID)
		},
	}
	opts = append([]runtime.EngineOption{runtime.WithLifecycleHooks(hooks)}, opts...)
	return runtime.NewEngine(f.workflows, f.handlers, opts...)
}

func (f *fixture) returns(name string, result any) {
	f.handlers.RegisterFunc(name, func(ctx context.Context, s *domain.State) (any, error) {
		return result, nil
	})
}

func task(id, handler string, branches map[string]string) domain.Node {
	return domain.Node{ID: id, Type: domain.NodeTypeTask, Handler: handler, Branches: branches}
}

func condition(id, handler string, branches map[string]string) domain.Node {
	return domain.Node{ID: id, Type: domain.NodeTypeCondition, Handler: handler, Branches: branches}
}

func graph(name, entry string, nodes ...domain.Node) domain.Graph {
	g := domain.Graph{Name: name, EntryPoint: entry, Nodes: make(map[string]domain.Node)}
	for _, n := range nodes {
		g.Nodes[n.ID] = n
	}
	return g
}
