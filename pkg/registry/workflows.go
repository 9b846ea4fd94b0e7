package registry

import (
	"fmt"
	"sync"

	"github.com/aretw0/flowline/pkg/domain"
)

// Workflows maps workflow names to graph definitions.
type Workflows struct {
	mu     sync.RWMutex
	graphs map[string]domain.Graph
}

// NewWorkflows creates a new empty workflow registry.
func NewWorkflows() *Workflows {
	return &Workflows{
		graphs: make(map[string]domain.Graph),
	}
}

// Register stores a copy of the graph under its name, replacing any previous version.
// No structural validation is performed here.
func (r *Workflows) Register(g domain.Graph) error {
	if g.Name == "" {
		return fmt.Errorf("workflow name is required")
	}
	cp := g.Clone()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.graphs[g.Name] = cp
	return nil
}

// Get returns the graph registered under name.
func (r *Workflows) Get(name string) (domain.Graph, error) {
	r.mu.RLock()
	g, ok := r.graphs[name]
	r.mu.RUnlock()

	if !ok {
		return domain.Graph{}, &domain.WorkflowNotFoundError{Name: name}
	}
	return g, nil
}

// Names returns the registered workflow names in sorted order.
func (r *Workflows) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.graphs)
}
