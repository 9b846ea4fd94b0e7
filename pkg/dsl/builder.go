package dsl

import (
	"fmt"
	"sort"

	"github.com/aretw0/flowline/pkg/domain"
	"github.com/aretw0/flowline/pkg/schema"
)

// Builder manages the graph construction.
type Builder struct {
	name  string
	entry string
	nodes map[string]*NodeBuilder
	order []string
	input map[string]string
	errs  []error
}

// New creates a new graph builder for the named workflow.
func New(name string) *Builder {
	return &Builder{
		name:  name,
		nodes: make(map[string]*NodeBuilder),
	}
}

// Entry sets the entry node. When omitted, the first added node is used.
func (b *Builder) Entry(id string) *Builder {
	b.entry = id
	return b
}

// Input declares a key of the initial data and its type name,
// as understood by the schema package ("string", "int?", "[map]").
func (b *Builder) Input(key, typ string) *Builder {
	if b.input == nil {
		b.input = make(map[string]string)
	}
	b.input[key] = typ
	return b
}

// Task adds a task node.
func (b *Builder) Task(id, handler string) *NodeBuilder {
	return b.add(id, domain.NodeTypeTask, handler)
}

// Condition adds a condition node.
func (b *Builder) Condition(id, handler string) *NodeBuilder {
	return b.add(id, domain.NodeTypeCondition, handler)
}

// Loop adds a loop node.
func (b *Builder) Loop(id, handler string) *NodeBuilder {
	return b.add(id, domain.NodeTypeLoop, handler)
}

// add creates a node or returns the existing builder.
// Redefining a node with a different type or handler is recorded as an error.
func (b *Builder) add(id string, typ domain.NodeType, handler string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		if nb.node.Type != typ || nb.node.Handler != handler {
			b.errs = append(b.errs, fmt.Errorf("node '%s' redefined as %s(%s), was %s(%s)",
				id, typ, handler, nb.node.Type, nb.node.Handler))
		}
		return nb
	}
	nb := &NodeBuilder{
		node: domain.Node{
			ID:       id,
			Type:     typ,
			Handler:  handler,
			Branches: make(map[string]string),
		},
		builder: b,
	}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Build compiles the graph.
func (b *Builder) Build() (domain.Graph, error) {
	if len(b.errs) > 0 {
		return domain.Graph{}, b.errs[0]
	}
	if b.name == "" {
		return domain.Graph{}, fmt.Errorf("workflow name is required")
	}

	entry := b.entry
	if entry == "" && len(b.order) > 0 {
		entry = b.order[0]
	}
	if entry == "" {
		return domain.Graph{}, fmt.Errorf("workflow '%s' has no nodes", b.name)
	}
	if _, ok := b.nodes[entry]; !ok {
		return domain.Graph{}, fmt.Errorf("entry node '%s' is not defined", entry)
	}

	if _, err := schema.ParseTypeMap(b.input); err != nil {
		return domain.Graph{}, fmt.Errorf("workflow '%s' input: %w", b.name, err)
	}

	g := domain.Graph{
		Name:        b.name,
		EntryPoint:  entry,
		Nodes:       make(map[string]domain.Node, len(b.nodes)),
		InputSchema: b.input,
	}
	for id, nb := range b.nodes {
		g.Nodes[id] = nb.node
	}
	return g.Clone(), nil
}

// MustBuild is like Build but panics on error. Intended for static definitions.
func (b *Builder) MustBuild() domain.Graph {
	g, err := b.Build()
	if err != nil {
		panic(err)
	}
	return g
}

// IDs returns the node IDs in insertion order.
func (b *Builder) IDs() []string {
	out := append([]string{}, b.order...)
	return out
}

// labels returns a node's branch labels sorted, for deterministic output.
func labels(branches map[string]string) []string {
	out := make([]string, 0, len(branches))
	for l := range branches {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
