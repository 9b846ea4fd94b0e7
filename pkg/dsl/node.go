package dsl

import "github.com/aretw0/flowline/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node.
// Task, Condition, Loop and Build delegate to the parent Builder so a whole
// graph can be written as a single chain.
type NodeBuilder struct {
	node    domain.Node
	builder *Builder
}

// Go sets the "default" branch.
func (n *NodeBuilder) Go(target string) *NodeBuilder {
	return n.Branch(domain.BranchDefault, target)
}

// Branch adds a labelled branch. An empty target is a null terminal.
func (n *NodeBuilder) Branch(label, target string) *NodeBuilder {
	n.node.Branches[label] = target
	return n
}

// OnTrue sets the "true" branch of a condition node.
func (n *NodeBuilder) OnTrue(target string) *NodeBuilder {
	return n.Branch(domain.BranchTrue, target)
}

// OnFalse sets the "false" branch of a condition node.
func (n *NodeBuilder) OnFalse(target string) *NodeBuilder {
	return n.Branch(domain.BranchFalse, target)
}

// Terminal removes every branch, marking the node as the end of the flow.
func (n *NodeBuilder) Terminal() *NodeBuilder {
	n.node.Branches = make(map[string]string)
	return n
}

// Task adds a task node to the parent builder.
func (n *NodeBuilder) Task(id, handler string) *NodeBuilder {
	return n.builder.Task(id, handler)
}

// Condition adds a condition node to the parent builder.
func (n *NodeBuilder) Condition(id, handler string) *NodeBuilder {
	return n.builder.Condition(id, handler)
}

// Loop adds a loop node to the parent builder.
func (n *NodeBuilder) Loop(id, handler string) *NodeBuilder {
	return n.builder.Loop(id, handler)
}

// Build compiles the parent builder's graph.
func (n *NodeBuilder) Build() (domain.Graph, error) {
	return n.builder.Build()
}

// MustBuild is like Build but panics on error.
func (n *NodeBuilder) MustBuild() domain.Graph {
	return n.builder.MustBuild()
}

// Node returns a copy of the underlying domain.Node.
func (n *NodeBuilder) Node() domain.Node {
	cp := n.node
	cp.Branches = make(map[string]string, len(n.node.Branches))
	for _, l := range labels(n.node.Branches) {
		cp.Branches[l] = n.node.Branches[l]
	}
	return cp
}
