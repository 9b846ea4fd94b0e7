package domain

// NodeType defines the control flow behavior of a node.
type NodeType string

const (
	// NodeTypeTask runs its handler and follows the "default" branch.
	NodeTypeTask NodeType = "task"
	// NodeTypeCondition runs its handler and follows the "true" or "false" branch.
	NodeTypeCondition NodeType = "condition"
	// NodeTypeLoop behaves like a task; its branches usually point back to earlier nodes.
	NodeTypeLoop NodeType = "loop"
)

// Reserved branch labels.
const (
	BranchDefault = "default"
	BranchTrue    = "true"
	BranchFalse   = "false"
)

// Valid reports whether t is one of the known node types.
func (t NodeType) Valid() bool {
	switch t {
	case NodeTypeTask, NodeTypeCondition, NodeTypeLoop:
		return true
	}
	return false
}

// Node represents a logical unit in the graph.
type Node struct {
	ID      string   `json:"node_id" yaml:"node_id"`
	Type    NodeType `json:"node_type" yaml:"node_type"`
	Handler string   `json:"function" yaml:"function"`

	// Branches maps a branch label to a target node ID.
	// An empty table marks a terminal node; an empty target ends traversal.
	Branches map[string]string `json:"next_nodes" yaml:"next_nodes"`
}

// IsTerminal reports whether the node has no outgoing branches.
func (n Node) IsTerminal() bool {
	return len(n.Branches) == 0
}

// Graph is a workflow definition: a name, an entry node and the node table.
type Graph struct {
	Name       string          `json:"name" yaml:"name"`
	EntryPoint string          `json:"entry_point" yaml:"entry_point"`
	Nodes      map[string]Node `json:"nodes" yaml:"nodes"`

	// InputSchema maps initial data keys to type names ("string", "int?", "[map]").
	InputSchema map[string]string `json:"input_schema,omitempty" yaml:"input_schema,omitempty"`
}

// Clone returns a deep copy of the graph so that registries never share
// mutable maps with their callers.
func (g Graph) Clone() Graph {
	out := Graph{
		Name:       g.Name,
		EntryPoint: g.EntryPoint,
		Nodes:      make(map[string]Node, len(g.Nodes)),
	}
	for id, n := range g.Nodes {
		cp := n
		if n.Branches != nil {
			cp.Branches = make(map[string]string, len(n.Branches))
			for label, target := range n.Branches {
				cp.Branches[label] = target
			}
		}
		out.Nodes[id] = cp
	}
	if g.InputSchema != nil {
		out.InputSchema = make(map[string]string, len(g.InputSchema))
		for k, v := range g.InputSchema {
			out.InputSchema[k] = v
		}
	}
	return out
}
