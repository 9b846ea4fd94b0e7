package dto

// WorkflowDefinition is the on-disk or over-the-wire shape of a workflow.
// Nodes is left untyped because definitions may list nodes either as a map
// keyed by id or as a sequence.
type WorkflowDefinition struct {
	Name       string `json:"name" mapstructure:"name"`
	EntryPoint string `json:"entry_point" mapstructure:"entry_point"`
	Entry      string `json:"entry" mapstructure:"entry"`
	Nodes      any    `json:"nodes" mapstructure:"nodes"`

	InputSchema map[string]string `json:"input_schema" mapstructure:"input_schema"`
}

// NodeDefinition accepts both the long keys used by the HTTP API
// (node_id, node_type, function, next_nodes) and their short aliases.
type NodeDefinition struct {
	NodeID    string         `json:"node_id" mapstructure:"node_id"`
	ID        string         `json:"id" mapstructure:"id"`
	NodeType  string         `json:"node_type" mapstructure:"node_type"`
	Type      string         `json:"type" mapstructure:"type"`
	Function  string         `json:"function" mapstructure:"function"`
	Handler   string         `json:"handler" mapstructure:"handler"`
	NextNodes map[string]any `json:"next_nodes" mapstructure:"next_nodes"`
	Branches  map[string]any `json:"branches" mapstructure:"branches"`
}

// Identifier returns the node id, preferring node_id.
func (n NodeDefinition) Identifier() string {
	return first(n.NodeID, n.ID)
}

// Kind returns the declared node type, preferring node_type.
func (n NodeDefinition) Kind() string {
	return first(n.NodeType, n.Type)
}

// Function name, preferring function.
func (n NodeDefinition) HandlerName() string {
	return first(n.Function, n.Handler)
}

// Targets returns the branch table, preferring next_nodes.
func (n NodeDefinition) Targets() map[string]any {
	if n.NextNodes != nil {
		return n.NextNodes
	}
	return n.Branches
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
