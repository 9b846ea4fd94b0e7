package compiler

import (
	"fmt"
	"os"
	"sort"

	"github.com/aretw0/flowline/internal/dto"
	"github.com/aretw0/flowline/pkg/domain"
	"github.com/aretw0/flowline/pkg/schema"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Parse decodes a workflow definition (YAML or JSON) into a domain.Graph.
// It performs structural decoding only; reachability and dangling targets are
// checked by domain.Validate.
func Parse(data []byte) (domain.Graph, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return domain.Graph{}, fmt.Errorf("failed to parse workflow definition: %w", err)
	}
	if raw == nil {
		return domain.Graph{}, fmt.Errorf("workflow definition is empty")
	}
	raw = normalize(raw).(map[string]any)

	var def dto.WorkflowDefinition
	if err := mapstructure.Decode(raw, &def); err != nil {
		return domain.Graph{}, fmt.Errorf("failed to decode workflow definition: %w", err)
	}
	if def.Name == "" {
		return domain.Graph{}, fmt.Errorf("workflow definition missing name")
	}

	nodes, err := decodeNodes(def.Nodes)
	if err != nil {
		return domain.Graph{}, fmt.Errorf("workflow '%s': %w", def.Name, err)
	}

	if _, err := schema.ParseTypeMap(def.InputSchema); err != nil {
		return domain.Graph{}, fmt.Errorf("workflow '%s' input_schema: %w", def.Name, err)
	}

	g := domain.Graph{
		Name:        def.Name,
		EntryPoint:  def.EntryPoint,
		Nodes:       make(map[string]domain.Node, len(nodes)),
		InputSchema: def.InputSchema,
	}
	if g.EntryPoint == "" {
		g.EntryPoint = def.Entry
	}

	for _, nd := range nodes {
		node, err := compileNode(nd)
		if err != nil {
			return domain.Graph{}, fmt.Errorf("workflow '%s': %w", def.Name, err)
		}
		if _, dup := g.Nodes[node.ID]; dup {
			return domain.Graph{}, fmt.Errorf("workflow '%s': duplicate node '%s'", def.Name, node.ID)
		}
		g.Nodes[node.ID] = node
	}

	if g.EntryPoint == "" {
		return domain.Graph{}, fmt.Errorf("workflow '%s' missing entry_point", def.Name)
	}
	return g, nil
}

// ParseFile reads and parses a definition file.
func ParseFile(path string) (domain.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Graph{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	g, err := Parse(data)
	if err != nil {
		return domain.Graph{}, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

func decodeNodes(raw any) ([]dto.NodeDefinition, error) {
	switch v := raw.(type) {
	case nil:
		return nil, fmt.Errorf("no nodes defined")
	case []any:
		out := make([]dto.NodeDefinition, 0, len(v))
		for i, item := range v {
			var nd dto.NodeDefinition
			if err := mapstructure.Decode(item, &nd); err != nil {
				return nil, fmt.Errorf("node #%d: %w", i, err)
			}
			out = append(out, nd)
		}
		return out, nil
	case map[string]any:
		// Keys are sorted so that error messages are stable.
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		out := make([]dto.NodeDefinition, 0, len(v))
		for _, key := range keys {
			var nd dto.NodeDefinition
			if v[key] != nil {
				if err := mapstructure.Decode(v[key], &nd); err != nil {
					return nil, fmt.Errorf("node '%s': %w", key, err)
				}
			}
			if nd.Identifier() == "" {
				nd.NodeID = key
			} else if nd.Identifier() != key {
				return nil, fmt.Errorf("node key '%s' does not match node_id '%s'", key, nd.Identifier())
			}
			out = append(out, nd)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("nodes must be a map or a list, got %T", raw)
	}
}

func compileNode(nd dto.NodeDefinition) (domain.Node, error) {
	id := nd.Identifier()
	if id == "" {
		return domain.Node{}, fmt.Errorf("node missing node_id")
	}

	typ := domain.NodeType(nd.Kind())
	if typ == "" {
		typ = domain.NodeTypeTask
	}
	if !typ.Valid() {
		return domain.Node{}, fmt.Errorf("node '%s' has unknown type '%s'", id, typ)
	}

	branches := make(map[string]string)
	for label, target := range nd.Targets() {
		switch t := target.(type) {
		case nil:
			branches[label] = ""
		case string:
			branches[label] = t
		default:
			return domain.Node{}, fmt.Errorf("node '%s' branch '%s' must be a node id or null, got %T", id, label, target)
		}
	}

	return domain.Node{
		ID:       id,
		Type:     typ,
		Handler:  nd.HandlerName(),
		Branches: branches,
	}, nil
}

// normalize rewrites non-string mapping keys (YAML reads unquoted true/false
// as booleans) into their string form so condition branches decode cleanly.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = normalize(item)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case []any:
		for i, item := range t {
			t[i] = normalize(item)
		}
		return t
	default:
		return v
	}
}
