package domain

import (
	"fmt"
	"sort"
)

// Validate checks that a graph is structurally sound: the entry point and
// every branch target exist, node IDs match their keys, types are known and
// condition nodes only use the "true" and "false" labels.
// All problems are collected into a single *ValidationError.
func Validate(g Graph) error {
	var issues []string

	if g.Name == "" {
		issues = append(issues, "name is empty")
	}
	if g.EntryPoint == "" {
		issues = append(issues, "entry_point is empty")
	} else if _, ok := g.Nodes[g.EntryPoint]; !ok {
		issues = append(issues, fmt.Sprintf("entry_point '%s' is not a node", g.EntryPoint))
	}

	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		node := g.Nodes[id]
		if node.ID != id {
			issues = append(issues, fmt.Sprintf("node key '%s' does not match node_id '%s'", id, node.ID))
		}
		if !node.Type.Valid() {
			issues = append(issues, fmt.Sprintf("node '%s' has unknown type '%s'", id, node.Type))
		}
		if node.Handler == "" {
			issues = append(issues, fmt.Sprintf("node '%s' has no function", id))
		}

		labels := make([]string, 0, len(node.Branches))
		for label := range node.Branches {
			labels = append(labels, label)
		}
		sort.Strings(labels)

		for _, label := range labels {
			target := node.Branches[label]
			if node.Type == NodeTypeCondition && label != BranchTrue && label != BranchFalse {
				issues = append(issues, fmt.Sprintf("condition node '%s' has unsupported branch '%s'", id, label))
			}
			if target == "" {
				continue
			}
			if _, ok := g.Nodes[target]; !ok {
				issues = append(issues, fmt.Sprintf("node '%s' branch '%s' targets missing node '%s'", id, label, target))
			}
		}
	}

	if len(issues) > 0 {
		return &ValidationError{Workflow: g.Name, Issues: issues}
	}
	return nil
}
