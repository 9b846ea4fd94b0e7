package runtime

import (
	"sort"

	"github.com/aretw0/flowline/pkg/domain"
)

// resolveNextNodeID applies the branch rules to a completed node.
//
// Condition nodes follow "true" or "false" depending on the raw result; a missing
// label ends traversal. Task and loop nodes follow "default" when present and
// otherwise the lexicographically smallest label. An empty target ends traversal.
func resolveNextNodeID(node domain.Node, result any) string {
	if node.Type == domain.NodeTypeCondition {
		label := domain.BranchFalse
		if domain.BranchValue(result) {
			label = domain.BranchTrue
		}
		return node.Branches[label]
	}

	if target, ok := node.Branches[domain.BranchDefault]; ok {
		return target
	}
	if len(node.Branches) == 0 {
		return ""
	}

	labels := make([]string, 0, len(node.Branches))
	for label := range node.Branches {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return node.Branches[labels[0]]
}
