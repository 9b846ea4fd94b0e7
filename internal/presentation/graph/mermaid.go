package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/flowline/pkg/domain"
)

// endID is the synthetic node every null branch target points to.
const endID = "__end__"

// GraphOverlay contains run data to visualize on the graph.
type GraphOverlay struct {
	VisitedNodes []string
	CurrentNode  string
	Failed       bool
}

// OverlayFromState derives the visited nodes from the state's path.
// The current node is only highlighted for failed runs, since a finished
// run has no current node. A node that failed on its last visit is drawn as
// failed, not visited.
func OverlayFromState(state *domain.State) *GraphOverlay {
	if state == nil {
		return nil
	}
	o := &GraphOverlay{}
	path := state.Path
	if state.Status == domain.StatusFailed {
		o.CurrentNode = state.CurrentNode
		o.Failed = true
		if n := len(path); n > 0 && path[n-1] == state.CurrentNode {
			path = path[:n-1]
		}
	}
	o.VisitedNodes = append(o.VisitedNodes, path...)
	return o
}

// GenerateMermaid produces a Mermaid flowchart for a workflow graph.
// It applies semantic styling:
// - Entry point: ((Circle))
// - Condition: {Rhombus}
// - Loop: {{Hexagon}}
// - Task: [Rectangle]
// Branch labels other than "default" annotate the edges; null targets lead
// to a shared end node. Overlay styles (Visited/Current) apply if provided.
func GenerateMermaid(g domain.Graph, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	hasEnd := false
	for _, id := range ids {
		node := g.Nodes[id]
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch {
		case node.ID == g.EntryPoint:
			opener, closer = "((", "))"
		case node.Type == domain.NodeTypeCondition:
			opener, closer = "{", "}"
		case node.Type == domain.NodeTypeLoop:
			opener, closer = "{{", "}}"
		}

		label := node.ID
		if node.Handler != "" && node.Handler != node.ID {
			label = fmt.Sprintf("%s <br/> <i>%s</i>", node.ID, node.Handler)
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(label), closer))

		labels := make([]string, 0, len(node.Branches))
		for l := range node.Branches {
			labels = append(labels, l)
		}
		sort.Strings(labels)

		for _, l := range labels {
			target := node.Branches[l]
			safeTo := sanitizeMermaidID(target)
			if target == "" {
				safeTo = endID
				hasEnd = true
			}

			arrow := "-->"
			if l != domain.BranchDefault {
				arrow = fmt.Sprintf("-- \"%s\" -->", escapeLabel(l))
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeID, arrow, safeTo))
		}
	}

	if hasEnd {
		sb.WriteString(fmt.Sprintf("    %s(((\"end\")))\n", endID))
	}

	if g.EntryPoint != "" {
		if _, ok := g.Nodes[g.EntryPoint]; !ok {
			// Dangling entry point: draw it so the problem is visible.
			sb.WriteString(fmt.Sprintf("    %s((\"%s ?\"))\n", sanitizeMermaidID(g.EntryPoint), escapeLabel(g.EntryPoint)))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString("    classDef failed fill:#ffcdd2,stroke:#c62828,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}

		if overlay.CurrentNode != "" {
			class := "current"
			if overlay.Failed {
				class = "failed"
			}
			sb.WriteString(fmt.Sprintf("    class %s %s;\n", sanitizeMermaidID(overlay.CurrentNode), class))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
