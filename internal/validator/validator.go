package validator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/flowline/pkg/domain"
)

// Unreachable walks the graph breadth-first from its entry point and returns
// the sorted IDs of nodes that no path can reach.
// Targets missing from the graph are skipped; domain.Validate reports those.
func Unreachable(g domain.Graph) []string {
	visited := make(map[string]bool, len(g.Nodes))

	if _, ok := g.Nodes[g.EntryPoint]; ok {
		queue := []string{g.EntryPoint}
		for len(queue) > 0 {
			currentID := queue[0]
			queue = queue[1:]

			if visited[currentID] {
				continue
			}
			visited[currentID] = true

			node := g.Nodes[currentID]
			for _, target := range node.Branches {
				if target == "" {
					continue // end of run
				}
				if _, ok := g.Nodes[target]; ok && !visited[target] {
					queue = append(queue, target)
				}
			}
		}
	}

	var orphans []string
	for id := range g.Nodes {
		if !visited[id] {
			orphans = append(orphans, id)
		}
	}
	slices.Sort(orphans)
	return orphans
}

// CheckReachability returns an error naming every unreachable node, or nil.
func CheckReachability(g domain.Graph) error {
	orphans := Unreachable(g)
	if len(orphans) == 0 {
		return nil
	}
	return fmt.Errorf("workflow '%s' has %d unreachable node(s): %s",
		g.Name, len(orphans), strings.Join(orphans, ", "))
}
