package codereview

import (
	"sort"
	"strings"

	"github.com/aretw0/flowline/pkg/domain"
)

type function struct {
	name string
	line int
}

func codeLines(state *domain.State) []string {
	code, _ := state.Data["code"].(string)
	return strings.Split(code, "\n")
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

// mapsFrom accepts both in-process values and values decoded from JSON.
func mapsFrom(v any) []map[string]any {
	switch t := v.(type) {
	case []map[string]any:
		return t
	case []any:
		out := make([]map[string]any, 0, len(t))
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

func functionsFrom(v any) []function {
	var out []function
	for _, m := range mapsFrom(v) {
		name, _ := m["name"].(string)
		out = append(out, function{name: name, line: toInt(m["line"], 0)})
	}
	return out
}

func toInt(v any, fallback int) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return fallback
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
