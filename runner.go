package flowline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aretw0/flowline/pkg/domain"
)

// Runner executes a workflow once and writes a report of the final state.
// It backs the CLI and is easy to drive from tests with a bytes.Buffer.
type Runner struct {
	Output io.Writer

	// Headless writes the final state as indented JSON instead of a report.
	Headless bool

	// Renderer transforms the markdown report before it is written.
	Renderer ContentRenderer
}

// ContentRenderer is a function that transforms the content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// NewRunner creates a Runner writing plain markdown to w.
func NewRunner(w io.Writer) *Runner {
	return &Runner{Output: w}
}

// Run executes the workflow and writes its report.
// The engine error is returned unchanged after the partial state is reported.
func (r *Runner) Run(ctx context.Context, engine *Engine, workflow string, initialData map[string]any) (*domain.State, error) {
	if r.Output == nil {
		return nil, fmt.Errorf("output writer must be set (use os.Stdout)")
	}

	state, runErr := engine.Execute(ctx, workflow, initialData)
	if state == nil {
		return nil, runErr
	}

	if err := r.write(state, runErr); err != nil {
		return state, err
	}
	return state, runErr
}

func (r *Runner) write(state *domain.State, runErr error) error {
	if r.Headless {
		enc := json.NewEncoder(r.Output)
		enc.SetIndent("", "  ")
		return enc.Encode(state)
	}

	out := Report(state, runErr)
	if r.Renderer != nil {
		rendered, err := r.Renderer(out)
		if err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		out = rendered
	}
	_, err := io.WriteString(r.Output, out)
	return err
}

// Report formats a state as a markdown document.
func Report(state *domain.State, runErr error) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Workflow `%s`\n\n", state.Workflow)
	fmt.Fprintf(&b, "- **Status:** %s\n", state.Status)
	fmt.Fprintf(&b, "- **Steps:** %d\n", state.Steps)
	if state.CurrentNode != "" {
		fmt.Fprintf(&b, "- **Current node:** `%s`\n", state.CurrentNode)
	}
	if runErr != nil {
		fmt.Fprintf(&b, "- **Error:** %s\n", runErr)
	}

	b.WriteString("\n## Data\n\n")
	if len(state.Data) == 0 {
		b.WriteString("_empty_\n")
	} else {
		keys := make([]string, 0, len(state.Data))
		for k := range state.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString("| Key | Value |\n|---|---|\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "| %s | %s |\n", k, cell(state.Data[k]))
		}
	}

	b.WriteString("\n## Execution log\n\n")
	for _, entry := range state.ExecutionLog {
		fmt.Fprintf(&b, "- `%s` **%s** %s\n", entry.Timestamp.Format("15:04:05.000"), entry.Level, entry.Message)
	}
	return b.String()
}

// cell renders a value for a markdown table cell.
func cell(v any) string {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	default:
		data, err := json.Marshal(t)
		if err != nil {
			s = fmt.Sprintf("%v", t)
		} else {
			s = string(data)
		}
	}
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
