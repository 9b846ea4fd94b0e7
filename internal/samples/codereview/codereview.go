// Package codereview is the sample workflow registered by `flowline serve`:
// a naive static review of Python source passed in the "code" key.
package codereview

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/flowline/pkg/domain"
	"github.com/aretw0/flowline/pkg/dsl"
	"github.com/aretw0/flowline/pkg/registry"
)

// WorkflowName is the name the sample graph is registered under.
const WorkflowName = "code_review"

// QualityThreshold is the minimum score for quality_meets_threshold.
const QualityThreshold = 70

// Registrar is satisfied by *flowline.Engine.
type Registrar interface {
	RegisterFunc(name string, fn registry.Func)
	RegisterWorkflow(g domain.Graph) error
}

// Handlers returns the sample handlers keyed by name.
func Handlers() map[string]registry.Func {
	return map[string]registry.Func{
		"extract_functions":    ExtractFunctions,
		"check_complexity":     CheckComplexity,
		"detect_issues":        DetectIssues,
		"suggest_improvements": SuggestImprovements,
		"end_workflow":         EndWorkflow,
	}
}

// Graph returns the code review workflow.
// suggest_improvements returns a non-empty mapping, which is truthy, so the
// "false" edge back to extraction is only taken by handlers that override it.
func Graph() domain.Graph {
	return dsl.New(WorkflowName).Entry("extract_functions").Input("code", "string?").
		Task("extract_functions", "extract_functions").Go("check_complexity").
		Task("check_complexity", "check_complexity").Go("detect_issues").
		Task("detect_issues", "detect_issues").Go("suggest_improvements").
		Condition("suggest_improvements", "suggest_improvements").
		OnTrue("end_workflow").OnFalse("extract_functions").
		Task("end_workflow", "end_workflow").Terminal().
		MustBuild()
}

// Register installs the handlers and the workflow.
func Register(r Registrar) error {
	for name, fn := range Handlers() {
		r.RegisterFunc(name, fn)
	}
	return r.RegisterWorkflow(Graph())
}

// ExtractFunctions lists `def` statements in the "code" input.
func ExtractFunctions(ctx context.Context, state *domain.State) (any, error) {
	functions := []map[string]any{}
	for i, line := range codeLines(state) {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "def ") {
			continue
		}
		name := strings.TrimPrefix(trimmed, "def ")
		if idx := strings.Index(name, "("); idx >= 0 {
			name = name[:idx]
		}
		functions = append(functions, map[string]any{"name": strings.TrimSpace(name), "line": i + 1})
	}

	state.AddLog(fmt.Sprintf("Extracted %d functions from code", len(functions)))
	return domain.Update{
		"extracted_functions": functions,
		"function_count":      len(functions),
	}, nil
}

// CheckComplexity grades each extracted function by its length.
func CheckComplexity(ctx context.Context, state *domain.State) (any, error) {
	lines := codeLines(state)
	scores := map[string]any{}

	for _, fn := range functionsFrom(state.Data["extracted_functions"]) {
		start := fn.line
		if start < 1 || start > len(lines) {
			continue
		}
		end := len(lines)
		indent := indentOf(lines[start-1])
		for i := start; i < len(lines); i++ {
			trimmed := strings.TrimSpace(lines[i])
			if trimmed != "" && indentOf(lines[i]) <= indent && !strings.HasPrefix(trimmed, "#") {
				end = i
				break
			}
		}

		count := end - start
		complexity := "low"
		switch {
		case count > 20:
			complexity = "high"
		case count > 10:
			complexity = "medium"
		}
		scores[fn.name] = map[string]any{"line_count": count, "complexity": complexity}
	}

	state.AddLog(fmt.Sprintf("Analyzed complexity for %d functions", len(scores)))
	return domain.Update{"complexity_analysis": scores}, nil
}

// DetectIssues flags print calls and TODO/FIXME markers.
func DetectIssues(ctx context.Context, state *domain.State) (any, error) {
	issues := []map[string]any{}
	for i, line := range codeLines(state) {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "print(") {
			issues = append(issues, map[string]any{
				"line":     i + 1,
				"type":     "debug_code",
				"message":  "Print statement detected - consider using proper logging",
				"severity": "low",
			})
		}
		upper := strings.ToUpper(trimmed)
		if strings.Contains(upper, "TODO") || strings.Contains(upper, "FIXME") {
			issues = append(issues, map[string]any{
				"line":     i + 1,
				"type":     "todo",
				"message":  "TODO/FIXME comment found",
				"severity": "info",
			})
		}
	}

	state.AddLog(fmt.Sprintf("Detected %d potential issues in the code", len(issues)))
	return domain.Update{"issues": issues, "issue_count": len(issues)}, nil
}

// SuggestImprovements turns the analysis into suggestions and a quality score.
func SuggestImprovements(ctx context.Context, state *domain.State) (any, error) {
	suggestions := []map[string]any{}

	complexity, _ := state.Data["complexity_analysis"].(map[string]any)
	for _, name := range sortedKeys(complexity) {
		data, _ := complexity[name].(map[string]any)
		if data["complexity"] == "high" {
			suggestions = append(suggestions, map[string]any{
				"type":   "refactor",
				"target": name,
				"suggestion": fmt.Sprintf("Function '%s' is complex (lines: %v). Consider breaking it down into smaller functions.",
					name, data["line_count"]),
			})
		}
	}

	for _, issue := range mapsFrom(state.Data["issues"]) {
		if issue["type"] == "debug_code" {
			suggestions = append(suggestions, map[string]any{
				"type":       "improvement",
				"target":     fmt.Sprintf("Line %v", issue["line"]),
				"suggestion": "Replace print() with proper logging",
			})
		}
	}

	issueCount := toInt(state.Data["issue_count"], 0)
	functionCount := toInt(state.Data["function_count"], 1)
	score := max(0, 100-issueCount*2-functionCount*5)

	state.AddLog(fmt.Sprintf("Generated %d improvement suggestions", len(suggestions)))
	return domain.Update{
		"suggestions":             suggestions,
		"quality_score":           score,
		"quality_meets_threshold": score >= QualityThreshold,
	}, nil
}

// EndWorkflow marks the review as finished.
func EndWorkflow(ctx context.Context, state *domain.State) (any, error) {
	state.AddLog("Workflow completed successfully")
	return domain.Update{"status": "completed", "message": "Workflow execution finished"}, nil
}
