package cli

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/aretw0/flowline/internal/compiler"
	"github.com/aretw0/flowline/internal/validator"
	"github.com/aretw0/flowline/pkg/domain"
)

// ValidationResult is the outcome of checking one definition file.
type ValidationResult struct {
	File     string
	Workflow string
	Err      error

	// MissingHandlers lists functions not registered with the engine.
	MissingHandlers []string

	// Unreachable lists nodes no path from the entry point reaches.
	// They are reported but do not fail the file.
	Unreachable []string
}

// OK reports whether the file parsed, validated and resolved every handler.
func (r ValidationResult) OK() bool {
	return r.Err == nil && len(r.MissingHandlers) == 0
}

// ValidateFiles checks each path (a file or a directory of definitions).
// knownHandlers, when non-nil, is used to report unresolved functions.
func ValidateFiles(paths []string, knownHandlers []string) ([]ValidationResult, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		found, err := DefinitionFiles(p)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}

	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		results = append(results, validateFile(file, knownHandlers))
	}
	return results, nil
}

func validateFile(file string, knownHandlers []string) ValidationResult {
	res := ValidationResult{File: file}

	g, err := compiler.ParseFile(file)
	if err != nil {
		res.Err = err
		return res
	}
	res.Workflow = g.Name

	if err := domain.Validate(g); err != nil {
		res.Err = err
		return res
	}
	res.Unreachable = validator.Unreachable(g)

	if knownHandlers != nil {
		for _, node := range g.Nodes {
			if !slices.Contains(knownHandlers, node.Handler) && !slices.Contains(res.MissingHandlers, node.Handler) {
				res.MissingHandlers = append(res.MissingHandlers, node.Handler)
			}
		}
		slices.Sort(res.MissingHandlers)
	}
	return res
}

// WriteValidation prints one line per result and returns the failure count.
func WriteValidation(w io.Writer, results []ValidationResult) int {
	failed := 0
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			fmt.Fprintf(w, "FAIL %s: %v\n", r.File, r.Err)
		case len(r.MissingHandlers) > 0:
			failed++
			fmt.Fprintf(w, "FAIL %s (%s): unregistered functions %v\n", r.File, r.Workflow, r.MissingHandlers)
		default:
			fmt.Fprintf(w, "ok   %s (%s)\n", r.File, r.Workflow)
		}
		if len(r.Unreachable) > 0 {
			fmt.Fprintf(w, "     warning: unreachable nodes %v\n", r.Unreachable)
		}
	}
	printSystemMessage(w, "%d file(s) checked, %d failed.", len(results), failed)
	return failed
}
