package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/flowline/internal/compiler"
	"github.com/aretw0/flowline/pkg/domain"
)

// WorkflowRegistrar is satisfied by *flowline.Engine.
type WorkflowRegistrar interface {
	RegisterWorkflow(g domain.Graph) error
}

// definitionExts are the file extensions read as workflow definitions.
var definitionExts = []string{".yaml", ".yml", ".json"}

// DefinitionFiles lists the definition files directly under dir, sorted.
func DefinitionFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflows dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if slices.Contains(definitionExts, strings.ToLower(filepath.Ext(e.Name()))) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(files)
	return files, nil
}

// LoadWorkflows parses every definition under dir and registers it.
// The first failing file aborts the load.
func LoadWorkflows(r WorkflowRegistrar, dir string) ([]string, error) {
	files, err := DefinitionFiles(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(files))
	for _, file := range files {
		g, err := compiler.ParseFile(file)
		if err != nil {
			return names, err
		}
		if err := r.RegisterWorkflow(g); err != nil {
			return names, fmt.Errorf("%s: %w", file, err)
		}
		names = append(names, g.Name)
	}
	return names, nil
}
