package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/flowline"
	"github.com/aretw0/flowline/internal/compiler"
	"github.com/aretw0/flowline/pkg/domain"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	// Workflow names a registered workflow. When File is set it may be
	// empty, and the workflow defined in File runs.
	Workflow string
	File     string

	// Input is inline JSON or @path.
	Input string

	JSON     bool
	Output   io.Writer
	Renderer flowline.ContentRenderer
}

// Run executes one workflow synchronously and writes its report.
func Run(ctx context.Context, engine *flowline.Engine, opts RunOptions) (*domain.State, error) {
	input, err := ParseInput(opts.Input)
	if err != nil {
		return nil, err
	}

	workflow := opts.Workflow
	if opts.File != "" {
		g, err := compiler.ParseFile(opts.File)
		if err != nil {
			return nil, err
		}
		if err := engine.RegisterWorkflow(g); err != nil {
			return nil, fmt.Errorf("%s: %w", opts.File, err)
		}
		if workflow == "" {
			workflow = g.Name
		}
	}
	if workflow == "" {
		return nil, fmt.Errorf("a workflow name or definition file is required")
	}

	runner := flowline.NewRunner(opts.Output)
	runner.Headless = opts.JSON
	runner.Renderer = opts.Renderer
	return runner.Run(ctx, engine, workflow, input)
}
