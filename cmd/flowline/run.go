package main

import (
	"context"
	"os"

	"github.com/aretw0/flowline/internal/cli"
	"github.com/aretw0/flowline/internal/presentation/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var runCmd = &cobra.Command{
	Use:   "run [workflow]",
	Short: "Run a workflow once and print its final state",
	Long: `Executes a workflow synchronously. The workflow is either registered
(bundled sample, --workflows directory) or defined in the file given with --file.`,
	Example: `  flowline run code_review --input '{"code": "def f():\n    pass"}'
  flowline run --file review.yaml --input @input.json --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		engine, err := cli.CreateEngine(cli.EngineOptions{Config: cfg, Logger: logger})
		if err != nil {
			return err
		}

		opts := cli.RunOptions{Output: cmd.OutOrStdout()}
		if len(args) > 0 {
			opts.Workflow = args[0]
		}
		opts.File, _ = cmd.Flags().GetString("file")
		opts.Input, _ = cmd.Flags().GetString("input")
		opts.JSON, _ = cmd.Flags().GetBool("json")

		if !opts.JSON && term.IsTerminal(int(os.Stdout.Fd())) {
			if renderer, err := tui.NewRenderer(100); err == nil {
				opts.Renderer = renderer
			} else {
				logger.Warn("markdown renderer unavailable", "err", err)
			}
		}

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		_, err = cli.Run(sigCtx, engine, opts)
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("file", "f", "", "Workflow definition file to load before running")
	runCmd.Flags().StringP("input", "i", "", "Initial data as JSON, or @path to a JSON file")
	runCmd.Flags().Bool("json", false, "Print the final state as JSON")
}
