package main

import (
	"fmt"

	"github.com/aretw0/flowline/internal/cli"
	"github.com/aretw0/flowline/internal/compiler"
	"github.com/aretw0/flowline/internal/presentation/graph"
	"github.com/aretw0/flowline/pkg/domain"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph [workflow]",
	Short: "Export a workflow as a Mermaid diagram",
	Long:  `Outputs a Mermaid diagram (graph TD) of a registered workflow or of the definition given with --file.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")

		var g domain.Graph
		switch {
		case file != "":
			var err error
			if g, err = compiler.ParseFile(file); err != nil {
				return err
			}
		case len(args) == 1:
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			engine, err := cli.CreateEngine(cli.EngineOptions{Config: cfg, Logger: logger})
			if err != nil {
				return err
			}
			if g, err = engine.Workflow(args[0]); err != nil {
				return err
			}
		default:
			return fmt.Errorf("pass a workflow name or --file")
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(g, nil))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("file", "f", "", "Workflow definition file")
}
