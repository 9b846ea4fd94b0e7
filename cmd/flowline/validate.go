package main

import (
	"fmt"

	"github.com/aretw0/flowline/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [path...]",
	Short: "Check workflow definitions for consistency",
	Long: `Parses each definition file (or every definition in a directory), checks
the graph structure and reports functions that are not registered.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		paths := args
		if len(paths) == 0 {
			if cfg.WorkflowsDir == "" {
				return fmt.Errorf("no definitions given (pass paths or --workflows)")
			}
			paths = []string{cfg.WorkflowsDir}
		}

		// Definitions are checked on their own, not registered.
		cfg.WorkflowsDir = ""
		engine, err := cli.CreateEngine(cli.EngineOptions{Config: cfg, Logger: logger})
		if err != nil {
			return err
		}

		results, err := cli.ValidateFiles(paths, engine.HandlerNames())
		if err != nil {
			return err
		}
		if failed := cli.WriteValidation(cmd.OutOrStdout(), results); failed > 0 {
			return fmt.Errorf("validation failed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
