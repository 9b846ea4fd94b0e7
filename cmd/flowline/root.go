package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/flowline/internal/cli"
	"github.com/aretw0/flowline/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "flowline",
	Short: "Flowline runs graph-defined workflows",
	Long: `Flowline executes workflows defined as graphs of nodes bound to named functions.
Workflows can be run once from the command line or served over HTTP and MCP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("workflows", "", "Directory of workflow definitions to load")
	rootCmd.PersistentFlags().String("handlers", "", "YAML file of external process handlers")
	rootCmd.PersistentFlags().Bool("no-samples", false, "Do not register the bundled sample workflows")
}

// loadConfig reads --config and applies the persistent flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("workflows") {
		cfg.WorkflowsDir, _ = cmd.Flags().GetString("workflows")
	}
	if cmd.Flags().Changed("handlers") {
		cfg.HandlersFile, _ = cmd.Flags().GetString("handlers")
	}
	if noSamples, _ := cmd.Flags().GetBool("no-samples"); noSamples {
		cfg.Server.Samples = false
	}

	logger, err := cli.NewLogger(cfg.LogLevel)
	if err != nil {
		return cfg, nil, err
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}
