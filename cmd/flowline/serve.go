package main

import (
	"context"

	"github.com/aretw0/flowline/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts the workflow API. Runs are launched in the background and their
records are kept in the configured store (memory, redis or sqlite).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("port") {
			cfg.Server.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("store") {
			cfg.Store.Driver, _ = cmd.Flags().GetString("store")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		watch, _ := cmd.Flags().GetBool("watch")
		debounce, _ := cmd.Flags().GetDuration("watch-debounce")

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		return cli.Serve(sigCtx, cli.ServeOptions{
			Config:        cfg,
			Logger:        logger,
			Watch:         watch,
			WatchDebounce: debounce,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8000, "Port to listen on")
	serveCmd.Flags().String("store", "", "Run store driver: memory, redis or sqlite")
	serveCmd.Flags().Bool("watch", false, "Reload workflow definitions when they change")
	serveCmd.Flags().Duration("watch-debounce", cli.DefaultWatchDebounce, "How long --watch waits for file events to settle")
}
