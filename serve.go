package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"dynamo-metrics-digest/api"
	"dynamo-metrics-digest/config"
	"dynamo-metrics-digest/logging"
	"dynamo-metrics-digest/metrics"
	"dynamo-metrics-digest/types"
)

func uiCmd() *cobra.Command {
	var configFile string

	command := &cobra.Command{
		Use:          "ui",
		Aliases:      []string{"serve"},
		Short:        "Serve the aggregated artifacts to the dashboard",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			if err := cfg.ValidateServe(); err != nil {
				return err
			}

			logging.InitLogger(cfg.Debug)
			logger := logging.GetLogger()

			store, err := api.NewStore(cfg.DataDir)
			if err != nil {
				return err
			}

			// Create broadcast channel
			broadcast := make(chan types.Broadcast)

			// Create and start the API server
			apiServer := api.New(cfg, logger, store, metrics.New(), broadcast)

			go func() {
				if err := apiServer.Serve(); err != nil {
					logger.Error().Err(err).Msg("Failed to start API server")
				}
			}()

			// Set up a channel to capture termination signals
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			// Block until a termination signal is received
			<-sigCh

			logger.Info().Msg("Received termination signal. Initiating graceful shutdown...")
			apiServer.Stop()
			logger.Info().Msg("Shutdown complete. Exiting.")

			return nil
		},
	}

	command.Flags().String("data", "./data", "Directory holding the artifacts")
	command.Flags().Uint("serverPort", 8041, "Port for the ui server")
	command.Flags().String("ui", "ui/build", "Directory with the dashboard static assets")
	command.Flags().Bool("debug", false, "Enable debug logging")
	command.Flags().StringVar(&configFile, "config", "", "Path to a config file")

	return command
}
