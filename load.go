package main

import (
	"github.com/spf13/cobra"

	"dynamo-metrics-digest/config"
	"dynamo-metrics-digest/digest"
	"dynamo-metrics-digest/logging"
	"dynamo-metrics-digest/metrics"
)

func loadCmd() *cobra.Command {
	var configFile string

	command := &cobra.Command{
		Use:          "load",
		Short:        "Ingest a log tree and write the aggregate artifacts",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}

			logging.InitLogger(cfg.Debug)
			logger := logging.GetLogger()

			engine, err := digest.New(cfg, logger, metrics.New())
			if err != nil {
				return err
			}

			summary, err := engine.Run()
			if err != nil {
				return err
			}

			logger.Info().
				Str("dataDir", cfg.DataDir).
				Int("tables", len(summary.Tables)).
				Int("datapoints", summary.DatapointsParsed).
				Msg("Artifacts written")

			return nil
		},
	}

	command.Flags().String("folder", ".", "Root folder containing the sample directories")
	command.Flags().String("data", "./data", "Destination directory for the artifacts")
	command.Flags().String("table", "", "Limit series processing to a single table")
	command.Flags().String("samplePrefix", "dynamo_metrics_logs_", "Sample directory name prefix")
	command.Flags().String("metadataFile", "table_detailed.log", "Per-sample metadata log filename")
	command.Flags().Bool("debug", false, "Enable debug logging")
	command.Flags().StringVar(&configFile, "config", "", "Path to a config file")

	return command
}
