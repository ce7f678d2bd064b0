package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dynamo-metrics-digest",
		Short: "Aggregate DynamoDB CloudWatch metric logs into queryable artifacts",
		Long: `dynamo-metrics-digest ingests the per-sample metric log trees written by
the collection tooling (sample counts, P99 latencies, and table metadata)
and merges them into time-series, metadata, and peak artifacts. The ui
mode serves the artifacts to an interactive dashboard.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(loadCmd())
	rootCmd.AddCommand(uiCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
