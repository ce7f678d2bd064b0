package types

import "time"

// RunSummary describes one ingestion run for the log output, the summary
// artifact, and the dashboard.
type RunSummary struct {
	StartedAt       time.Time `json:"started_at"`
	DurationSeconds float64   `json:"duration_seconds"`

	Samples    []string `json:"samples"`
	Regions    []string `json:"regions"`
	Tables     []string `json:"tables"`
	Operations []string `json:"operations"`

	FilesProcessed    int `json:"files_processed"`
	ThreeHourFiles    int `json:"three_hour_files"`
	SevenDayFiles     int `json:"seven_day_files"`
	DatapointsParsed  int `json:"datapoints_parsed"`
	RecordsDropped    int `json:"records_dropped"`
	BlocksMerged      int `json:"blocks_merged"`
	BlocksDiscarded   int `json:"blocks_discarded"`
	PeakUpdates       int `json:"peak_updates"`
	TablesWithDetails int `json:"tables_with_details"`
}
