package types

import "time"

// MetricKind selects which of the two collected metrics a value belongs to.
type MetricKind string

const (
	KindCount      MetricKind = "Count"
	KindP99Latency MetricKind = "P99"
)

// Dir returns the leaf directory name the collector uses for this kind.
func (k MetricKind) Dir() string {
	if k == KindCount {
		return "sample_count"
	}
	return "p99_latency"
}

// Datapoint is one parsed observation from a leaf log file.
type Datapoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// SeriesPoint is a Datapoint tagged with its provenance in the sample tree.
type SeriesPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
	Table     string    `json:"table"`
	Region    string    `json:"region"`
	Sample    string    `json:"sample"`
}
