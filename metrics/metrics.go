package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Drop reason labels for RecordsDropped.
const (
	ReasonParse          = "parse"
	ReasonUnknownFormat  = "unknown_format"
	ReasonUnreadableFile = "unreadable_file"
)

// Metrics holds the Prometheus instruments shared by the digest engine
// and the dashboard server.
type Metrics struct {
	FilesProcessed   *prometheus.CounterVec
	DatapointsParsed *prometheus.CounterVec
	RecordsDropped   *prometheus.CounterVec
	MetadataBlocks   *prometheus.CounterVec
	PeakUpdates      *prometheus.CounterVec
	ConnectedClients prometheus.Gauge
	BroadcastsSent   prometheus.Counter
}

var (
	once     sync.Once
	instance *Metrics
)

// New returns the process-wide metrics set, registering the collectors on
// first use. Later calls return the same instance, so commands can hand
// the set to every component without double registration.
func New() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			FilesProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "dynamodigest_files_processed_total",
				Help: "Leaf log files inspected, by detected format",
			}, []string{"format"}),
			DatapointsParsed: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "dynamodigest_datapoints_parsed_total",
				Help: "Datapoints extracted from leaf files, by metric kind",
			}, []string{"kind"}),
			RecordsDropped: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "dynamodigest_records_dropped_total",
				Help: "Records and files discarded during ingestion, by reason",
			}, []string{"reason"}),
			MetadataBlocks: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "dynamodigest_metadata_blocks_total",
				Help: "Metadata sections handled, by outcome",
			}, []string{"outcome"}),
			PeakUpdates: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "dynamodigest_peak_updates_total",
				Help: "Peak observations set or replaced, by metric kind",
			}, []string{"kind"}),
			ConnectedClients: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "dynamodigest_ws_clients",
				Help: "Currently connected dashboard websocket clients",
			}),
			BroadcastsSent: promauto.NewCounter(prometheus.CounterOpts{
				Name: "dynamodigest_broadcasts_sent_total",
				Help: "Messages pushed to websocket clients",
			}),
		}
	})
	return instance
}
