package digest

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"dynamo-metrics-digest/merge"
	"dynamo-metrics-digest/metrics"
	"dynamo-metrics-digest/parse"
	"dynamo-metrics-digest/peaks"
	"dynamo-metrics-digest/types"
	"dynamo-metrics-digest/walk"
)

// Digest runs a full ingestion pass over a log tree: discovery, metadata
// merge, datapoint parsing, peak tracking, and artifact serialization.
type Digest struct {
	config  *types.Config
	logger  *zerolog.Logger
	metrics *metrics.Metrics
	walker  *walk.Walker
}

// leafFile carries the identity of one metric file through processing.
type leafFile struct {
	path      string
	name      string
	kind      types.MetricKind
	operation string
	table     string
	region    string
	sample    string
}

// New validates the configured directories before any file is touched and
// returns a ready engine.
func New(config *types.Config, logger *zerolog.Logger, m *metrics.Metrics) (*Digest, error) {
	if err := config.ValidateLoad(); err != nil {
		return nil, err
	}

	return &Digest{
		config:  config,
		logger:  logger,
		metrics: m,
		walker:  walk.New(logger),
	}, nil
}

// Run executes the pass and writes the artifacts. An empty tree is not an
// error; it produces empty artifacts.
func (d *Digest) Run() (*types.RunSummary, error) {
	started := time.Now().UTC()

	disc, err := d.walker.Discover(d.config.LogsDir, d.config.SamplePrefix, d.config.Table)
	if err != nil {
		return nil, err
	}

	d.logger.Info().
		Int("samples", len(disc.Samples)).
		Int("regions", len(disc.Regions)).
		Int("tables", len(disc.Tables)).
		Int("operations", len(disc.Operations)).
		Msg("Discovered log tree")

	store := merge.NewStore()
	tracker := peaks.New(store, d.metrics)
	countSeries := NewSeriesStore()
	p99Series := NewSeriesStore()

	summary := &types.RunSummary{
		StartedAt:  started,
		Samples:    disc.Samples,
		Regions:    disc.Regions,
		Tables:     disc.Tables,
		Operations: disc.Operations,
	}

	d.mergeMetadata(disc, store, summary)
	d.collectSeries(disc, types.KindCount, countSeries, tracker, summary)
	d.collectSeries(disc, types.KindP99Latency, p99Series, tracker, summary)

	summary.DatapointsParsed = countSeries.Len() + p99Series.Len()
	summary.PeakUpdates = tracker.Updates()
	summary.TablesWithDetails = store.Size()
	summary.DurationSeconds = time.Since(started).Seconds()

	if err := d.writeArtifacts(countSeries, p99Series, store, tracker.Global(), summary); err != nil {
		return nil, err
	}

	d.logger.Info().
		Int("files", summary.FilesProcessed).
		Int("datapoints", summary.DatapointsParsed).
		Int("dropped", summary.RecordsDropped).
		Int("blocksMerged", summary.BlocksMerged).
		Int("peakUpdates", summary.PeakUpdates).
		Float64("seconds", summary.DurationSeconds).
		Msg("Digest complete")

	return summary, nil
}

// mergeMetadata parses each sample's metadata log exactly once, in
// lexical sample order, and folds every block into the store. Samples
// without the log are expected and noted at debug level only. The table
// filter does not apply here; detail for every table is kept.
func (d *Digest) mergeMetadata(disc *walk.Discovery, store *merge.Store, summary *types.RunSummary) {
	parser := parse.NewMetadata(d.logger)

	for _, sample := range disc.Samples {
		path := filepath.Join(d.config.LogsDir, sample, d.config.MetadataFile)
		content, err := os.ReadFile(path)
		if err != nil {
			d.logger.Debug().Str("sample", sample).Msg("No metadata log in sample")
			continue
		}

		blocks, discarded := parser.Parse(content)
		for _, block := range blocks {
			store.Apply(block)
		}

		summary.BlocksMerged += len(blocks)
		summary.BlocksDiscarded += discarded
		d.metrics.MetadataBlocks.WithLabelValues("merged").Add(float64(len(blocks)))
		d.metrics.MetadataBlocks.WithLabelValues("discarded").Add(float64(discarded))
	}
}

// collectSeries visits every operation, table, sample, and region in
// lexical order and parses the leaf files of one metric kind. Quadruples
// with no directory on disk are skipped without comment; absence is
// normal in a sparse tree.
func (d *Digest) collectSeries(disc *walk.Discovery, kind types.MetricKind, series *SeriesStore, tracker *peaks.Tracker, summary *types.RunSummary) {
	for _, operation := range disc.Operations {
		for _, table := range disc.Tables {
			for _, sample := range disc.Samples {
				for _, region := range disc.Regions {
					dir := filepath.Join(d.config.LogsDir, sample, region, table, operation, kind.Dir())
					info, err := os.Stat(dir)
					if err != nil || !info.IsDir() {
						continue
					}

					for _, name := range d.walker.LeafFiles(dir) {
						d.processFile(leafFile{
							path:      filepath.Join(dir, name),
							name:      name,
							kind:      kind,
							operation: operation,
							table:     table,
							region:    region,
							sample:    sample,
						}, series, tracker, summary)
					}
				}
			}
		}
	}
}

func (d *Digest) processFile(file leafFile, series *SeriesStore, tracker *peaks.Tracker, summary *types.RunSummary) {
	content, err := os.ReadFile(file.path)
	if err != nil {
		d.logger.Warn().Str("file", file.path).Err(err).Msg("Failed to read leaf file")
		d.metrics.RecordsDropped.WithLabelValues(metrics.ReasonUnreadableFile).Inc()
		summary.RecordsDropped++
		return
	}

	format := parse.Detect(content)
	d.metrics.FilesProcessed.WithLabelValues(string(format)).Inc()

	var parser parse.DatapointParser
	switch format {
	case parse.FormatStructured:
		parser = parse.NewStructured()
	case parse.FormatDelimited:
		parser = parse.NewDelimited(file.kind)
	default:
		d.logger.Warn().Str("file", file.path).Msg("Unrecognized file format, skipping")
		d.metrics.RecordsDropped.WithLabelValues(metrics.ReasonUnknownFormat).Inc()
		summary.RecordsDropped++
		return
	}

	points, dropped := parser.Parse(content)
	if dropped > 0 {
		d.logger.Debug().Str("file", file.path).Int("dropped", dropped).Msg("Dropped unusable records")
		d.metrics.RecordsDropped.WithLabelValues(metrics.ReasonParse).Add(float64(dropped))
		summary.RecordsDropped += dropped
	}

	for _, point := range points {
		series.Append(file.operation, types.SeriesPoint{
			Timestamp: point.Timestamp,
			Value:     point.Value,
			Table:     file.table,
			Region:    file.region,
			Sample:    file.sample,
		})

		value := point.Value
		tracker.Observe(file.table, file.region, file.operation, file.kind, point.Timestamp, &value)
	}

	d.metrics.DatapointsParsed.WithLabelValues(string(file.kind)).Add(float64(len(points)))

	summary.FilesProcessed++
	if walk.PeriodType(file.name) == walk.PeriodSevenDay {
		summary.SevenDayFiles++
	} else {
		summary.ThreeHourFiles++
	}
}
