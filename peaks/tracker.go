package peaks

import (
	"time"

	"dynamo-metrics-digest/merge"
	"dynamo-metrics-digest/metrics"
	"dynamo-metrics-digest/types"
)

// Tracker maintains the running maxima in both index shapes at once: the
// per-operation slots inside each table's metadata record and the global
// kind-first index. Every observation goes through the same comparison,
// so the two views never disagree.
type Tracker struct {
	meta    *merge.Store
	global  types.GlobalPeakIndex
	metrics *metrics.Metrics
	updates int
}

func New(meta *merge.Store, m *metrics.Metrics) *Tracker {
	return &Tracker{
		meta:    meta,
		global:  make(types.GlobalPeakIndex),
		metrics: m,
	}
}

// Observe feeds one value into both indexes. A nil value is a no-op.
// Replacement requires a strictly greater value, so ties keep the
// first-seen timestamp. Observing a table with no metadata record yet
// creates one.
func (t *Tracker) Observe(table, region, operation string, kind types.MetricKind, timestamp time.Time, value *float64) {
	if value == nil {
		return
	}

	pair := t.meta.Ensure(table, region).EnsurePeakPair(operation)
	slot := &pair.Count
	if kind == types.KindP99Latency {
		slot = &pair.P99
	}

	if !better(*slot, *value) {
		return
	}

	observation := &types.PeakObservation{Timestamp: timestamp, Value: *value}
	*slot = observation
	t.global.Ensure(kind, region, table)[operation] = observation

	t.updates++
	if t.metrics != nil {
		t.metrics.PeakUpdates.WithLabelValues(string(kind)).Inc()
	}
}

// Global returns the cross-table index.
func (t *Tracker) Global() types.GlobalPeakIndex {
	return t.global
}

// Updates counts how many times a peak was set or replaced.
func (t *Tracker) Updates() int {
	return t.updates
}

func better(current *types.PeakObservation, value float64) bool {
	return current == nil || value > current.Value
}
