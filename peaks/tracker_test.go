package peaks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dynamo-metrics-digest/merge"
	"dynamo-metrics-digest/types"
)

func float64p(v float64) *float64 {
	return &v
}

func ts(minute int) time.Time {
	return time.Date(2025, 8, 5, 4, minute, 0, 0, time.UTC)
}

func TestObserveKeepsFirstTimestampOnTies(t *testing.T) {
	store := merge.NewStore()
	tracker := New(store, nil)

	tracker.Observe("users", "us-east-1", "GetItem", types.KindCount, ts(1), float64p(5))
	tracker.Observe("users", "us-east-1", "GetItem", types.KindCount, ts(2), float64p(9))
	tracker.Observe("users", "us-east-1", "GetItem", types.KindCount, ts(3), float64p(9))

	peak := tracker.Global().Lookup(types.KindCount, "us-east-1", "users", "GetItem")
	require.NotNil(t, peak)
	assert.Equal(t, 9.0, peak.Value)
	assert.Equal(t, ts(2), peak.Timestamp, "an equal value must not displace the earlier peak")
	assert.Equal(t, 2, tracker.Updates())
}

func TestObserveNilValueIsNoop(t *testing.T) {
	store := merge.NewStore()
	tracker := New(store, nil)

	tracker.Observe("users", "us-east-1", "GetItem", types.KindCount, ts(1), nil)

	assert.Nil(t, store.Lookup("users", "us-east-1"), "a nil value should not even create a record")
	assert.Nil(t, tracker.Global().Lookup(types.KindCount, "us-east-1", "users", "GetItem"))
	assert.Zero(t, tracker.Updates())
}

func TestObserveIndexesAgree(t *testing.T) {
	store := merge.NewStore()
	tracker := New(store, nil)

	tracker.Observe("users", "us-east-1", "GetItem", types.KindCount, ts(1), float64p(244))
	tracker.Observe("users", "us-east-1", "GetItem", types.KindP99Latency, ts(1), float64p(11.59))
	tracker.Observe("users", "us-east-1", "Query", types.KindCount, ts(2), float64p(80))
	tracker.Observe("orders", "eu-west-1", "GetItem", types.KindCount, ts(3), float64p(7))

	record := store.Lookup("users", "us-east-1")
	require.NotNil(t, record, "observing should create the metadata record")

	pair := record.PeakByOperation["GetItem"]
	require.NotNil(t, pair)
	assert.Equal(t, tracker.Global().Lookup(types.KindCount, "us-east-1", "users", "GetItem"), pair.Count)
	assert.Equal(t, tracker.Global().Lookup(types.KindP99Latency, "us-east-1", "users", "GetItem"), pair.P99)

	queryPair := record.PeakByOperation["Query"]
	require.NotNil(t, queryPair)
	assert.Equal(t, 80.0, queryPair.Count.Value)
	assert.Nil(t, queryPair.P99, "kinds are tracked independently")

	assert.NotNil(t, tracker.Global().Lookup(types.KindCount, "eu-west-1", "orders", "GetItem"))
	assert.Equal(t, 4, tracker.Updates())
}

func TestObserveLowerValueKeepsPeak(t *testing.T) {
	store := merge.NewStore()
	tracker := New(store, nil)

	tracker.Observe("users", "us-east-1", "GetItem", types.KindCount, ts(1), float64p(100))
	tracker.Observe("users", "us-east-1", "GetItem", types.KindCount, ts(2), float64p(40))

	peak := tracker.Global().Lookup(types.KindCount, "us-east-1", "users", "GetItem")
	require.NotNil(t, peak)
	assert.Equal(t, 100.0, peak.Value)
	assert.Equal(t, ts(1), peak.Timestamp)
	assert.Equal(t, 1, tracker.Updates())
}
