package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredParse(t *testing.T) {
	content := `{
  "Label": "SuccessfulRequestLatency",
  "Datapoints": [
    {"Timestamp": "2025-08-05T04:43:00Z", "SampleCount": 244.0, "Unit": "Count"},
    {"Timestamp": "2025-08-05T04:44:00Z", "ExtendedStatistics": {"p99": 11.59}, "Unit": "Milliseconds"},
    {"Timestamp": "2025-08-05T04:45:00Z", "Unit": "Count"},
    {"SampleCount": 12.0, "Unit": "Count"},
    {"Timestamp": "2025-08-05T04:46:00+00:00", "SampleCount": 7.0}
  ]
}`

	points, dropped := NewStructured().Parse([]byte(content))

	require.Len(t, points, 2, "records without a usable timestamp or value should be dropped")
	assert.Equal(t, 3, dropped)

	assert.Equal(t, time.Date(2025, 8, 5, 4, 43, 0, 0, time.UTC), points[0].Timestamp)
	assert.Equal(t, 244.0, points[0].Value)
	assert.Equal(t, 11.59, points[1].Value, "p99 should fill in when SampleCount is absent")
}

func TestStructuredParseValuePreference(t *testing.T) {
	content := `{"Datapoints": [
    {"Timestamp": "2025-08-05T04:43:00Z", "SampleCount": 5.0, "ExtendedStatistics": {"p99": 9.0}}
  ]}`

	points, dropped := NewStructured().Parse([]byte(content))

	require.Len(t, points, 1)
	assert.Zero(t, dropped)
	assert.Equal(t, 5.0, points[0].Value, "SampleCount wins when both values are present")
}

func TestStructuredParseNullValues(t *testing.T) {
	content := `{"Datapoints": [
    {"Timestamp": "2025-08-05T04:43:00Z", "SampleCount": null},
    {"Timestamp": "2025-08-05T04:44:00Z", "SampleCount": null, "ExtendedStatistics": {"p99": 3.2}}
  ]}`

	points, dropped := NewStructured().Parse([]byte(content))

	require.Len(t, points, 1, "an explicit null should count as absent")
	assert.Equal(t, 1, dropped)
	assert.Equal(t, 3.2, points[0].Value)
}

func TestStructuredParseDegenerateDocuments(t *testing.T) {
	t.Run("no Datapoints key", func(t *testing.T) {
		points, dropped := NewStructured().Parse([]byte(`{"Label": "x"}`))
		assert.Empty(t, points)
		assert.Zero(t, dropped)
	})

	t.Run("Datapoints is not an array", func(t *testing.T) {
		points, dropped := NewStructured().Parse([]byte(`{"Datapoints": {"Timestamp": "2025-08-05T04:43:00Z"}}`))
		assert.Empty(t, points)
		assert.Zero(t, dropped)
	})

	t.Run("empty array", func(t *testing.T) {
		points, dropped := NewStructured().Parse([]byte(`{"Datapoints": []}`))
		assert.Empty(t, points)
		assert.Zero(t, dropped)
	})
}
