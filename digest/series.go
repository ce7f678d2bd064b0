package digest

import "dynamo-metrics-digest/types"

// DefaultOperations is the display set every series artifact carries even
// when no datapoints exist for it. Discovery adds any operation found on
// disk beyond these.
var DefaultOperations = []string{
	"BatchWriteItem",
	"DeleteItem",
	"GetItem",
	"PutItem",
	"Query",
	"Scan",
}

// SeriesStore collects provenance-tagged datapoints per operation.
type SeriesStore struct {
	points map[string][]types.SeriesPoint
}

// NewSeriesStore returns a store pre-seeded with an empty series for each
// default operation, so the artifact shape is stable across runs.
func NewSeriesStore() *SeriesStore {
	s := &SeriesStore{points: make(map[string][]types.SeriesPoint)}
	for _, operation := range DefaultOperations {
		s.points[operation] = []types.SeriesPoint{}
	}
	return s
}

// Append adds one point to an operation's series, creating the series for
// operations outside the default set.
func (s *SeriesStore) Append(operation string, point types.SeriesPoint) {
	s.points[operation] = append(s.points[operation], point)
}

// Points exposes the series map for serialization.
func (s *SeriesStore) Points() map[string][]types.SeriesPoint {
	return s.points
}

// Len totals the points across every operation.
func (s *SeriesStore) Len() int {
	n := 0
	for _, points := range s.points {
		n += len(points)
	}
	return n
}
