package parse

import (
	"time"

	"github.com/tidwall/gjson"

	"dynamo-metrics-digest/types"
)

// structuredTimeLayout is the only timestamp form structured records may
// carry. The trailing Z is literal, so offset-form timestamps do not parse.
const structuredTimeLayout = "2006-01-02T15:04:05Z"

// StructuredParser reads the JSON body of a GetMetricStatistics response:
// a Datapoints array whose entries carry a Timestamp plus either a
// SampleCount or a nested ExtendedStatistics.p99 value. The parser does
// not care which metric kind the file sits under; whichever value field
// is present wins.
type StructuredParser struct{}

func NewStructured() *StructuredParser {
	return &StructuredParser{}
}

// Parse extracts the usable datapoints and reports how many records were
// skipped. Records missing a parsable timestamp or both value fields are
// dropped without failing the file.
func (p *StructuredParser) Parse(content []byte) ([]types.Datapoint, int) {
	records := gjson.GetBytes(content, "Datapoints")
	if !records.IsArray() {
		return nil, 0
	}

	var (
		points  []types.Datapoint
		dropped int
	)

	for _, record := range records.Array() {
		when, err := time.Parse(structuredTimeLayout, record.Get("Timestamp").String())
		if err != nil {
			dropped++
			continue
		}

		value, ok := recordValue(record)
		if !ok {
			dropped++
			continue
		}

		points = append(points, types.Datapoint{Timestamp: when.UTC(), Value: value})
	}

	return points, dropped
}

// recordValue prefers the direct sample count and falls back to the nested
// p99 extended statistic. Explicit nulls count as absent.
func recordValue(record gjson.Result) (float64, bool) {
	if v := record.Get("SampleCount"); v.Exists() && v.Type != gjson.Null {
		return v.Float(), true
	}
	if v := record.Get("ExtendedStatistics.p99"); v.Exists() && v.Type != gjson.Null {
		return v.Float(), true
	}
	return 0, false
}
