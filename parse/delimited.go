package parse

import (
	"strconv"
	"strings"
	"time"

	"dynamo-metrics-digest/types"
)

const (
	markerDatapoints    = "DATAPOINTS"
	markerExtendedStats = "EXTENDEDSTATISTICS"
)

// delimitedTimeLayouts are tried in order; the first that parses wins.
var delimitedTimeLayouts = []string{
	"2006-01-02T15:04:05-07:00",
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05",
}

// DelimitedParser reads the text form of the metric logs. Count files
// carry one datapoint per line (marker, value, timestamp, unit). Latency
// files split each datapoint across a timestamp-bearing DATAPOINTS line
// and the EXTENDEDSTATISTICS value line that follows it; either half
// without its partner is an orphan and is dropped.
type DelimitedParser struct {
	kind types.MetricKind
}

func NewDelimited(kind types.MetricKind) *DelimitedParser {
	return &DelimitedParser{kind: kind}
}

func (p *DelimitedParser) Parse(content []byte) ([]types.Datapoint, int) {
	lines := strings.Split(string(content), "\n")

	sep := fileSeparator(lines)
	if sep == "" {
		return nil, 0
	}

	if p.kind == types.KindP99Latency {
		return p.parseTwoLine(lines, sep)
	}
	return p.parseSingleLine(lines, sep)
}

// fileSeparator picks the field separator for the whole file from its
// first non-empty line.
func fileSeparator(lines []string) string {
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		for _, sep := range separators {
			if strings.Contains(line, sep) {
				return sep
			}
		}
		return ""
	}
	return ""
}

func (p *DelimitedParser) parseSingleLine(lines []string, sep string) ([]types.Datapoint, int) {
	var (
		points  []types.Datapoint
		dropped int
	)

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := splitAndTrim(line, sep)
		if fields[0] != markerDatapoints || len(fields) < 3 {
			dropped++
			continue
		}

		value, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			dropped++
			continue
		}

		when, ok := parseDelimitedTime(fields[2])
		if !ok {
			dropped++
			continue
		}

		points = append(points, types.Datapoint{Timestamp: when, Value: value})
	}

	return points, dropped
}

func (p *DelimitedParser) parseTwoLine(lines []string, sep string) ([]types.Datapoint, int) {
	var (
		points  []types.Datapoint
		dropped int
		pending *time.Time
	)

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := splitAndTrim(line, sep)
		switch fields[0] {
		case markerDatapoints:
			if len(fields) < 2 {
				dropped++
				continue
			}
			when, ok := parseDelimitedTime(fields[1])
			if !ok {
				dropped++
				continue
			}
			if pending != nil {
				// A second timestamp before a value line orphans the first.
				dropped++
			}
			pending = &when
		case markerExtendedStats:
			if pending == nil {
				dropped++
				continue
			}
			value, ok := lastFloatField(fields[1:])
			if !ok {
				// The pair is lost as one record.
				pending = nil
				dropped++
				continue
			}
			points = append(points, types.Datapoint{Timestamp: *pending, Value: value})
			pending = nil
		default:
			dropped++
		}
	}

	if pending != nil {
		dropped++
	}

	return points, dropped
}

// lastFloatField returns the rightmost field that parses as a number,
// tolerating a statistic-name column before the value.
func lastFloatField(fields []string) (float64, bool) {
	for i := len(fields) - 1; i >= 0; i-- {
		if v, err := strconv.ParseFloat(fields[i], 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

func parseDelimitedTime(field string) (time.Time, bool) {
	for _, layout := range delimitedTimeLayouts {
		if when, err := time.Parse(layout, field); err == nil {
			return when.UTC(), true
		}
	}
	return time.Time{}, false
}
