package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Format
	}{
		{"json document", `{"Datapoints": []}`, FormatStructured},
		{"json with surrounding whitespace", "\n  {\"Label\": \"SuccessfulRequestLatency\"}\n", FormatStructured},
		{"comma separated", "DATAPOINTS,244.0,2025-08-05T04:43:00+00:00,Count", FormatDelimited},
		{"tab separated", "DATAPOINTS\t244.0\t2025-08-05T04:43:00+00:00\tCount", FormatDelimited},
		{"semicolon separated", "DATAPOINTS;244.0;2025-08-05T04:43:00+00:00;Count", FormatDelimited},
		{"blank lines before first record", "\n\nDATAPOINTS,1.0,2025-08-05T04:43:00+00:00", FormatDelimited},
		{"prose without separators", "nothing to see here", FormatUnknown},
		{"empty content", "", FormatUnknown},
		{"whitespace only", "  \n\t\n", FormatUnknown},
		{"truncated json without separators", `{"Datapoints": [`, FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect([]byte(tt.content)))
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"DATAPOINTS", "244.0", "Count"}, splitAndTrim("DATAPOINTS , 244.0 ,Count ", ","))
	assert.Equal(t, []string{"a"}, splitAndTrim(" a ", ";"))
}
