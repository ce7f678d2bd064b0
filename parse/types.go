package parse

import "dynamo-metrics-digest/types"

// Format classifies the content of a leaf log file.
type Format string

const (
	FormatStructured Format = "structured-records"
	FormatDelimited  Format = "delimited-text"
	FormatUnknown    Format = "unknown"
)

// DatapointParser turns raw file content into datapoints. Implementations
// never fail the whole file: records that cannot be used are dropped and
// reported in the second return value.
type DatapointParser interface {
	Parse(content []byte) ([]types.Datapoint, int)
}

// MetadataBlock is one parsed section of the table metadata log. Pointer
// fields keep "not reported" distinct from zero, which the merge policies
// rely on.
type MetadataBlock struct {
	Table  string
	Region string

	ItemCount                *int64
	KeySchema                []types.KeySchemaElement
	ReadCapacityUnits        *int64
	WriteCapacityUnits       *int64
	NumberOfDecreasesToday   *int64
	HasLocalSecondaryIndexes bool
	HasReplicas              bool
	StreamsEnabled           bool
	TableClass               string
}
