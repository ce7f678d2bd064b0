package types

import "time"

// KeySchemaElement is one entry of a table's key schema, in declaration order.
type KeySchemaElement struct {
	Role      string `json:"role"`
	Attribute string `json:"attribute"`
}

// PeakObservation is the largest value seen for a key and when it was seen.
type PeakObservation struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// PeakPair holds the per-metric peaks of one operation.
type PeakPair struct {
	Count *PeakObservation `json:"Count"`
	P99   *PeakObservation `json:"P99"`
}

// TableMetadataRecord is the merged description of one table in one region.
// Numeric fields are pointers so that "never reported" stays distinct from
// zero; the merge policies depend on that distinction.
type TableMetadataRecord struct {
	ItemCount                *int64               `json:"ItemCount"`
	KeySchema                []KeySchemaElement   `json:"KeySchema"`
	ReadCapacityUnits        *int64               `json:"ReadCapacityUnits"`
	WriteCapacityUnits       *int64               `json:"WriteCapacityUnits"`
	NumberOfDecreasesToday   *int64               `json:"NumberOfDecreasesToday"`
	HasLocalSecondaryIndexes bool                 `json:"HasLocalSecondaryIndexes"`
	HasReplicas              bool                 `json:"HasReplicas"`
	StreamsEnabled           bool                 `json:"StreamsEnabled"`
	TableClass               string               `json:"TableClass"`
	PeakByOperation          map[string]*PeakPair `json:"PeakByOperation"`
}

// NewTableMetadataRecord returns an empty record with its peak map ready.
func NewTableMetadataRecord() *TableMetadataRecord {
	return &TableMetadataRecord{
		PeakByOperation: make(map[string]*PeakPair),
	}
}

// EnsurePeakPair returns the operation's peak pair, creating it if missing.
func (r *TableMetadataRecord) EnsurePeakPair(operation string) *PeakPair {
	if r.PeakByOperation == nil {
		r.PeakByOperation = make(map[string]*PeakPair)
	}
	pair, ok := r.PeakByOperation[operation]
	if !ok {
		pair = &PeakPair{}
		r.PeakByOperation[operation] = pair
	}
	return pair
}

// GlobalPeakIndex is the cross-table view of the same peak facts, indexed
// kind, then region, then table, then operation.
type GlobalPeakIndex map[MetricKind]map[string]map[string]map[string]*PeakObservation

// Ensure returns the operation slot for the given key path, creating every
// intermediate map on the way.
func (g GlobalPeakIndex) Ensure(kind MetricKind, region, table string) map[string]*PeakObservation {
	byRegion, ok := g[kind]
	if !ok {
		byRegion = make(map[string]map[string]map[string]*PeakObservation)
		g[kind] = byRegion
	}
	byTable, ok := byRegion[region]
	if !ok {
		byTable = make(map[string]map[string]*PeakObservation)
		byRegion[region] = byTable
	}
	byOp, ok := byTable[table]
	if !ok {
		byOp = make(map[string]*PeakObservation)
		byTable[table] = byOp
	}
	return byOp
}

// Lookup returns the peak for a full key, or nil when none was recorded.
func (g GlobalPeakIndex) Lookup(kind MetricKind, region, table, operation string) *PeakObservation {
	if byRegion, ok := g[kind]; ok {
		if byTable, ok := byRegion[region]; ok {
			if byOp, ok := byTable[table]; ok {
				return byOp[operation]
			}
		}
	}
	return nil
}
