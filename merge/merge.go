package merge

import (
	"dynamo-metrics-digest/parse"
	"dynamo-metrics-digest/types"
)

// Store accumulates merged table metadata, keyed by table name and then
// region. Records are built up from however many metadata blocks mention
// the pair, under per-field merge policies.
type Store struct {
	tables map[string]map[string]*types.TableMetadataRecord
}

func NewStore() *Store {
	return &Store{tables: make(map[string]map[string]*types.TableMetadataRecord)}
}

// Ensure returns the record for a table and region, creating an empty one
// on first use.
func (s *Store) Ensure(table, region string) *types.TableMetadataRecord {
	byRegion, ok := s.tables[table]
	if !ok {
		byRegion = make(map[string]*types.TableMetadataRecord)
		s.tables[table] = byRegion
	}
	record, ok := byRegion[region]
	if !ok {
		record = types.NewTableMetadataRecord()
		byRegion[region] = record
	}
	return record
}

// Lookup returns the record for a table and region, or nil.
func (s *Store) Lookup(table, region string) *types.TableMetadataRecord {
	if byRegion, ok := s.tables[table]; ok {
		return byRegion[region]
	}
	return nil
}

// Apply folds one metadata block into the store. Numeric fields keep
// their maximum across blocks, the boolean flags stick once true, and the
// key schema and table class keep the first non-empty value seen.
func (s *Store) Apply(block parse.MetadataBlock) {
	record := s.Ensure(block.Table, block.Region)

	record.ItemCount = maxOrExisting(record.ItemCount, block.ItemCount)
	record.ReadCapacityUnits = maxOrExisting(record.ReadCapacityUnits, block.ReadCapacityUnits)
	record.WriteCapacityUnits = maxOrExisting(record.WriteCapacityUnits, block.WriteCapacityUnits)
	record.NumberOfDecreasesToday = maxOrExisting(record.NumberOfDecreasesToday, block.NumberOfDecreasesToday)

	record.HasLocalSecondaryIndexes = record.HasLocalSecondaryIndexes || block.HasLocalSecondaryIndexes
	record.HasReplicas = record.HasReplicas || block.HasReplicas
	record.StreamsEnabled = record.StreamsEnabled || block.StreamsEnabled

	if len(record.KeySchema) == 0 {
		record.KeySchema = block.KeySchema
	}
	if record.TableClass == "" {
		record.TableClass = block.TableClass
	}
}

// Tables exposes the merged records for serialization.
func (s *Store) Tables() map[string]map[string]*types.TableMetadataRecord {
	return s.tables
}

// Size counts the table and region records present.
func (s *Store) Size() int {
	n := 0
	for _, byRegion := range s.tables {
		n += len(byRegion)
	}
	return n
}

// maxOrExisting keeps the larger of two optional values. An absent
// existing value adopts the incoming one unconditionally, even when the
// incoming value is also absent.
func maxOrExisting(existing, incoming *int64) *int64 {
	if existing == nil {
		return incoming
	}
	if incoming == nil {
		return existing
	}
	if *incoming > *existing {
		return incoming
	}
	return existing
}
