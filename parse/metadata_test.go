package parse

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dynamo-metrics-digest/types"
)

func newTestMetadataParser() *MetadataParser {
	logger := zerolog.Nop()
	return NewMetadata(&logger)
}

func TestMetadataParseJSONSection(t *testing.T) {
	content := `=== Table: users (Region: us-east-1) ===
Region: us-east-1 | {
Region: us-east-1 |   "Table": {
Region: us-east-1 |     "TableName": "users",
Region: us-east-1 |     "ItemCount": 1200,
Region: us-east-1 |     "KeySchema": [
Region: us-east-1 |       {"AttributeName": "user_id", "KeyType": "HASH"},
Region: us-east-1 |       {"AttributeName": "created_at", "KeyType": "RANGE"}
Region: us-east-1 |     ],
Region: us-east-1 |     "ProvisionedThroughput": {
Region: us-east-1 |       "ReadCapacityUnits": 100,
Region: us-east-1 |       "WriteCapacityUnits": 50,
Region: us-east-1 |       "NumberOfDecreasesToday": 2
Region: us-east-1 |     },
Region: us-east-1 |     "StreamSpecification": {"StreamEnabled": true},
Region: us-east-1 |     "TableClassSummary": {"TableClass": "STANDARD"},
Region: us-east-1 |     "Replicas": [{"RegionName": "eu-west-1"}]
Region: us-east-1 |   }
Region: us-east-1 | }
`

	blocks, discarded := newTestMetadataParser().Parse([]byte(content))

	require.Len(t, blocks, 1)
	assert.Zero(t, discarded)

	block := blocks[0]
	assert.Equal(t, "users", block.Table)
	assert.Equal(t, "us-east-1", block.Region)
	require.NotNil(t, block.ItemCount)
	assert.Equal(t, int64(1200), *block.ItemCount)
	require.NotNil(t, block.ReadCapacityUnits)
	assert.Equal(t, int64(100), *block.ReadCapacityUnits)
	require.NotNil(t, block.WriteCapacityUnits)
	assert.Equal(t, int64(50), *block.WriteCapacityUnits)
	require.NotNil(t, block.NumberOfDecreasesToday)
	assert.Equal(t, int64(2), *block.NumberOfDecreasesToday)
	assert.Equal(t, []types.KeySchemaElement{
		{Role: "HASH", Attribute: "user_id"},
		{Role: "RANGE", Attribute: "created_at"},
	}, block.KeySchema)
	assert.False(t, block.HasLocalSecondaryIndexes)
	assert.True(t, block.HasReplicas)
	assert.True(t, block.StreamsEnabled)
	assert.Equal(t, "STANDARD", block.TableClass)
}

func TestMetadataParseBoxedSection(t *testing.T) {
	content := `=== Table: orders (Region: eu-central-1) ===
||  Main Table Attributes  ||
|  ItemCount  |  50000  |
|  ReadCapacityUnits  |  200  |
|  WriteCapacityUnits  |  100  |
|  NumberOfDecreasesToday  |  1  |
|  TableClass  |  STANDARD_INFREQUENT_ACCESS  |
|  StreamEnabled  |  True  |
||  KeySchema  ||
|  order_id  |  HASH  |
|  order_date  |  RANGE  |
||  LocalSecondaryIndexes  ||
`

	blocks, discarded := newTestMetadataParser().Parse([]byte(content))

	require.Len(t, blocks, 1)
	assert.Zero(t, discarded)

	block := blocks[0]
	assert.Equal(t, "orders", block.Table)
	assert.Equal(t, "eu-central-1", block.Region)
	require.NotNil(t, block.ItemCount)
	assert.Equal(t, int64(50000), *block.ItemCount)
	require.NotNil(t, block.ReadCapacityUnits)
	assert.Equal(t, int64(200), *block.ReadCapacityUnits)
	assert.Equal(t, []types.KeySchemaElement{
		{Role: "HASH", Attribute: "order_id"},
		{Role: "RANGE", Attribute: "order_date"},
	}, block.KeySchema)
	assert.True(t, block.HasLocalSecondaryIndexes)
	assert.False(t, block.HasReplicas)
	assert.True(t, block.StreamsEnabled)
	assert.Equal(t, "STANDARD_INFREQUENT_ACCESS", block.TableClass)
}

func TestMetadataParseMultipleSections(t *testing.T) {
	content := `=== Table: users (Region: us-east-1) ===
| {"Table": {"ItemCount": 10}}
=== Table: users (Region: us-west-2) ===
| {"Table": {"ItemCount": 20}}
=== Table: orders (Region: us-east-1) ===
|  ItemCount  |  30  |
`

	blocks, discarded := newTestMetadataParser().Parse([]byte(content))

	require.Len(t, blocks, 3)
	assert.Zero(t, discarded)
	assert.Equal(t, "us-east-1", blocks[0].Region)
	assert.Equal(t, "us-west-2", blocks[1].Region)
	assert.Equal(t, "orders", blocks[2].Table)
	require.NotNil(t, blocks[2].ItemCount)
	assert.Equal(t, int64(30), *blocks[2].ItemCount)
}

func TestMetadataParseDiscards(t *testing.T) {
	t.Run("delimiter without region", func(t *testing.T) {
		content := "=== Table: broken ===\n|  ItemCount  |  5  |\n"

		blocks, discarded := newTestMetadataParser().Parse([]byte(content))

		assert.Empty(t, blocks)
		assert.Equal(t, 1, discarded)
	})

	t.Run("body matching nothing", func(t *testing.T) {
		content := "=== Table: ghost (Region: us-east-1) ===\n| random cells | more cells |\n"

		blocks, discarded := newTestMetadataParser().Parse([]byte(content))

		assert.Empty(t, blocks)
		assert.Equal(t, 1, discarded)
	})

	t.Run("empty section is not counted", func(t *testing.T) {
		content := "=== Table: a (Region: r1) ===\n=== Table: b (Region: r2) ===\n| {\"Table\": {\"ItemCount\": 1}}\n"

		blocks, discarded := newTestMetadataParser().Parse([]byte(content))

		require.Len(t, blocks, 1)
		assert.Zero(t, discarded)
		assert.Equal(t, "b", blocks[0].Table)
	})

	t.Run("content before any delimiter is ignored", func(t *testing.T) {
		content := "| stray | rows |\nplain text\n"

		blocks, discarded := newTestMetadataParser().Parse([]byte(content))

		assert.Empty(t, blocks)
		assert.Zero(t, discarded)
	})
}

func TestMetadataParseJSONWithoutTableKey(t *testing.T) {
	content := "=== Table: empty (Region: us-east-1) ===\n| {\"ResponseMetadata\": {}}\n"

	blocks, discarded := newTestMetadataParser().Parse([]byte(content))

	require.Len(t, blocks, 1, "a valid document without a Table object still merges as all-absent")
	assert.Zero(t, discarded)
	assert.Nil(t, blocks[0].ItemCount)
	assert.Empty(t, blocks[0].KeySchema)
	assert.False(t, blocks[0].StreamsEnabled)
}
