package parse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"dynamo-metrics-digest/types"
)

// blockDelimiterRe captures the table and region announced by a section
// delimiter line of the metadata log.
var blockDelimiterRe = regexp.MustCompile(`^=== Table: (.*?) \(Region: (.*?)\) ===`)

// Row patterns for the boxed table rendering, one per field of interest.
var (
	boxedItemCountRe  = regexp.MustCompile(`\|\s*ItemCount\s*\|\s*([0-9]+)\s*\|`)
	boxedReadCapRe    = regexp.MustCompile(`\|\s*ReadCapacityUnits\s*\|\s*([0-9]+)\s*\|`)
	boxedWriteCapRe   = regexp.MustCompile(`\|\s*WriteCapacityUnits\s*\|\s*([0-9]+)\s*\|`)
	boxedDecreasesRe  = regexp.MustCompile(`\|\s*NumberOfDecreasesToday\s*\|\s*([0-9]+)\s*\|`)
	boxedTableClassRe = regexp.MustCompile(`\|\s*TableClass\s*\|\s*([A-Za-z_]+)\s*\|`)
	boxedStreamRe     = regexp.MustCompile(`\|\s*StreamEnabled\s*\|\s*([Tt]rue|[Ff]alse)\s*\|`)
	boxedKeySchemaRe  = regexp.MustCompile(`\|\s*([A-Za-z0-9._-]+)\s*\|\s*(HASH|RANGE)\s*\|`)
	boxedLSIRe        = regexp.MustCompile(`\|\s*LocalSecondaryIndexes\s*\|`)
	boxedReplicasRe   = regexp.MustCompile(`\|\s*Replicas\s*\|`)
)

// MetadataParser reads the per-sample table metadata log. Each section
// opens with a delimiter line naming the table and region; the body is
// either a pipe-prefixed JSON document or a boxed ASCII table, and both
// renderings are handled. Sections that cannot be attributed or parsed
// are discarded with a diagnostic, never an error.
type MetadataParser struct {
	logger *zerolog.Logger
}

func NewMetadata(logger *zerolog.Logger) *MetadataParser {
	return &MetadataParser{logger: logger}
}

// Parse walks the log and returns one block per successfully parsed
// section; the second result counts discarded sections.
func (p *MetadataParser) Parse(content []byte) ([]MetadataBlock, int) {
	var (
		blocks    []MetadataBlock
		discarded int

		table  string
		region string
		buffer []string
		inside bool
	)

	flush := func() {
		if !inside || len(buffer) == 0 {
			buffer = nil
			return
		}
		if table == "" || region == "" {
			p.logger.Warn().Int("lines", len(buffer)).Msg("Discarding metadata section with no table identity")
			discarded++
			buffer = nil
			return
		}
		block, ok := p.buildBlock(table, region, buffer)
		if !ok {
			p.logger.Warn().Str("table", table).Str("region", region).Msg("Discarding unparsable metadata section")
			discarded++
			buffer = nil
			return
		}
		blocks = append(blocks, block)
		buffer = nil
	}

	for _, raw := range strings.Split(string(content), "\n") {
		line := strings.TrimSpace(raw)

		if strings.HasPrefix(line, "=== Table:") {
			flush()
			inside = true
			if m := blockDelimiterRe.FindStringSubmatch(line); m != nil {
				table, region = m[1], m[2]
			} else {
				table, region = "", ""
			}
			continue
		}

		if inside && strings.Contains(line, "|") {
			buffer = append(buffer, line)
		}
	}
	flush()

	return blocks, discarded
}

// buildBlock tries the JSON rendering first. Every buffered line has its
// leading pipe marker stripped; if the concatenation is a valid JSON
// document the fields come from its Table object. Otherwise the raw lines
// are matched against the boxed-row patterns, and a section matching none
// of them is rejected.
func (p *MetadataParser) buildBlock(table, region string, buffer []string) (MetadataBlock, bool) {
	stripped := make([]string, 0, len(buffer))
	for _, line := range buffer {
		parts := strings.SplitN(line, "|", 2)
		stripped = append(stripped, strings.TrimSpace(parts[len(parts)-1]))
	}

	doc := strings.Join(stripped, "\n")
	if gjson.Valid(doc) {
		return blockFromJSON(table, region, doc), true
	}

	return blockFromBoxed(table, region, strings.Join(buffer, "\n"))
}

func blockFromJSON(table, region, doc string) MetadataBlock {
	data := gjson.Get(doc, "Table")
	block := MetadataBlock{Table: table, Region: region}

	block.ItemCount = intField(data, "ItemCount")
	block.ReadCapacityUnits = intField(data, "ProvisionedThroughput.ReadCapacityUnits")
	block.WriteCapacityUnits = intField(data, "ProvisionedThroughput.WriteCapacityUnits")
	block.NumberOfDecreasesToday = intField(data, "ProvisionedThroughput.NumberOfDecreasesToday")

	for _, element := range data.Get("KeySchema").Array() {
		block.KeySchema = append(block.KeySchema, types.KeySchemaElement{
			Role:      element.Get("KeyType").String(),
			Attribute: element.Get("AttributeName").String(),
		})
	}

	block.HasLocalSecondaryIndexes = len(data.Get("LocalSecondaryIndexes").Array()) > 0
	block.HasReplicas = len(data.Get("Replicas").Array()) > 0
	block.StreamsEnabled = data.Get("StreamSpecification.StreamEnabled").Bool()
	block.TableClass = data.Get("TableClassSummary.TableClass").String()

	return block
}

func intField(data gjson.Result, path string) *int64 {
	v := data.Get(path)
	if !v.Exists() || v.Type == gjson.Null {
		return nil
	}
	n := v.Int()
	return &n
}

func blockFromBoxed(table, region, raw string) (MetadataBlock, bool) {
	block := MetadataBlock{Table: table, Region: region}
	found := false

	if n, ok := boxedInt(boxedItemCountRe, raw); ok {
		block.ItemCount = n
		found = true
	}
	if n, ok := boxedInt(boxedReadCapRe, raw); ok {
		block.ReadCapacityUnits = n
		found = true
	}
	if n, ok := boxedInt(boxedWriteCapRe, raw); ok {
		block.WriteCapacityUnits = n
		found = true
	}
	if n, ok := boxedInt(boxedDecreasesRe, raw); ok {
		block.NumberOfDecreasesToday = n
		found = true
	}
	if m := boxedTableClassRe.FindStringSubmatch(raw); m != nil {
		block.TableClass = m[1]
		found = true
	}
	if m := boxedStreamRe.FindStringSubmatch(raw); m != nil {
		block.StreamsEnabled = strings.EqualFold(m[1], "true")
		found = true
	}
	for _, m := range boxedKeySchemaRe.FindAllStringSubmatch(raw, -1) {
		block.KeySchema = append(block.KeySchema, types.KeySchemaElement{
			Role:      m[2],
			Attribute: m[1],
		})
		found = true
	}
	if boxedLSIRe.MatchString(raw) {
		block.HasLocalSecondaryIndexes = true
		found = true
	}
	if boxedReplicasRe.MatchString(raw) {
		block.HasReplicas = true
		found = true
	}

	return block, found
}

func boxedInt(re *regexp.Regexp, raw string) (*int64, bool) {
	m := re.FindStringSubmatch(raw)
	if m == nil {
		return nil, false
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return nil, false
	}
	return &n, true
}
