package walk

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Period labels assigned to leaf files by the collection window embedded
// in their names.
const (
	PeriodThreeHour = "3hr"
	PeriodSevenDay  = "7day"
)

var (
	rangeRe          = regexp.MustCompile(`(\d{14})to(\d{14})`)
	rangeStampLayout = "20060102150405"
)

// Discovery lists the distinct identifiers found in the sample tree, each
// sorted lexically.
type Discovery struct {
	Samples    []string
	Regions    []string
	Tables     []string
	Operations []string
}

// Walker enumerates the on-disk layout produced by the collection runs:
// sample directories at the root, then region, table, and operation
// levels beneath each sample.
type Walker struct {
	logger *zerolog.Logger
}

func New(logger *zerolog.Logger) *Walker {
	return &Walker{logger: logger}
}

// Discover scans the root for sample directories matching the prefix and
// collects the union of regions, tables, and operations beneath them.
// Unreadable inner directories are skipped quietly; only an unreadable
// root is an error. An empty tableFilter keeps every table.
func (w *Walker) Discover(root, samplePrefix, tableFilter string) (*Discovery, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read logs directory %s: %v", root, err)
	}

	disc := &Discovery{}
	regions := make(map[string]struct{})
	tables := make(map[string]struct{})
	operations := make(map[string]struct{})

	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), samplePrefix) {
			continue
		}
		sample := entry.Name()
		disc.Samples = append(disc.Samples, sample)

		regionEntries, err := os.ReadDir(filepath.Join(root, sample))
		if err != nil {
			w.logger.Debug().Str("sample", sample).Err(err).Msg("Skipping unreadable sample directory")
			continue
		}
		for _, regionEntry := range regionEntries {
			if !regionEntry.IsDir() {
				continue
			}
			region := regionEntry.Name()
			regions[region] = struct{}{}

			tableEntries, err := os.ReadDir(filepath.Join(root, sample, region))
			if err != nil {
				w.logger.Debug().Str("region", region).Err(err).Msg("Skipping unreadable region directory")
				continue
			}
			for _, tableEntry := range tableEntries {
				if !tableEntry.IsDir() {
					continue
				}
				table := tableEntry.Name()
				if tableFilter != "" && table != tableFilter {
					continue
				}
				tables[table] = struct{}{}

				opEntries, err := os.ReadDir(filepath.Join(root, sample, region, table))
				if err != nil {
					continue
				}
				for _, opEntry := range opEntries {
					if opEntry.IsDir() {
						operations[opEntry.Name()] = struct{}{}
					}
				}
			}
		}
	}

	disc.Regions = sortedKeys(regions)
	disc.Tables = sortedKeys(tables)
	disc.Operations = sortedKeys(operations)

	return disc, nil
}

// LeafFiles lists the regular files of a metric directory in lexical
// order. A missing or unreadable directory yields nothing.
func (w *Walker) LeafFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files = append(files, entry.Name())
	}
	return files
}

// PeriodType classifies a leaf file by the <start>to<end> stamp range in
// its name. Ranges longer than four hours come from the 7-day collection
// pass; files without a parsable range default to the short period.
func PeriodType(filename string) string {
	m := rangeRe.FindStringSubmatch(filename)
	if m == nil {
		return PeriodThreeHour
	}

	start, err := time.Parse(rangeStampLayout, m[1])
	if err != nil {
		return PeriodThreeHour
	}
	end, err := time.Parse(rangeStampLayout, m[2])
	if err != nil {
		return PeriodThreeHour
	}

	if end.Sub(start) > 4*time.Hour {
		return PeriodSevenDay
	}
	return PeriodThreeHour
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
