package digest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"dynamo-metrics-digest/merge"
	"dynamo-metrics-digest/types"
)

// Artifact filenames inside the data directory.
const (
	CountSeriesFile = "sample_count_data.json"
	P99SeriesFile   = "sample_p99_data.json"
	MetadataFile    = "sample_metadata.json"
	PeaksFile       = "sample_peaks.json"
	SummaryFile     = "digest_summary.json"

	LockFile = ".digest.lock"
)

// metadataArtifact wraps the merged records in the envelope consumers
// expect.
type metadataArtifact struct {
	Tables map[string]map[string]*types.TableMetadataRecord `json:"Tables"`
}

// writeArtifacts serializes every artifact into the data directory under
// an exclusive lock, so a dashboard reloading mid-write never sees a
// half-written set.
func (d *Digest) writeArtifacts(countSeries, p99Series *SeriesStore, store *merge.Store, global types.GlobalPeakIndex, summary *types.RunSummary) error {
	if err := os.MkdirAll(d.config.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %v", d.config.DataDir, err)
	}

	lock := flock.New(filepath.Join(d.config.DataDir, LockFile))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire artifact lock: %v", err)
	}
	if !locked {
		return fmt.Errorf("data directory %s is locked by another process", d.config.DataDir)
	}
	defer lock.Unlock()

	artifacts := map[string]interface{}{
		CountSeriesFile: countSeries.Points(),
		P99SeriesFile:   p99Series.Points(),
		MetadataFile:    metadataArtifact{Tables: store.Tables()},
		PeaksFile:       global,
		SummaryFile:     summary,
	}

	for name, artifact := range artifacts {
		if err := writeJSON(filepath.Join(d.config.DataDir, name), artifact); err != nil {
			return err
		}
		d.logger.Debug().Str("artifact", name).Msg("Wrote artifact")
	}

	return nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %v", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %v", filepath.Base(path), err)
	}
	return nil
}
