package api

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"dynamo-metrics-digest/digest"
	"dynamo-metrics-digest/types"
)

// Store holds the artifacts of the last ingestion run in memory for the
// dashboard. Reload swaps the whole set atomically, so readers never see
// a mix of old and new artifacts.
type Store struct {
	mu  sync.RWMutex
	dir string

	countSeries map[string][]types.SeriesPoint
	p99Series   map[string][]types.SeriesPoint
	metadata    metadataDocument
	peaks       types.GlobalPeakIndex
	summary     *types.RunSummary
}

type metadataDocument struct {
	Tables map[string]map[string]*types.TableMetadataRecord `json:"Tables"`
}

// NewStore loads the artifacts from the data directory. The four core
// artifacts must exist; the run summary is optional.
func NewStore(dir string) (*Store, error) {
	s := &Store{dir: dir}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads every artifact from disk under a shared lock, so a
// concurrent digest run cannot overwrite the files mid-read.
func (s *Store) Reload() error {
	lock := flock.New(filepath.Join(s.dir, digest.LockFile))
	locked, err := lock.TryRLock()
	if err != nil {
		return fmt.Errorf("failed to acquire artifact lock: %v", err)
	}
	if !locked {
		return fmt.Errorf("data directory %s is locked for writing", s.dir)
	}
	defer lock.Unlock()

	var (
		countSeries map[string][]types.SeriesPoint
		p99Series   map[string][]types.SeriesPoint
		metadata    metadataDocument
		peaks       types.GlobalPeakIndex
		summary     *types.RunSummary
	)

	if err := readJSON(filepath.Join(s.dir, digest.CountSeriesFile), &countSeries); err != nil {
		return err
	}
	if err := readJSON(filepath.Join(s.dir, digest.P99SeriesFile), &p99Series); err != nil {
		return err
	}
	if err := readJSON(filepath.Join(s.dir, digest.MetadataFile), &metadata); err != nil {
		return err
	}
	if err := readJSON(filepath.Join(s.dir, digest.PeaksFile), &peaks); err != nil {
		return err
	}
	if err := readJSON(filepath.Join(s.dir, digest.SummaryFile), &summary); err != nil {
		// the summary artifact is optional
		summary = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.countSeries = countSeries
	s.p99Series = p99Series
	s.metadata = metadata
	s.peaks = peaks
	s.summary = summary

	return nil
}

func (s *Store) CountSeries() map[string][]types.SeriesPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countSeries
}

func (s *Store) P99Series() map[string][]types.SeriesPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.p99Series
}

func (s *Store) Metadata() map[string]map[string]*types.TableMetadataRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metadata.Tables
}

func (s *Store) Peaks() types.GlobalPeakIndex {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.peaks
}

func (s *Store) Summary() *types.RunSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read artifact %s: %v", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse artifact %s: %v", filepath.Base(path), err)
	}
	return nil
}
