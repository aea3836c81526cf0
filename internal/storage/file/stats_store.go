// Package file keeps run statistics in a single JSON document on disk.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fr4nk3nst1ner/salarystats/internal/logger"
	"github.com/fr4nk3nst1ner/salarystats/internal/report"
	"github.com/fr4nk3nst1ner/salarystats/internal/storage"
	"github.com/fr4nk3nst1ner/salarystats/internal/storage/memory"
)

// document is the on-disk layout
type document struct {
	LastUpdated time.Time        `json:"last_updated"`
	Runs        []*report.Report `json:"runs"`
}

// StatisticsStore implements storage.StatisticsStore on a JSON file. The
// whole document is read and rewritten on every call.
type StatisticsStore struct {
	mu   sync.Mutex
	path string
	log  *logger.Entry
}

var _ storage.StatisticsStore = (*StatisticsStore)(nil)

// NewStatisticsStore creates a store backed by the file at path
func NewStatisticsStore(path string) *StatisticsStore {
	return &StatisticsStore{
		path: path,
		log:  logger.GetLogger().WithComponent("storage"),
	}
}

// Path returns the backing file
func (s *StatisticsStore) Path() string {
	return s.path
}

func (s *StatisticsStore) load() (document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return document{Runs: []*report.Report{}}, nil
	}
	if err != nil {
		return document{}, fmt.Errorf("read statistics store: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return document{}, fmt.Errorf("parse statistics store %s: %w", s.path, err)
	}
	for _, r := range doc.Runs {
		r.YearsStatistics.Years = r.Years()
	}
	return doc, nil
}

func (s *StatisticsStore) save(doc document) error {
	doc.LastUpdated = time.Now().UTC()
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create statistics store directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write statistics store: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// Save appends a report. Returns ErrDuplicateKey if run_id exists.
func (s *StatisticsStore) Save(_ context.Context, r *report.Report) error {
	if err := storage.Validate(r); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	for _, existing := range doc.Runs {
		if existing.RunID == r.RunID {
			return storage.ErrDuplicateKey
		}
	}
	doc.Runs = append(doc.Runs, r.Clone())
	if err := s.save(doc); err != nil {
		return err
	}

	s.log.WithFields(logger.Fields{
		"run_id": r.RunID,
		"path":   s.path,
		"runs":   len(doc.Runs),
	}).Debug("report saved")
	return nil
}

// Get retrieves the report stored for runID.
func (s *StatisticsStore) Get(_ context.Context, runID string) (*report.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, r := range doc.Runs {
		if r.RunID == runID {
			return r, nil
		}
	}
	return nil, storage.ErrNotFound
}

// List retrieves the reports of job, newest first.
func (s *StatisticsStore) List(_ context.Context, job string) ([]*report.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	var out []*report.Report
	for _, r := range doc.Runs {
		if r.Job == job {
			out = append(out, r)
		}
	}
	memory.SortNewestFirst(out)
	return out, nil
}
