package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fr4nk3nst1ner/salarystats/internal/report"
	"github.com/fr4nk3nst1ner/salarystats/internal/storage"
)

// StatisticsStore is an in-memory implementation of storage.StatisticsStore.
type StatisticsStore struct {
	mu   sync.RWMutex
	data map[string]*report.Report // keyed by run_id
}

// NewStatisticsStore creates a new in-memory statistics store.
func NewStatisticsStore() *StatisticsStore {
	return &StatisticsStore{
		data: make(map[string]*report.Report),
	}
}

var _ storage.StatisticsStore = (*StatisticsStore)(nil)

// Save stores a copy of the report. Returns ErrDuplicateKey if run_id exists.
func (s *StatisticsStore) Save(_ context.Context, r *report.Report) error {
	if err := storage.Validate(r); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.RunID]; exists {
		return storage.ErrDuplicateKey
	}
	s.data[r.RunID] = r.Clone()
	return nil
}

// Get retrieves a copy of the report stored for runID.
func (s *StatisticsStore) Get(_ context.Context, runID string) (*report.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.data[runID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return r.Clone(), nil
}

// List retrieves the reports of job ordered by generated_at DESC, then run_id.
func (s *StatisticsStore) List(_ context.Context, job string) ([]*report.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*report.Report
	for _, r := range s.data {
		if r.Job == job {
			out = append(out, r.Clone())
		}
	}
	SortNewestFirst(out)
	return out, nil
}

// SortNewestFirst orders reports by generation time descending. Equal times
// are ordered by run ID.
func SortNewestFirst(reports []*report.Report) {
	sort.SliceStable(reports, func(i, j int) bool {
		if !reports[i].GeneratedAt.Equal(reports[j].GeneratedAt) {
			return reports[i].GeneratedAt.After(reports[j].GeneratedAt)
		}
		return reports[i].RunID < reports[j].RunID
	})
}
