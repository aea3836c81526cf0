// Package storage defines where the statistics of finished runs are kept.
package storage

import (
	"context"

	"github.com/fr4nk3nst1ner/salarystats/internal/report"
)

// StatisticsStore keeps the reports of finished runs.
type StatisticsStore interface {
	// Save stores a report. Returns ErrDuplicateKey if its run ID exists
	// and ErrInvalidInput if the report has no run ID.
	Save(ctx context.Context, r *report.Report) error

	// Get retrieves a report by run ID. Returns ErrNotFound if not exists.
	Get(ctx context.Context, runID string) (*report.Report, error)

	// List retrieves the reports of a job, newest first.
	List(ctx context.Context, job string) ([]*report.Report, error)
}

// Validate checks that a report can be stored
func Validate(r *report.Report) error {
	if r == nil || r.RunID == "" {
		return ErrInvalidInput
	}
	return nil
}
