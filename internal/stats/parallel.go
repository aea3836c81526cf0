package stats

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/fr4nk3nst1ner/salarystats/internal/models"
)

// YearLoader produces the records of one year partition
type YearLoader func(ctx context.Context, year int) ([]models.Vacancy, error)

// ParallelYears computes every year partition on at most workers goroutines
// and merges the results. Workers share nothing; each returns its own slice.
func ParallelYears(ctx context.Context, partitions map[int][]models.Vacancy, job string, workers int) (models.YearStatistics, error) {
	years := make([]int, 0, len(partitions))
	for year := range partitions {
		years = append(years, year)
	}
	sort.Ints(years)

	return ParallelLoad(ctx, years, func(_ context.Context, year int) ([]models.Vacancy, error) {
		return partitions[year], nil
	}, job, workers)
}

// ParallelLoad loads and computes each year on the worker pool. The first
// loader error cancels the remaining work and is returned.
func ParallelLoad(ctx context.Context, years []int, load YearLoader, job string, workers int) (models.YearStatistics, error) {
	if workers <= 0 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	results := make([]YearSlice, len(years))
	for i, year := range years {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records, err := load(gctx, year)
			if err != nil {
				return err
			}
			results[i] = ComputeYear(year, records, job)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return models.YearStatistics{}, err
	}
	return MergeYears(results), nil
}
