package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fr4nk3nst1ner/salarystats/internal/models"
	"github.com/fr4nk3nst1ner/salarystats/internal/report"
	"github.com/fr4nk3nst1ner/salarystats/internal/storage"
)

// Ranking names stored in city_statistics.ranking
const (
	rankingSalary     = "salary"
	rankingProportion = "proportion"
)

// StatisticsStore implements storage.StatisticsStore using PostgreSQL.
type StatisticsStore struct {
	pool *Pool
}

// NewStatisticsStore creates a new StatisticsStore.
func NewStatisticsStore(pool *Pool) *StatisticsStore {
	return &StatisticsStore{pool: pool}
}

var _ storage.StatisticsStore = (*StatisticsStore)(nil)

// Save writes the run, its year rows and both city rankings in one
// transaction. Returns ErrDuplicateKey if run_id exists.
func (s *StatisticsStore) Save(ctx context.Context, r *report.Report) error {
	if err := storage.Validate(r); err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO statistics_runs (run_id, job, generated_at) VALUES ($1, $2, $3)`,
		r.RunID, r.Job, r.GeneratedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert statistics run: %w", err)
	}

	batch := &pgx.Batch{}
	for _, row := range r.YearRows() {
		batch.Queue(`
			INSERT INTO year_statistics (run_id, year, salary_all, number_all, salary_job, number_job)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			r.RunID, row.Year, row.SalaryAll, row.NumberAll, row.SalaryJob, row.NumberJob,
		)
	}
	queueRanking(batch, r.RunID, rankingSalary, r.CitiesStatistics.Salary)
	queueRanking(batch, r.RunID, rankingProportion, r.CitiesStatistics.Share)

	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert statistics rows: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func queueRanking(batch *pgx.Batch, runID, ranking string, values models.Ranking) {
	for i, cv := range values {
		batch.Queue(`
			INSERT INTO city_statistics (run_id, ranking, position, city, value)
			VALUES ($1, $2, $3, $4, $5)`,
			runID, ranking, i, cv.City, cv.Value,
		)
	}
}

// Get retrieves a report by run ID. Returns ErrNotFound if not exists.
func (s *StatisticsStore) Get(ctx context.Context, runID string) (*report.Report, error) {
	r := &report.Report{RunID: runID}
	var generated time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT job, generated_at FROM statistics_runs WHERE run_id = $1`, runID,
	).Scan(&r.Job, &generated)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get statistics run: %w", err)
	}
	r.GeneratedAt = generated.UTC()

	years, err := s.loadYears(ctx, runID)
	if err != nil {
		return nil, err
	}
	r.YearsStatistics = years

	cities, err := s.loadCities(ctx, runID)
	if err != nil {
		return nil, err
	}
	r.CitiesStatistics = cities
	return r, nil
}

func (s *StatisticsStore) loadYears(ctx context.Context, runID string) (models.YearStatistics, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT year, salary_all, number_all, salary_job, number_job
		FROM year_statistics WHERE run_id = $1 ORDER BY year`, runID)
	if err != nil {
		return models.YearStatistics{}, fmt.Errorf("query year statistics: %w", err)
	}
	defer rows.Close()

	ys := models.NewYearStatistics()
	for rows.Next() {
		var year, salaryAll, numberAll, salaryJob, numberJob int
		if err := rows.Scan(&year, &salaryAll, &numberAll, &salaryJob, &numberJob); err != nil {
			return models.YearStatistics{}, fmt.Errorf("scan year statistics: %w", err)
		}
		ys.Years = append(ys.Years, year)
		ys.SalaryAll[year] = salaryAll
		ys.NumberAll[year] = numberAll
		ys.SalaryJob[year] = salaryJob
		ys.NumberJob[year] = numberJob
	}
	if err := rows.Err(); err != nil {
		return models.YearStatistics{}, fmt.Errorf("iterate year statistics: %w", err)
	}
	return ys, nil
}

func (s *StatisticsStore) loadCities(ctx context.Context, runID string) (models.CityStatistics, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT ranking, city, value
		FROM city_statistics WHERE run_id = $1 ORDER BY ranking, position`, runID)
	if err != nil {
		return models.CityStatistics{}, fmt.Errorf("query city statistics: %w", err)
	}
	defer rows.Close()

	var cs models.CityStatistics
	for rows.Next() {
		var ranking string
		var cv models.CityValue
		if err := rows.Scan(&ranking, &cv.City, &cv.Value); err != nil {
			return models.CityStatistics{}, fmt.Errorf("scan city statistics: %w", err)
		}
		switch ranking {
		case rankingSalary:
			cs.Salary = append(cs.Salary, cv)
		case rankingProportion:
			cs.Share = append(cs.Share, cv)
		}
	}
	if err := rows.Err(); err != nil {
		return models.CityStatistics{}, fmt.Errorf("iterate city statistics: %w", err)
	}
	return cs, nil
}

// List retrieves the reports of a job ordered by generated_at DESC.
func (s *StatisticsStore) List(ctx context.Context, job string) ([]*report.Report, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT run_id FROM statistics_runs
		WHERE job = $1 ORDER BY generated_at DESC, run_id`, job)
	if err != nil {
		return nil, fmt.Errorf("list statistics runs: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect statistics runs: %w", err)
	}

	out := make([]*report.Report, 0, len(ids))
	for _, id := range ids {
		r, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
