// Package vacancy turns sanitized CSV rows into vacancy records and provides
// field based filtering and sorting over them.
package vacancy

import (
	"errors"
	"fmt"

	"github.com/fr4nk3nst1ner/salarystats/internal/models"
	"github.com/fr4nk3nst1ner/salarystats/internal/salary"
	"github.com/fr4nk3nst1ner/salarystats/internal/utils"
)

var (
	// ErrMissingColumn is returned when a required column is absent from the header
	ErrMissingColumn = errors.New("missing column")

	// ErrInvalidDate is returned when published_at has no year prefix
	ErrInvalidDate = errors.New("invalid publication date")
)

// Column names of a vacancy export
const (
	ColName        = "name"
	ColDescription = "description"
	ColKeySkills   = "key_skills"
	ColExperience  = "experience_id"
	ColPremium     = "premium"
	ColEmployer    = "employer_name"
	ColSalaryFrom  = "salary_from"
	ColSalaryTo    = "salary_to"
	ColSalaryGross = "salary_gross"
	ColCurrency    = "salary_currency"
	ColArea        = "area_name"
	ColPublishedAt = "published_at"
)

// Columns holds the header position of every known column; -1 means absent
type Columns struct {
	Name        int
	Description int
	KeySkills   int
	Experience  int
	Premium     int
	Employer    int
	SalaryFrom  int
	SalaryTo    int
	SalaryGross int
	Currency    int
	Area        int
	PublishedAt int
}

// ResolveColumns locates the columns in a header. name, salary_from,
// salary_to, salary_currency, area_name and published_at are required.
func ResolveColumns(header []string) (Columns, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	pos := func(name string) int {
		if i, ok := index[name]; ok {
			return i
		}
		return -1
	}

	cols := Columns{
		Name:        pos(ColName),
		Description: pos(ColDescription),
		KeySkills:   pos(ColKeySkills),
		Experience:  pos(ColExperience),
		Premium:     pos(ColPremium),
		Employer:    pos(ColEmployer),
		SalaryFrom:  pos(ColSalaryFrom),
		SalaryTo:    pos(ColSalaryTo),
		SalaryGross: pos(ColSalaryGross),
		Currency:    pos(ColCurrency),
		Area:        pos(ColArea),
		PublishedAt: pos(ColPublishedAt),
	}

	required := []struct {
		name string
		idx  int
	}{
		{ColName, cols.Name},
		{ColSalaryFrom, cols.SalaryFrom},
		{ColSalaryTo, cols.SalaryTo},
		{ColCurrency, cols.Currency},
		{ColArea, cols.Area},
		{ColPublishedAt, cols.PublishedAt},
	}
	for _, r := range required {
		if r.idx < 0 {
			return Columns{}, fmt.Errorf("%w: %s", ErrMissingColumn, r.name)
		}
	}
	return cols, nil
}

// Builder creates vacancy records from sanitized rows
type Builder struct {
	cols       Columns
	normalizer *salary.Normalizer
}

// NewBuilder creates a builder for rows laid out as cols
func NewBuilder(cols Columns, normalizer *salary.Normalizer) *Builder {
	return &Builder{cols: cols, normalizer: normalizer}
}

// Build normalizes the salary of one sanitized row and returns the record
func (b *Builder) Build(fields []models.FieldValue) (models.Vacancy, error) {
	text := func(idx int) string {
		if idx < 0 || idx >= len(fields) {
			return ""
		}
		return fields[idx].Text()
	}

	published := text(b.cols.PublishedAt)
	if _, err := models.YearOf(published); err != nil {
		return models.Vacancy{}, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	rng := models.SalaryRange{
		From:     text(b.cols.SalaryFrom),
		To:       text(b.cols.SalaryTo),
		Currency: text(b.cols.Currency),
		Gross:    text(b.cols.SalaryGross),
	}
	sal, err := b.normalizer.Normalize(models.MonthOf(published), rng.From, rng.To, rng.Currency)
	if err != nil {
		return models.Vacancy{}, err
	}

	v, err := models.NewVacancy(text(b.cols.Name), text(b.cols.Area), sal, published)
	if err != nil {
		return models.Vacancy{}, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	var skills []string
	if b.cols.KeySkills >= 0 && b.cols.KeySkills < len(fields) {
		skills = fields[b.cols.KeySkills].Parts()
	}

	return v.WithDetails(models.Details{
		Description: text(b.cols.Description),
		Skills:      skills,
		Experience:  text(b.cols.Experience),
		Premium:     text(b.cols.Premium),
		Employer:    text(b.cols.Employer),
		Range:       rng,
	}), nil
}

// BuildAll sanitizes and builds every row in order, stopping at the first failure
func (b *Builder) BuildAll(rows [][]string) ([]models.Vacancy, error) {
	out := make([]models.Vacancy, 0, len(rows))
	for i, row := range rows {
		v, err := b.Build(utils.SanitizeRow(row))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out = append(out, v)
	}
	return out, nil
}
