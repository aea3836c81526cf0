// Package report assembles the statistics of a run and renders them.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fr4nk3nst1ner/salarystats/internal/models"
)

// Report is the result of one run. Its JSON form carries the two
// statistics mappings under years_statistics and cities_statistics.
type Report struct {
	RunID            string                `json:"run_id"`
	Job              string                `json:"job"`
	GeneratedAt      time.Time             `json:"generated_at"`
	YearsStatistics  models.YearStatistics `json:"years_statistics"`
	CitiesStatistics models.CityStatistics `json:"cities_statistics"`
}

// Assemble builds a report stamped with the current time
func Assemble(runID, job string, years models.YearStatistics, cities models.CityStatistics) *Report {
	return &Report{
		RunID:            runID,
		Job:              job,
		GeneratedAt:      time.Now().UTC().Truncate(time.Second),
		YearsStatistics:  years,
		CitiesStatistics: cities,
	}
}

// YearRow is one line of the year table
type YearRow struct {
	Year      int
	SalaryAll int
	SalaryJob int
	NumberAll int
	NumberJob int
}

// Years returns the report years ascending. A report decoded from JSON has no
// year list, so the keys of number_all are used then.
func (r *Report) Years() []int {
	if len(r.YearsStatistics.Years) > 0 {
		return r.YearsStatistics.Years
	}
	years := make([]int, 0, len(r.YearsStatistics.NumberAll))
	for y := range r.YearsStatistics.NumberAll {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// YearRows flattens the year series in year order
func (r *Report) YearRows() []YearRow {
	ys := r.YearsStatistics
	years := r.Years()
	rows := make([]YearRow, 0, len(years))
	for _, y := range years {
		rows = append(rows, YearRow{
			Year:      y,
			SalaryAll: ys.SalaryAll[y],
			SalaryJob: ys.SalaryJob[y],
			NumberAll: ys.NumberAll[y],
			NumberJob: ys.NumberJob[y],
		})
	}
	return rows
}

// YearHeaders returns the column titles of the year table
func YearHeaders(job string) []string {
	return []string{
		"Год",
		"Средняя зарплата",
		"Средняя зарплата - " + job,
		"Количество вакансий",
		"Количество вакансий - " + job,
	}
}

// CityHeaders returns the column titles of the two city tables
func CityHeaders() (salary []string, share []string) {
	return []string{"Город", "Уровень зарплат"}, []string{"Город", "Доля вакансий"}
}

// WriteJSON writes the report as indented JSON
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// SaveJSON writes the report to path, creating the directory
func SaveJSON(path string, r *Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadJSON decodes a report written by WriteJSON
func ReadJSON(rd io.Reader) (*Report, error) {
	var r Report
	if err := json.NewDecoder(rd).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	r.YearsStatistics.Years = r.Years()
	return &r, nil
}

// Clone returns a deep copy of the report
func (r *Report) Clone() *Report {
	out := *r
	ys := r.YearsStatistics
	out.YearsStatistics = models.YearStatistics{
		Years:     append([]int(nil), ys.Years...),
		SalaryAll: cloneSeries(ys.SalaryAll),
		NumberAll: cloneSeries(ys.NumberAll),
		SalaryJob: cloneSeries(ys.SalaryJob),
		NumberJob: cloneSeries(ys.NumberJob),
	}
	out.CitiesStatistics = models.CityStatistics{
		Salary: append(models.Ranking(nil), r.CitiesStatistics.Salary...),
		Share:  append(models.Ranking(nil), r.CitiesStatistics.Share...),
	}
	return &out
}

func cloneSeries(m map[int]int) map[int]int {
	if m == nil {
		return nil
	}
	out := make(map[int]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
