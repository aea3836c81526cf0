// Package stats computes the per-year and per-city salary statistics.
package stats

import (
	"math"
	"sort"

	"github.com/fr4nk3nst1ner/salarystats/internal/models"
	"github.com/fr4nk3nst1ner/salarystats/internal/utils"
)

const (
	// TopCities is the length of each city ranking
	TopCities = 10
	// minCityShare is the share of all postings a city needs to be ranked
	minCityShare = 0.01
)

// GroupByYear partitions records by publication year. Years come back ascending.
func GroupByYear(records []models.Vacancy) (map[int][]models.Vacancy, []int) {
	groups := make(map[int][]models.Vacancy)
	for _, v := range records {
		groups[v.Year()] = append(groups[v.Year()], v)
	}
	years := make([]int, 0, len(groups))
	for year := range groups {
		years = append(years, year)
	}
	sort.Ints(years)
	return groups, years
}

// CountAndAverage returns the number of records with a known salary and the
// floored mean of those salaries. The mean of nothing is 0.
func CountAndAverage(records []models.Vacancy) (count int, average int) {
	var sum float64
	for _, v := range records {
		amount, ok := v.Salary().Value()
		if !ok {
			continue
		}
		sum += amount
		count++
	}
	return count, floorMean(sum, count)
}

func floorMean(sum float64, count int) int {
	if count == 0 {
		return 0
	}
	return int(math.Floor(sum / float64(count)))
}

// FilterByTitle keeps the records whose title contains job (case sensitive)
func FilterByTitle(records []models.Vacancy, job string) []models.Vacancy {
	out := make([]models.Vacancy, 0, len(records))
	for _, v := range records {
		if utils.MatchesTitle(v.Title(), job) {
			out = append(out, v)
		}
	}
	return out
}

// YearSlice is the statistics of a single year
type YearSlice struct {
	Year      int
	SalaryAll int
	NumberAll int
	SalaryJob int
	NumberJob int
}

// ComputeYear derives one year's figures. It reads only its arguments.
func ComputeYear(year int, records []models.Vacancy, job string) YearSlice {
	numAll, salAll := CountAndAverage(records)
	numJob, salJob := CountAndAverage(FilterByTitle(records, job))
	return YearSlice{
		Year:      year,
		SalaryAll: salAll,
		NumberAll: numAll,
		SalaryJob: salJob,
		NumberJob: numJob,
	}
}

// MergeYears assembles year slices into the four series; input order does not matter
func MergeYears(slices []YearSlice) models.YearStatistics {
	out := models.NewYearStatistics()
	for _, s := range slices {
		out.Years = append(out.Years, s.Year)
		out.SalaryAll[s.Year] = s.SalaryAll
		out.NumberAll[s.Year] = s.NumberAll
		out.SalaryJob[s.Year] = s.SalaryJob
		out.NumberJob[s.Year] = s.NumberJob
	}
	sort.Ints(out.Years)
	return out
}

// YearStatistics computes the four per-year series sequentially
func YearStatistics(records []models.Vacancy, job string) models.YearStatistics {
	groups, years := GroupByYear(records)
	slices := make([]YearSlice, 0, len(years))
	for _, year := range years {
		slices = append(slices, ComputeYear(year, groups[year], job))
	}
	return MergeYears(slices)
}

// CityCount is a city and its number of postings
type CityCount struct {
	City  string
	Count int
}

// CountByCity counts postings per city in first-seen order
func CountByCity(records []models.Vacancy) []CityCount {
	index := make(map[string]int)
	var out []CityCount
	for _, v := range records {
		i, ok := index[v.City()]
		if !ok {
			i = len(out)
			index[v.City()] = i
			out = append(out, CityCount{City: v.City()})
		}
		out[i].Count++
	}
	return out
}

// CityStatistics ranks cities by average salary and by share of postings.
// Only cities holding at least 1% of all postings (floored) are ranked.
func CityStatistics(records []models.Vacancy) models.CityStatistics {
	total := len(records)
	minCount := int(math.Floor(float64(total) * minCityShare))

	byCity := make(map[string][]models.Vacancy)
	for _, v := range records {
		byCity[v.City()] = append(byCity[v.City()], v)
	}

	var salaries, shares models.Ranking
	for _, cc := range CountByCity(records) {
		if cc.Count < minCount {
			continue
		}
		_, avg := CountAndAverage(byCity[cc.City])
		salaries = append(salaries, models.CityValue{City: cc.City, Value: float64(avg)})
		shares = append(shares, models.CityValue{City: cc.City, Value: roundShare(float64(cc.Count) / float64(total))})
	}

	return models.CityStatistics{
		Salary: SortCities(salaries, TopCities),
		Share:  SortCities(shares, TopCities),
	}
}

func roundShare(x float64) float64 {
	return math.Round(x*10000) / 10000
}

// SortCities returns the n largest values in descending order. Ties keep
// their input order.
func SortCities(values models.Ranking, n int) models.Ranking {
	out := make(models.Ranking, len(values))
	copy(out, values)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value > out[j].Value
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
