package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Salary represents a salary normalized to the base currency.
// The zero value is an unknown salary.
type Salary struct {
	value float64
	known bool
}

// KnownSalary returns a salary with a definite value
func KnownSalary(v float64) Salary {
	return Salary{value: v, known: true}
}

// UnknownSalary returns the unknown salary marker
func UnknownSalary() Salary {
	return Salary{}
}

// Value returns the normalized amount and whether it is known
func (s Salary) Value() (float64, bool) {
	return s.value, s.known
}

// IsKnown reports whether the salary has a value
func (s Salary) IsKnown() bool {
	return s.known
}

func (s Salary) String() string {
	if !s.known {
		return "unknown"
	}
	return strconv.FormatFloat(s.value, 'f', -1, 64)
}

// SalaryRange is the raw salary triple taken from a posting
type SalaryRange struct {
	From     string `json:"salary_from"`
	To       string `json:"salary_to"`
	Currency string `json:"salary_currency"`
	Gross    string `json:"salary_gross,omitempty"`
}

// FieldValue is a sanitized CSV cell. A cell that contained line breaks
// becomes a multi-value holding one entry per line.
type FieldValue struct {
	text  string
	parts []string
	multi bool
}

// SingleValue wraps a cleaned single-line value
func SingleValue(s string) FieldValue {
	return FieldValue{text: s}
}

// MultiValue wraps the cleaned lines of a multi-line cell
func MultiValue(parts []string) FieldValue {
	cp := make([]string, len(parts))
	copy(cp, parts)
	return FieldValue{text: strings.Join(cp, "\n"), parts: cp, multi: true}
}

// IsMulti reports whether the cell held more than one line
func (f FieldValue) IsMulti() bool {
	return f.multi
}

// Text returns the value as a single string; multi-values are joined by newlines
func (f FieldValue) Text() string {
	return f.text
}

// Parts returns the individual values. A single value yields one part.
func (f FieldValue) Parts() []string {
	if !f.multi {
		return []string{f.text}
	}
	cp := make([]string, len(f.parts))
	copy(cp, f.parts)
	return cp
}

// Details holds the optional posting attributes used by the table view
type Details struct {
	Description string
	Skills      []string
	Experience  string
	Premium     string
	Employer    string
	Range       SalaryRange
}

// Vacancy is one posting after sanitizing and salary normalization.
// It is never mutated after construction.
type Vacancy struct {
	title     string
	city      string
	salary    Salary
	published string
	year      int
	details   Details
}

// NewVacancy builds a vacancy. The publication date must start with a four digit year.
func NewVacancy(title, city string, salary Salary, published string) (Vacancy, error) {
	year, err := YearOf(published)
	if err != nil {
		return Vacancy{}, err
	}
	return Vacancy{
		title:     title,
		city:      city,
		salary:    salary,
		published: published,
		year:      year,
	}, nil
}

// WithDetails returns a copy of the vacancy carrying the optional attributes
func (v Vacancy) WithDetails(d Details) Vacancy {
	d.Skills = append([]string(nil), d.Skills...)
	v.details = d
	return v
}

func (v Vacancy) Title() string       { return v.title }
func (v Vacancy) City() string        { return v.city }
func (v Vacancy) Salary() Salary      { return v.salary }
func (v Vacancy) Published() string   { return v.published }
func (v Vacancy) Year() int           { return v.year }
func (v Vacancy) Description() string { return v.details.Description }
func (v Vacancy) Experience() string  { return v.details.Experience }
func (v Vacancy) Premium() string     { return v.details.Premium }
func (v Vacancy) Employer() string    { return v.details.Employer }
func (v Vacancy) Range() SalaryRange  { return v.details.Range }

// Skills returns a copy of the key skills list
func (v Vacancy) Skills() []string {
	return append([]string(nil), v.details.Skills...)
}

// Month returns the YYYY-MM prefix of the publication date
func (v Vacancy) Month() string {
	return MonthOf(v.published)
}

// YearOf parses the four digit year prefix of a publication timestamp
func YearOf(published string) (int, error) {
	if len(published) < 4 {
		return 0, fmt.Errorf("publication date %q is too short", published)
	}
	year, err := strconv.Atoi(published[:4])
	if err != nil || year < 0 {
		return 0, fmt.Errorf("publication date %q has no year prefix", published)
	}
	return year, nil
}

// MonthOf returns the YYYY-MM prefix of a publication timestamp, or the whole
// string when it is shorter than that
func MonthOf(published string) string {
	if len(published) < 7 {
		return published
	}
	return published[:7]
}

// YearStatistics holds the four per-year series
type YearStatistics struct {
	Years     []int       `json:"-"`
	SalaryAll map[int]int `json:"salary_all"`
	NumberAll map[int]int `json:"number_all"`
	SalaryJob map[int]int `json:"salary_job"`
	NumberJob map[int]int `json:"number_job"`
}

// NewYearStatistics returns statistics with empty series
func NewYearStatistics() YearStatistics {
	return YearStatistics{
		SalaryAll: make(map[int]int),
		NumberAll: make(map[int]int),
		SalaryJob: make(map[int]int),
		NumberJob: make(map[int]int),
	}
}

// CityValue is one entry of a city ranking
type CityValue struct {
	City  string
	Value float64
}

// Ranking is an ordered list of city values. It encodes to JSON as an
// object whose keys keep the ranking order.
type Ranking []CityValue

// MarshalJSON writes the ranking as an ordered JSON object
func (r Ranking) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cv := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(cv.City)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(cv.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object back into a ranking, keeping the key order
func (r *Ranking) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("ranking must be a JSON object")
	}
	var out Ranking
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("ranking key must be a string")
		}
		var value float64
		if err := dec.Decode(&value); err != nil {
			return err
		}
		out = append(out, CityValue{City: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = out
	return nil
}

// Get returns the value recorded for a city
func (r Ranking) Get(city string) (float64, bool) {
	for _, cv := range r {
		if cv.City == city {
			return cv.Value, true
		}
	}
	return 0, false
}

// CityStatistics holds the two city rankings
type CityStatistics struct {
	Salary Ranking `json:"salary"`
	Share  Ranking `json:"proportion"`
}
