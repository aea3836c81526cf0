package vacancy

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fr4nk3nst1ner/salarystats/internal/models"
	"github.com/fr4nk3nst1ner/salarystats/internal/salary"
	"github.com/fr4nk3nst1ner/salarystats/internal/utils"
)

var experiencePriority = map[string]int{
	"noExperience": 0,
	"between1And3": 1,
	"between3And6": 2,
	"moreThan6":    3,
}

// ErrInvalidFilter is returned for a filter expression without the ": " separator
var ErrInvalidFilter = errors.New("filter must have the form 'field: value'")

// ParseFilter splits "field: value" and resolves the field by column name or title
func ParseFilter(s string, naming Naming) (Field, string, error) {
	name, value, ok := strings.Cut(s, ": ")
	if !ok {
		return 0, "", fmt.Errorf("%w: %q", ErrInvalidFilter, s)
	}
	field, err := ParseField(name, naming)
	if err != nil {
		return 0, "", err
	}
	return field, value, nil
}

// Query filters and sorts vacancies by field. Filter values may be given in
// the display vocabulary; they are translated back through naming.
type Query struct {
	naming     Naming
	normalizer *salary.Normalizer
}

// NewQuery creates a query. normalizer provides the salary sort key.
func NewQuery(naming Naming, normalizer *salary.Normalizer) *Query {
	return &Query{naming: naming, normalizer: normalizer}
}

// Filter keeps the vacancies whose field matches value
func (q *Query) Filter(records []models.Vacancy, field Field, value string) ([]models.Vacancy, error) {
	match, err := q.matcher(field, value)
	if err != nil {
		return nil, err
	}
	out := make([]models.Vacancy, 0, len(records))
	for _, v := range records {
		if match(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (q *Query) matcher(field Field, value string) (func(models.Vacancy) bool, error) {
	switch field {
	case FieldName, FieldDescription, FieldEmployer, FieldArea:
		return func(v models.Vacancy) bool { return field.Text(v) == value }, nil

	case FieldExperience:
		id := q.naming.ExperienceID(value)
		return func(v models.Vacancy) bool { return v.Experience() == id }, nil

	case FieldPremium:
		flag := q.naming.Flag(value)
		return func(v models.Vacancy) bool { return v.Premium() == flag }, nil

	case FieldCurrency:
		code := q.naming.CurrencyCode(value)
		return func(v models.Vacancy) bool { return v.Range().Currency == code }, nil

	case FieldSalary:
		amount, err := utils.ParseAmount(value)
		if err != nil {
			return nil, fmt.Errorf("salary filter %q: %w", value, err)
		}
		return func(v models.Vacancy) bool {
			r := v.Range()
			lo, errLo := utils.ParseAmount(r.From)
			hi, errHi := utils.ParseAmount(r.To)
			return errLo == nil && errHi == nil && lo <= amount && amount <= hi
		}, nil

	case FieldKeySkills:
		wanted := strings.Split(value, ", ")
		return func(v models.Vacancy) bool {
			have := make(map[string]bool)
			for _, s := range v.Skills() {
				have[s] = true
			}
			for _, w := range wanted {
				if !have[w] {
					return false
				}
			}
			return true
		}, nil

	case FieldPublishedAt:
		parts := strings.Split(value, ".")
		if len(parts) != 3 {
			return nil, fmt.Errorf("date filter %q: want dd.mm.yyyy", value)
		}
		day := parts[2] + "-" + parts[1] + "-" + parts[0]
		return func(v models.Vacancy) bool {
			p := v.Published()
			return len(p) >= 10 && p[:10] == day
		}, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownField, field)
}

// Sort orders the vacancies in place by field. The sort is stable, also when reversed.
func (q *Query) Sort(records []models.Vacancy, field Field, reverse bool) error {
	less, err := q.less(field)
	if err != nil {
		return err
	}
	sort.SliceStable(records, func(i, j int) bool {
		if reverse {
			return less(records[j], records[i])
		}
		return less(records[i], records[j])
	})
	return nil
}

func (q *Query) less(field Field) (func(a, b models.Vacancy) bool, error) {
	switch field {
	case FieldSalary:
		return func(a, b models.Vacancy) bool { return q.salaryKey(a) < q.salaryKey(b) }, nil
	case FieldExperience:
		return func(a, b models.Vacancy) bool { return experienceKey(a) < experienceKey(b) }, nil
	case FieldKeySkills:
		return func(a, b models.Vacancy) bool { return len(a.Skills()) < len(b.Skills()) }, nil
	case FieldPublishedAt:
		return func(a, b models.Vacancy) bool { return publishedKey(a).Before(publishedKey(b)) }, nil
	case FieldName, FieldDescription, FieldPremium, FieldEmployer, FieldArea, FieldCurrency:
		return func(a, b models.Vacancy) bool { return field.Text(a) < field.Text(b) }, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownField, field)
}

func (q *Query) salaryKey(v models.Vacancy) float64 {
	r := v.Range()
	s, err := q.normalizer.Normalize(v.Month(), r.From, r.To, r.Currency)
	if err != nil {
		return 0
	}
	amount, _ := s.Value()
	return amount
}

func experienceKey(v models.Vacancy) int {
	if p, ok := experiencePriority[v.Experience()]; ok {
		return p
	}
	return -1
}

func publishedKey(v models.Vacancy) time.Time {
	ts, err := utils.ParsePublished(v.Published())
	if err != nil {
		return time.Time{}
	}
	return ts
}
