package vacancy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fr4nk3nst1ner/salarystats/internal/models"
)

// ErrUnknownField is returned for a field name that is not filterable or sortable
var ErrUnknownField = errors.New("unknown field")

// Field identifies a vacancy attribute for filtering, sorting and display
type Field int

const (
	FieldName Field = iota
	FieldDescription
	FieldKeySkills
	FieldExperience
	FieldPremium
	FieldEmployer
	FieldSalary
	FieldArea
	FieldPublishedAt
	FieldCurrency
)

var fieldColumns = map[Field]string{
	FieldName:        ColName,
	FieldDescription: ColDescription,
	FieldKeySkills:   ColKeySkills,
	FieldExperience:  ColExperience,
	FieldPremium:     ColPremium,
	FieldEmployer:    ColEmployer,
	FieldSalary:      "salary",
	FieldArea:        ColArea,
	FieldPublishedAt: ColPublishedAt,
	FieldCurrency:    ColCurrency,
}

func (f Field) String() string {
	if name, ok := fieldColumns[f]; ok {
		return name
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// DisplayFields returns the columns of the table view in display order
func DisplayFields() []Field {
	return []Field{
		FieldName, FieldDescription, FieldKeySkills, FieldExperience, FieldPremium,
		FieldEmployer, FieldSalary, FieldArea, FieldPublishedAt,
	}
}

// ParseField accepts a column name such as "area_name" or a display title from naming
func ParseField(s string, naming Naming) (Field, error) {
	s = strings.TrimSpace(s)
	for f, name := range fieldColumns {
		if name == s {
			return f, nil
		}
	}
	for f, title := range naming.Titles {
		if title == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// Text returns the raw textual value of the field for v
func (f Field) Text(v models.Vacancy) string {
	switch f {
	case FieldName:
		return v.Title()
	case FieldDescription:
		return v.Description()
	case FieldKeySkills:
		return strings.Join(v.Skills(), "\n")
	case FieldExperience:
		return v.Experience()
	case FieldPremium:
		return v.Premium()
	case FieldEmployer:
		return v.Employer()
	case FieldSalary:
		r := v.Range()
		return r.From + " - " + r.To
	case FieldArea:
		return v.City()
	case FieldPublishedAt:
		return v.Published()
	case FieldCurrency:
		return v.Range().Currency
	default:
		return ""
	}
}
