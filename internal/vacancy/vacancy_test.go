package vacancy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fr4nk3nst1ner/salarystats/internal/currency"
	"github.com/fr4nk3nst1ner/salarystats/internal/models"
	"github.com/fr4nk3nst1ner/salarystats/internal/salary"
)

var fullHeader = []string{
	"name", "description", "key_skills", "experience_id", "premium", "employer_name",
	"salary_from", "salary_to", "salary_gross", "salary_currency", "area_name", "published_at",
}

func staticBuilder(t *testing.T, header []string) *Builder {
	t.Helper()
	cols, err := ResolveColumns(header)
	require.NoError(t, err)
	n := salary.NewNormalizer(salary.ModeStatic, currency.NewStaticTable(currency.DefaultRates()), "")
	return NewBuilder(cols, n)
}

func row(name, skills, exp, premium, from, to, cur, area, published string) []string {
	return []string{name, "<p>About</p>", skills, exp, premium, "Acme", from, to, "True", cur, area, published}
}

func buildAll(t *testing.T, rows ...[]string) []models.Vacancy {
	t.Helper()
	out, err := staticBuilder(t, fullHeader).BuildAll(rows)
	require.NoError(t, err)
	return out
}

func TestResolveColumns_Missing(t *testing.T) {
	_, err := ResolveColumns([]string{"name", "salary_from", "salary_to", "salary_currency", "area_name"})
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestResolveColumns_OptionalAbsent(t *testing.T) {
	cols, err := ResolveColumns([]string{"published_at", "area_name", "salary_currency", "salary_to", "salary_from", "name"})
	require.NoError(t, err)
	assert.Equal(t, 5, cols.Name)
	assert.Equal(t, -1, cols.KeySkills)
}

func TestBuild(t *testing.T) {
	records := buildAll(t, row("Go <b>dev</b>", "Go\nSQL", "between1And3", "False", "10", "20", "USD", "Moscow", "2022-05-31T17:32:31+0300"))
	require.Len(t, records, 1)
	v := records[0]

	assert.Equal(t, "Go dev", v.Title())
	assert.Equal(t, "Moscow", v.City())
	assert.Equal(t, 2022, v.Year())
	assert.Equal(t, "2022-05", v.Month())
	assert.Equal(t, "About", v.Description())
	assert.Equal(t, []string{"Go", "SQL"}, v.Skills())
	amount, ok := v.Salary().Value()
	require.True(t, ok)
	assert.InDelta(t, 909.9, amount, 1e-9)
	assert.Equal(t, "USD", v.Range().Currency)
}

func TestBuild_InvalidDate(t *testing.T) {
	_, err := staticBuilder(t, fullHeader).BuildAll([][]string{row("x", "a", "noExperience", "False", "1", "2", "RUR", "Omsk", "yesterday")})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestBuild_InvalidBound(t *testing.T) {
	_, err := staticBuilder(t, fullHeader).BuildAll([][]string{row("x", "a", "noExperience", "False", "lots", "2", "RUR", "Omsk", "2022-01-01T00:00:00+0300")})
	assert.ErrorIs(t, err, salary.ErrInvalidBound)
}

func TestBuild_UnknownCurrencyGivesUnknownSalary(t *testing.T) {
	records := buildAll(t, row("x", "a", "noExperience", "False", "1", "2", "XXX", "Omsk", "2022-01-01T00:00:00+0300"))
	assert.False(t, records[0].Salary().IsKnown())
}

func TestParseField(t *testing.T) {
	naming := DefaultNaming()

	f, err := ParseField("area_name", naming)
	require.NoError(t, err)
	assert.Equal(t, FieldArea, f)

	f, err = ParseField("Оклад", naming)
	require.NoError(t, err)
	assert.Equal(t, FieldSalary, f)

	_, err = ParseField("shoe_size", naming)
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestParseFilter(t *testing.T) {
	naming := DefaultNaming()

	f, value, err := ParseFilter("Название региона: Москва", naming)
	require.NoError(t, err)
	assert.Equal(t, FieldArea, f)
	assert.Equal(t, "Москва", value)

	f, value, err = ParseFilter("key_skills: Go, SQL", naming)
	require.NoError(t, err)
	assert.Equal(t, FieldKeySkills, f)
	assert.Equal(t, "Go, SQL", value)

	_, _, err = ParseFilter("area_name Москва", naming)
	assert.ErrorIs(t, err, ErrInvalidFilter)

	_, _, err = ParseFilter("shoe_size: 42", naming)
	assert.ErrorIs(t, err, ErrUnknownField)
}

func sampleRecords(t *testing.T) []models.Vacancy {
	return buildAll(t,
		row("A", "Go\nSQL", "moreThan6", "True", "100", "200", "RUR", "Moscow", "2022-05-31T17:32:31+0300"),
		row("B", "Go", "noExperience", "False", "10", "20", "USD", "Omsk", "2021-01-10T10:00:00+0300"),
		row("C", "Go\nSQL\nDocker", "between1And3", "False", "50", "60", "RUR", "Moscow", "2022-05-31T09:00:00+0300"),
	)
}

func titles(records []models.Vacancy) []string {
	out := make([]string, len(records))
	for i, v := range records {
		out[i] = v.Title()
	}
	return out
}

func TestFilter(t *testing.T) {
	records := sampleRecords(t)
	q := NewQuery(DefaultNaming(), salary.NewNormalizer(salary.ModeStatic, currency.NewStaticTable(currency.DefaultRates()), ""))

	tests := []struct {
		field Field
		value string
		want  []string
	}{
		{FieldArea, "Moscow", []string{"A", "C"}},
		{FieldSalary, "150", []string{"A"}},
		{FieldKeySkills, "Go, SQL", []string{"A", "C"}},
		{FieldPublishedAt, "31.05.2022", []string{"A", "C"}},
		{FieldCurrency, "Доллары", []string{"B"}},
		{FieldCurrency, "USD", []string{"B"}},
		{FieldPremium, "Да", []string{"A"}},
		{FieldExperience, "Нет опыта", []string{"B"}},
	}
	for _, tt := range tests {
		t.Run(tt.field.String()+"="+tt.value, func(t *testing.T) {
			got, err := q.Filter(records, tt.field, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(got))
		})
	}

	_, err := q.Filter(records, FieldPublishedAt, "2022-05-31")
	assert.Error(t, err)
}

func TestSort(t *testing.T) {
	q := NewQuery(DefaultNaming(), salary.NewNormalizer(salary.ModeStatic, currency.NewStaticTable(currency.DefaultRates()), ""))

	tests := []struct {
		field   Field
		reverse bool
		want    []string
	}{
		{FieldSalary, false, []string{"C", "A", "B"}},
		{FieldSalary, true, []string{"B", "A", "C"}},
		{FieldExperience, false, []string{"B", "C", "A"}},
		{FieldKeySkills, true, []string{"C", "A", "B"}},
		{FieldPublishedAt, false, []string{"B", "C", "A"}},
		{FieldArea, false, []string{"A", "C", "B"}},
		{FieldArea, true, []string{"B", "A", "C"}},
	}
	for _, tt := range tests {
		t.Run(tt.field.String(), func(t *testing.T) {
			records := sampleRecords(t)
			require.NoError(t, q.Sort(records, tt.field, tt.reverse))
			assert.Equal(t, tt.want, titles(records))
		})
	}
}
