package report

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/fr4nk3nst1ner/salarystats/internal/models"
	"github.com/fr4nk3nst1ner/salarystats/internal/vacancy"
)

func sampleReport() *Report {
	years := models.NewYearStatistics()
	years.Years = []int{2021, 2022}
	years.SalaryAll = map[int]int{2021: 1000, 2022: 1100}
	years.NumberAll = map[int]int{2021: 1, 2022: 2}
	years.SalaryJob = map[int]int{2021: 0, 2022: 1000}
	years.NumberJob = map[int]int{2021: 0, 2022: 1}

	cities := models.CityStatistics{
		Salary: models.Ranking{{City: "Tomsk", Value: 1200}, {City: "Ekb", Value: 1000}},
		Share:  models.Ranking{{City: "Ekb", Value: 0.6667}, {City: "Tomsk", Value: 0.3333}},
	}
	return Assemble("run-1", "Programmer", years, cities)
}

func TestWriteJSON_Shape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleReport()))

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	assert.Contains(t, raw, "years_statistics")
	assert.Contains(t, raw, "cities_statistics")
	assert.Contains(t, raw, "run_id")

	var years map[string]map[string]int
	require.NoError(t, json.Unmarshal(raw["years_statistics"], &years))
	assert.Equal(t, map[string]int{"2021": 1000, "2022": 1100}, years["salary_all"])
	assert.Equal(t, map[string]int{"2021": 0, "2022": 1}, years["number_job"])

	// rank order survives in the serialized city mappings
	s := string(raw["cities_statistics"])
	require.Contains(t, s, `"Tomsk": 1200`)
	assert.Less(t, strings.Index(s, `"Tomsk": 1200`), strings.Index(s, `"Ekb": 1000`))
	assert.Contains(t, s, `"proportion"`)
}

func TestReadJSON_RoundTrip(t *testing.T) {
	want := sampleReport()
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, want))

	got, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, want.YearsStatistics, got.YearsStatistics)
	assert.Equal(t, want.CitiesStatistics, got.CitiesStatistics)
	assert.True(t, want.GeneratedAt.Equal(got.GeneratedAt))
}

func TestYearRows(t *testing.T) {
	r := sampleReport()
	r.YearsStatistics.Years = nil

	assert.Equal(t, []YearRow{
		{Year: 2021, SalaryAll: 1000, SalaryJob: 0, NumberAll: 1, NumberJob: 0},
		{Year: 2022, SalaryAll: 1100, SalaryJob: 1000, NumberAll: 2, NumberJob: 1},
	}, r.YearRows())
}

func TestRenderMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderMarkdown(&buf, sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "## Статистика по годам")
	assert.Contains(t, out, "| 2022 | 1,100 ")
	assert.Contains(t, out, "| Ekb   | 66.67%")
}

func TestRenderConsole(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	var buf bytes.Buffer
	require.NoError(t, RenderConsole(&buf, sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "Средняя зарплата - Programmer")
	assert.Contains(t, out, "Tomsk")
	assert.Contains(t, out, "66.67%")
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.xlsx")
	require.NoError(t, WriteXLSX(path, sampleReport()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{YearsSheet, CitiesSheet}, f.GetSheetList())

	cell := func(sheet, axis string) string {
		v, err := f.GetCellValue(sheet, axis, excelize.Options{RawCellValue: true})
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "Год", cell(YearsSheet, "A1"))
	assert.Equal(t, "Средняя зарплата - Programmer", cell(YearsSheet, "C1"))
	assert.Equal(t, "2022", cell(YearsSheet, "A3"))
	assert.Equal(t, "1100", cell(YearsSheet, "B3"))

	assert.Equal(t, "Tomsk", cell(CitiesSheet, "A2"))
	assert.Equal(t, "1200", cell(CitiesSheet, "B2"))
	assert.Equal(t, "", cell(CitiesSheet, "C2"))
	assert.Equal(t, "Ekb", cell(CitiesSheet, "D2"))
	assert.Equal(t, "0.6667", cell(CitiesSheet, "E2"))

	styleID, err := f.GetCellStyle(CitiesSheet, "E2")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	assert.Equal(t, percentFormat, style.NumFmt)

	headerID, err := f.GetCellStyle(YearsSheet, "A1")
	require.NoError(t, err)
	header, err := f.GetStyle(headerID)
	require.NoError(t, err)
	require.NotNil(t, header.Font)
	assert.True(t, header.Font.Bold)

	width, err := f.GetColWidth(YearsSheet, "C")
	require.NoError(t, err)
	assert.Equal(t, float64(len([]rune("Средняя зарплата - Programmer"))+2), width)
}

func tableRecords(t *testing.T) []models.Vacancy {
	t.Helper()
	mk := func(title, from, to, code, gross, published string, skills []string) models.Vacancy {
		v, err := models.NewVacancy(title, "Москва", models.KnownSalary(1), published)
		require.NoError(t, err)
		return v.WithDetails(models.Details{
			Description: strings.Repeat("a", 120),
			Skills:      skills,
			Experience:  "between1And3",
			Premium:     "False",
			Employer:    "ACME",
			Range:       models.SalaryRange{From: from, To: to, Currency: code, Gross: gross},
		})
	}
	return []models.Vacancy{
		mk("Программист", "10000", "20000", "RUR", "True", "2022-07-05T18:19:30+0300", []string{"Go", "SQL"}),
		mk("Аналитик", "1000.5", "2000", "USD", "False", "2022-07-06T10:00:00+0300", nil),
		mk("Тестировщик", "500", "900", "EUR", "False", "2022-07-07T10:00:00+0300", nil),
	}
}

func TestVacancyRows(t *testing.T) {
	naming := vacancy.DefaultNaming()
	rows := VacancyRows(tableRecords(t), naming, TableOptions{
		Columns: []vacancy.Field{vacancy.FieldName, vacancy.FieldSalary, vacancy.FieldPublishedAt, vacancy.FieldDescription, vacancy.FieldExperience},
	})

	require.Len(t, rows, 4)
	assert.Equal(t, []string{"№", "Название", "Оклад", "Дата публикации вакансии", "Описание", "Опыт работы"}, rows[0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "10 000 - 20 000 (Рубли) (Без вычета налогов)", rows[1][2])
	assert.Equal(t, "05.07.2022", rows[1][3])
	assert.Equal(t, strings.Repeat("a", 100)+"...", rows[1][4])
	assert.Equal(t, "От 1 года до 3 лет", rows[1][5])
	assert.Equal(t, "1 000 - 2 000 (Доллары) (С вычетом налогов)", rows[2][2])
}

func TestVacancyRows_Range(t *testing.T) {
	naming := vacancy.DefaultNaming()
	records := tableRecords(t)

	rows := VacancyRows(records, naming, TableOptions{Start: 2})
	require.Len(t, rows, 3)
	assert.Equal(t, "2", rows[1][0])

	rows = VacancyRows(records, naming, TableOptions{Start: 1, End: 3})
	require.Len(t, rows, 3)
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "2", rows[2][0])

	rows = VacancyRows(records, naming, TableOptions{Start: 10})
	assert.Len(t, rows, 1)
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		in         string
		start, end int
		wantErr    bool
	}{
		{"", 0, 0, false},
		{"3", 3, 0, false},
		{"2 5", 2, 5, false},
		{"0", 0, 0, true},
		{"a b", 0, 0, true},
		{"1 2 3", 0, 0, true},
	}
	for _, tt := range tests {
		start, end, err := ParseRange(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidRange, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.start, start, tt.in)
		assert.Equal(t, tt.end, end, tt.in)
	}
}

func TestParseColumns(t *testing.T) {
	naming := vacancy.DefaultNaming()
	got, err := ParseColumns("Название, area_name,", naming)
	require.NoError(t, err)
	assert.Equal(t, []vacancy.Field{vacancy.FieldName, vacancy.FieldArea}, got)

	_, err = ParseColumns("nope", naming)
	assert.ErrorIs(t, err, vacancy.ErrUnknownField)
}

func TestRenderVacancyTable(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	var buf bytes.Buffer
	err := RenderVacancyTable(&buf, tableRecords(t), vacancy.DefaultNaming(), TableOptions{
		Columns: []vacancy.Field{vacancy.FieldName, vacancy.FieldArea},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Программист")
	assert.Contains(t, buf.String(), "Название региона")
}
