package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/fr4nk3nst1ner/salarystats/internal/ui"
	"github.com/fr4nk3nst1ner/salarystats/internal/utils"
)

// RenderConsole prints the year and city tables with colored salaries
func RenderConsole(w io.Writer, r *Report) error {
	years := pterm.TableData{YearHeaders(r.Job)}
	for _, row := range r.YearRows() {
		years = append(years, []string{
			strconv.Itoa(row.Year),
			ui.ColorizeSalary(row.SalaryAll),
			ui.ColorizeSalary(row.SalaryJob),
			strconv.Itoa(row.NumberAll),
			strconv.Itoa(row.NumberJob),
		})
	}

	salaryHeader, shareHeader := CityHeaders()
	cities := pterm.TableData{append(append([]string{}, salaryHeader...), shareHeader...)}
	salaries, shares := r.CitiesStatistics.Salary, r.CitiesStatistics.Share
	for i := 0; i < max(len(salaries), len(shares)); i++ {
		row := []string{"", "", "", ""}
		if i < len(salaries) {
			row[0] = salaries[i].City
			row[1] = ui.ColorizeSalary(int(salaries[i].Value))
		}
		if i < len(shares) {
			row[2] = shares[i].City
			row[3] = utils.FormatShare(shares[i].Value)
		}
		cities = append(cities, row)
	}

	sections := []struct {
		title string
		data  pterm.TableData
	}{
		{"Динамика по годам: " + r.Job, years},
		{"Статистика по городам", cities},
	}
	for _, s := range sections {
		table, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(s.data).Srender()
		if err != nil {
			return fmt.Errorf("render table: %w", err)
		}
		if _, err := fmt.Fprintf(w, "\n%s\n%s\n", pterm.Bold.Sprint(s.title), table); err != nil {
			return err
		}
	}
	return nil
}
