package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/fr4nk3nst1ner/salarystats/internal/utils"
)

// RenderMarkdown writes the report as two Markdown tables with aligned columns
func RenderMarkdown(w io.Writer, r *Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Статистика вакансий: %s\n\n", r.Job)
	if r.RunID != "" {
		fmt.Fprintf(&b, "Run `%s`, %s\n\n", r.RunID, r.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	}

	years := [][]string{YearHeaders(r.Job)}
	for _, row := range r.YearRows() {
		years = append(years, []string{
			fmt.Sprint(row.Year),
			humanize.Comma(int64(row.SalaryAll)),
			humanize.Comma(int64(row.SalaryJob)),
			humanize.Comma(int64(row.NumberAll)),
			humanize.Comma(int64(row.NumberJob)),
		})
	}
	b.WriteString("## Статистика по годам\n\n")
	writeMarkdownTable(&b, years)

	salaryHeader, shareHeader := CityHeaders()

	salaries := [][]string{salaryHeader}
	for _, cv := range r.CitiesStatistics.Salary {
		salaries = append(salaries, []string{cv.City, humanize.Comma(int64(cv.Value))})
	}
	b.WriteString("\n## Уровень зарплат по городам\n\n")
	writeMarkdownTable(&b, salaries)

	shares := [][]string{shareHeader}
	for _, cv := range r.CitiesStatistics.Share {
		shares = append(shares, []string{cv.City, utils.FormatShare(cv.Value)})
	}
	b.WriteString("\n## Доля вакансий по городам\n\n")
	writeMarkdownTable(&b, shares)

	_, err := io.WriteString(w, b.String())
	return err
}

// writeMarkdownTable pads every cell to the display width of its column
func writeMarkdownTable(b *strings.Builder, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(cell), 3)
			}
		}
	}

	line := func(cells []string) {
		b.WriteString("|")
		for i, width := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(" " + runewidth.FillRight(cell, width) + " |")
		}
		b.WriteString("\n")
	}

	line(rows[0])
	sep := make([]string, len(widths))
	for i, width := range widths {
		sep[i] = strings.Repeat("-", width)
	}
	line(sep)
	for _, row := range rows[1:] {
		line(row)
	}
}
