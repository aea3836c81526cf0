package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/fr4nk3nst1ner/salarystats/internal/models"
	"github.com/fr4nk3nst1ner/salarystats/internal/utils"
	"github.com/fr4nk3nst1ner/salarystats/internal/vacancy"
)

// MaxCellLength is the number of characters kept in a table cell before "..." is appended
const MaxCellLength = 100

// ErrInvalidRange is returned for a row range that is not one or two positive numbers
var ErrInvalidRange = errors.New("invalid row range")

// TableOptions selects what part of the vacancy table is shown
type TableOptions struct {
	// Start is the first row number to show, counting from 1; 0 shows from the top
	Start int
	// End is the row number where output stops, exclusive; 0 shows to the bottom
	End int
	// Columns limits the output to these fields; empty shows all of DisplayFields
	Columns []vacancy.Field
}

// ParseRange reads "from" or "from to". The empty string selects every row.
func ParseRange(s string) (start, end int, err error) {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return 0, 0, nil
	}
	if len(parts) > 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidRange, s)
		}
		nums[i] = n
	}
	if len(nums) == 2 {
		return nums[0], nums[1], nil
	}
	return nums[0], 0, nil
}

// ParseColumns reads a comma separated list of column names or titles
func ParseColumns(s string, naming vacancy.Naming) ([]vacancy.Field, error) {
	var out []vacancy.Field
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f, err := vacancy.ParseField(part, naming)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// SalaryCell renders a salary range as "10 000 - 20 000 (Рубли) (Без вычета налогов)"
func SalaryCell(r models.SalaryRange, naming vacancy.Naming) string {
	taxes := naming.Net
	if r.Gross == "True" {
		taxes = naming.Gross
	}
	return fmt.Sprintf("%s - %s (%s) (%s)",
		utils.FormatThousands(r.From), utils.FormatThousands(r.To), naming.CurrencyName(r.Currency), taxes)
}

// Cell renders the display value of field for v
func Cell(v models.Vacancy, f vacancy.Field, naming vacancy.Naming) string {
	switch f {
	case vacancy.FieldExperience:
		return naming.ExperienceLabel(v.Experience())
	case vacancy.FieldPremium:
		return naming.Bool(v.Premium())
	case vacancy.FieldSalary:
		return SalaryCell(v.Range(), naming)
	case vacancy.FieldPublishedAt:
		return utils.FormatDisplayDate(v.Published())
	case vacancy.FieldCurrency:
		return naming.CurrencyName(v.Range().Currency)
	default:
		return f.Text(v)
	}
}

func truncateCell(s string) string {
	r := []rune(s)
	if len(r) <= MaxCellLength {
		return s
	}
	return string(r[:MaxCellLength]) + "..."
}

// VacancyRows builds the header and the numbered rows of the vacancy table
func VacancyRows(records []models.Vacancy, naming vacancy.Naming, opts TableOptions) [][]string {
	fields := opts.Columns
	if len(fields) == 0 {
		fields = vacancy.DisplayFields()
	}

	header := []string{"№"}
	for _, f := range fields {
		header = append(header, naming.Title(f))
	}
	out := [][]string{header}

	start, end := 0, len(records)
	if opts.Start > 0 {
		start = min(opts.Start-1, len(records))
	}
	if opts.End > 0 && opts.End-1 < end {
		end = opts.End - 1
	}

	for i := start; i < end; i++ {
		row := []string{strconv.Itoa(i + 1)}
		for _, f := range fields {
			row = append(row, truncateCell(Cell(records[i], f, naming)))
		}
		out = append(out, row)
	}
	return out
}

// RenderVacancyTable prints the selected part of the vacancy table
func RenderVacancyTable(w io.Writer, records []models.Vacancy, naming vacancy.Naming, opts TableOptions) error {
	rows := VacancyRows(records, naming, opts)
	table, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithRowSeparator("-").WithData(rows).Srender()
	if err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	_, err = fmt.Fprintln(w, table)
	return err
}
