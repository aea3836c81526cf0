package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-runewidth"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the workbook
const (
	YearsSheet  = "Статистика по годам"
	CitiesSheet = "Статистика по городам"
)

// percentFormat is the built-in "0.00%" number format
const percentFormat = 10

type sheetWriter struct {
	f      *excelize.File
	sheet  string
	widths map[int]int
}

func (s *sheetWriter) set(col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := s.f.SetCellValue(s.sheet, cell, value); err != nil {
		return err
	}
	if width := runewidth.StringWidth(fmt.Sprint(value)) + 2; width > s.widths[col] {
		s.widths[col] = width
	}
	return nil
}

func (s *sheetWriter) style(fromCol, fromRow, toCol, toRow, style int) error {
	from, err := excelize.CoordinatesToCellName(fromCol, fromRow)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(toCol, toRow)
	if err != nil {
		return err
	}
	return s.f.SetCellStyle(s.sheet, from, to, style)
}

func (s *sheetWriter) fitColumns() error {
	for col, width := range s.widths {
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return err
		}
		if err := s.f.SetColWidth(s.sheet, name, name, float64(width)); err != nil {
			return err
		}
	}
	return nil
}

type styles struct {
	header  int
	body    int
	percent int
}

func newStyles(f *excelize.File) (styles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}

	var s styles
	var err error
	if s.header, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, Border: border}); err != nil {
		return s, err
	}
	if s.body, err = f.NewStyle(&excelize.Style{Border: border}); err != nil {
		return s, err
	}
	if s.percent, err = f.NewStyle(&excelize.Style{Border: border, NumFmt: percentFormat}); err != nil {
		return s, err
	}
	return s, nil
}

// BuildWorkbook lays the report out on two sheets. The city sheet holds the
// salary ranking in columns A and B and the share ranking in D and E.
func BuildWorkbook(r *Report) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", YearsSheet); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(CitiesSheet); err != nil {
		f.Close()
		return nil, err
	}

	st, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := writeYears(f, st, r); err != nil {
		f.Close()
		return nil, fmt.Errorf("years sheet: %w", err)
	}
	if err := writeCities(f, st, r); err != nil {
		f.Close()
		return nil, fmt.Errorf("cities sheet: %w", err)
	}
	return f, nil
}

func writeYears(f *excelize.File, st styles, r *Report) error {
	sw := &sheetWriter{f: f, sheet: YearsSheet, widths: make(map[int]int)}

	headers := YearHeaders(r.Job)
	for i, h := range headers {
		if err := sw.set(i+1, 1, h); err != nil {
			return err
		}
	}
	if err := sw.style(1, 1, len(headers), 1, st.header); err != nil {
		return err
	}

	rows := r.YearRows()
	for i, row := range rows {
		values := []interface{}{row.Year, row.SalaryAll, row.SalaryJob, row.NumberAll, row.NumberJob}
		for j, v := range values {
			if err := sw.set(j+1, i+2, v); err != nil {
				return err
			}
		}
	}
	if len(rows) > 0 {
		if err := sw.style(1, 2, len(headers), len(rows)+1, st.body); err != nil {
			return err
		}
	}
	return sw.fitColumns()
}

func writeCities(f *excelize.File, st styles, r *Report) error {
	sw := &sheetWriter{f: f, sheet: CitiesSheet, widths: make(map[int]int)}

	salaryHeader, shareHeader := CityHeaders()
	headers := map[int]string{1: salaryHeader[0], 2: salaryHeader[1], 4: shareHeader[0], 5: shareHeader[1]}
	for col, h := range headers {
		if err := sw.set(col, 1, h); err != nil {
			return err
		}
	}
	if err := sw.style(1, 1, 2, 1, st.header); err != nil {
		return err
	}
	if err := sw.style(4, 1, 5, 1, st.header); err != nil {
		return err
	}

	for i, cv := range r.CitiesStatistics.Salary {
		if err := sw.set(1, i+2, cv.City); err != nil {
			return err
		}
		if err := sw.set(2, i+2, int(cv.Value)); err != nil {
			return err
		}
	}
	if n := len(r.CitiesStatistics.Salary); n > 0 {
		if err := sw.style(1, 2, 2, n+1, st.body); err != nil {
			return err
		}
	}

	for i, cv := range r.CitiesStatistics.Share {
		if err := sw.set(4, i+2, cv.City); err != nil {
			return err
		}
		if err := sw.set(5, i+2, cv.Value); err != nil {
			return err
		}
	}
	if n := len(r.CitiesStatistics.Share); n > 0 {
		if err := sw.style(4, 2, 4, n+1, st.body); err != nil {
			return err
		}
		if err := sw.style(5, 2, 5, n+1, st.percent); err != nil {
			return err
		}
	}
	return sw.fitColumns()
}

// WriteXLSX saves the workbook of the report to path
func WriteXLSX(path string, r *Report) error {
	f, err := BuildWorkbook(r)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
