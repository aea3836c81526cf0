package currency

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const dateColumn = "date"

// LoadMonthTable reads a rate file written by SaveMonthTable
func LoadMonthTable(path string) (*MonthTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rate file: %w", err)
	}
	defer f.Close()

	table, err := ReadMonthTable(f)
	if err != nil {
		return nil, fmt.Errorf("read rate file %s: %w", path, err)
	}
	return table, nil
}

// ReadMonthTable parses a rate file. The header must contain a "date" column;
// an unnamed leading index column is ignored and every other column is a
// currency code. Blank cells are placeholders.
func ReadMonthTable(r io.Reader) (*MonthTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("rate file is empty")
	}
	if err != nil {
		return nil, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	dateIdx := -1
	codeIdx := make(map[int]string)
	var codes []string
	for i, name := range header {
		name = strings.TrimSpace(name)
		switch {
		case name == dateColumn:
			dateIdx = i
		case name == "":
		default:
			codeIdx[i] = name
			codes = append(codes, name)
		}
	}
	if dateIdx < 0 {
		return nil, fmt.Errorf("rate file has no %q column", dateColumn)
	}

	table := NewMonthTable(codes)
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if dateIdx >= len(record) {
			return nil, fmt.Errorf("line %d: missing date", line)
		}
		month := strings.TrimSpace(record[dateIdx])
		table.AddMonth(month)

		for i, code := range codeIdx {
			if i >= len(record) {
				continue
			}
			rate, err := ParseRate(record[i])
			if errors.Is(err, ErrBlankRate) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			table.Set(month, code, rate)
		}
	}

	return table, nil
}

// SaveMonthTable writes the table to path, creating parent directories
func SaveMonthTable(path string, table *MonthTable) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create rate file directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create rate file: %w", err)
	}
	if err := WriteMonthTable(f, table); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteMonthTable writes an index column, the date column and one column per
// currency. Blank cells are written empty.
func WriteMonthTable(w io.Writer, table *MonthTable) error {
	cw := csv.NewWriter(w)
	codes := table.Codes()

	header := append([]string{"", dateColumn}, codes...)
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, month := range table.Months() {
		record := make([]string, 0, len(header))
		record = append(record, strconv.Itoa(i), month)
		for _, code := range codes {
			if rate, ok := table.Rate(month, code); ok {
				record = append(record, strconv.FormatFloat(rate, 'f', -1, 64))
			} else {
				record = append(record, "")
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
