// Package reader loads vacancy exports from CSV files.
package reader

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fr4nk3nst1ner/salarystats/internal/logger"
)

// ErrNoPath is returned when no input file was given
var ErrNoPath = errors.New("no input file given")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is the parsed content of an export
type Table struct {
	Header []string
	// Rows holds the well-formed data rows in file order
	Rows [][]string
	// AllRows holds every data row, malformed ones included
	AllRows [][]string
}

// Width returns the number of header columns
func (t *Table) Width() int {
	return len(t.Header)
}

// ReadFile opens and parses the export at path
func ReadFile(path string) (*Table, error) {
	if path == "" {
		return nil, ErrNoPath
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	table, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return table, nil
}

// Read parses an export. The first record is the header. An empty input
// yields an empty table. Records with CSV syntax errors are skipped.
func Read(r io.Reader) (*Table, error) {
	log := logger.GetLogger().WithComponent("reader")

	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return nil, err
		}
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	table := &Table{Header: []string{}, Rows: [][]string{}, AllRows: [][]string{}}
	first := true
	skipped := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				skipped++
				log.WithError(err).Debug("skipping unparsable record")
				continue
			}
			return nil, err
		}

		if first {
			table.Header = record
			first = false
			continue
		}

		table.AllRows = append(table.AllRows, record)
		if IsWellFormed(record, len(table.Header)) {
			table.Rows = append(table.Rows, record)
		}
	}

	log.WithFields(logger.Fields{
		"columns":     len(table.Header),
		"rows":        len(table.AllRows),
		"well_formed": len(table.Rows),
		"unparsable":  skipped,
	}).Debug("export parsed")

	return table, nil
}

// IsWellFormed reports whether a row has exactly width cells and none of them is empty
func IsWellFormed(row []string, width int) bool {
	if len(row) != width {
		return false
	}
	for _, cell := range row {
		if cell == "" {
			return false
		}
	}
	return true
}

// WellFormed returns the rows that pass IsWellFormed, keeping order
func WellFormed(width int, rows [][]string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		if IsWellFormed(row, width) {
			out = append(out, row)
		}
	}
	return out
}
