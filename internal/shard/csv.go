package shard

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// CSVPath returns the shard file of a year inside dir
func CSVPath(dir, year string) string {
	return filepath.Join(dir, year+".csv")
}

// WriteCSV writes one file per year, each starting with a byte order mark and
// the header. It returns the written paths in year order.
func WriteCSV(dir string, header []string, parts Partitions) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create shard directory: %w", err)
	}

	var paths []string
	for _, year := range parts.Years() {
		path := CSVPath(dir, year)
		if err := writeCSVFile(path, header, parts[year]); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeCSVFile(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create shard %s: %w", path, err)
	}

	if _, err := f.Write(utf8BOM); err != nil {
		f.Close()
		return fmt.Errorf("write shard %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("write shard %s: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write shard %s: %w", path, err)
	}
	return f.Close()
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}
