package shard

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

// Columns gives the position of the exported fields in a raw row
type Columns struct {
	Name        int
	SalaryFrom  int
	SalaryTo    int
	Currency    int
	Area        int
	PublishedAt int
}

// vacancyRecord is the parquet schema of a shard row
type vacancyRecord struct {
	Name        string `parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8"`
	SalaryFrom  string `parquet:"name=salary_from, type=BYTE_ARRAY, convertedtype=UTF8"`
	SalaryTo    string `parquet:"name=salary_to, type=BYTE_ARRAY, convertedtype=UTF8"`
	Currency    string `parquet:"name=salary_currency, type=BYTE_ARRAY, convertedtype=UTF8"`
	Area        string `parquet:"name=area_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	PublishedAt string `parquet:"name=published_at, type=BYTE_ARRAY, convertedtype=UTF8"`
}

type memFile struct {
	buffer *bytes.Buffer
}

func newMemFile() *memFile {
	return &memFile{buffer: &bytes.Buffer{}}
}

func (m *memFile) Create(string) (source.ParquetFile, error) { return m, nil }
func (m *memFile) Open(string) (source.ParquetFile, error)   { return m, nil }
func (m *memFile) Seek(int64, int) (int64, error)            { return int64(m.buffer.Len()), nil }
func (m *memFile) Read([]byte) (int, error)                  { return 0, io.EOF }
func (m *memFile) Write(b []byte) (int, error)               { return m.buffer.Write(b) }
func (m *memFile) Close() error                              { return nil }
func (m *memFile) Bytes() []byte                             { return m.buffer.Bytes() }

// ParquetPath returns the parquet shard file of a year inside dir
func ParquetPath(dir, year string) string {
	return filepath.Join(dir, year+".parquet")
}

// WriteParquet writes one snappy compressed parquet file per year holding the
// six core columns. It returns the written paths in year order.
func WriteParquet(dir string, cols Columns, parts Partitions) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create shard directory: %w", err)
	}

	var paths []string
	for _, year := range parts.Years() {
		data, err := EncodeParquet(cols, parts[year])
		if err != nil {
			return nil, fmt.Errorf("encode shard %s: %w", year, err)
		}
		path := ParquetPath(dir, year)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("write shard %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// EncodeParquet renders rows as an in-memory parquet file
func EncodeParquet(cols Columns, rows [][]string) ([]byte, error) {
	mf := newMemFile()
	pw, err := writer.NewParquetWriter(mf, new(vacancyRecord), 1)
	if err != nil {
		return nil, err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	cell := func(row []string, idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	for _, row := range rows {
		rec := vacancyRecord{
			Name:        cell(row, cols.Name),
			SalaryFrom:  cell(row, cols.SalaryFrom),
			SalaryTo:    cell(row, cols.SalaryTo),
			Currency:    cell(row, cols.Currency),
			Area:        cell(row, cols.Area),
			PublishedAt: cell(row, cols.PublishedAt),
		}
		if err := pw.Write(rec); err != nil {
			return nil, err
		}
	}

	if err := pw.WriteStop(); err != nil {
		return nil, err
	}
	return mf.Bytes(), nil
}
