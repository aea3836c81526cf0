package reader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleExport = "\ufeffname,salary_from,salary_to,salary_currency,area_name,published_at\n" +
	"Analyst,1000,1000,RUR,Ekb,2021-05-01T10:00:00+0300\n" +
	"Programmer,,1000,RUR,Ekb,2022-05-01T10:00:00+0300\n" +
	"Designer,1200,1200,RUR,Tomsk\n" +
	"\"Multi\nline\",1200,1200,RUR,Tomsk,2022-06-01T10:00:00+0300\n"

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vacancies.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadFile_FiltersMalformedRows(t *testing.T) {
	table, err := ReadFile(writeTempFile(t, sampleExport))
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "salary_from", "salary_to", "salary_currency", "area_name", "published_at"}, table.Header)
	assert.Equal(t, 6, table.Width())
	require.Len(t, table.AllRows, 4)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Analyst", table.Rows[0][0])
	assert.Equal(t, "Multi\nline", table.Rows[1][0])
}

func TestRead_Empty(t *testing.T) {
	table, err := Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, table.Header)
	assert.Empty(t, table.Rows)
	assert.Empty(t, table.AllRows)
}

func TestRead_HeaderOnly(t *testing.T) {
	table, err := Read(strings.NewReader("name,area_name\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "area_name"}, table.Header)
	assert.Empty(t, table.Rows)
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)

	_, err = ReadFile("")
	assert.ErrorIs(t, err, ErrNoPath)
}

func TestIsWellFormed(t *testing.T) {
	assert.True(t, IsWellFormed([]string{"a", "b"}, 2))
	assert.False(t, IsWellFormed([]string{"a", ""}, 2))
	assert.False(t, IsWellFormed([]string{"a"}, 2))
	assert.False(t, IsWellFormed([]string{"a", "b", "c"}, 2))
	assert.True(t, IsWellFormed([]string{" ", "b"}, 2))
}

func TestWellFormed(t *testing.T) {
	rows := [][]string{{"a", "b"}, {"", "b"}, {"c", "d"}}
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}}, WellFormed(2, rows))
}
