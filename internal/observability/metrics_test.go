package observability

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics("test")

	m.RecordRows(10, 2, "malformed")
	m.RecordDropped(3, "unknown_salary")
	m.RecordDropped(0, "ignored")
	m.RecordVacancies(8, 3)
	m.RecordRateFetched()
	m.RecordShards(2)

	assert.Equal(t, 10.0, testutil.ToFloat64(m.RowsRead))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RowsDropped.WithLabelValues("malformed")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.RowsDropped.WithLabelValues("unknown_salary")))
	assert.Equal(t, 8.0, testutil.ToFloat64(m.VacanciesBuilt))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.UnknownSalaries))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RatesFetched))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ShardsWritten))
}

func TestMetrics_Status(t *testing.T) {
	m := NewMetrics("")

	m.RecordStatus(errors.New("boom"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LastRunStatus.WithLabelValues("failure")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.LastRunStatus.WithLabelValues("success")))

	m.RecordStatus(nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LastRunStatus.WithLabelValues("success")))
}

func TestMetrics_PrivateRegistries(t *testing.T) {
	a := NewMetrics("test")
	b := NewMetrics("test")
	a.RecordRows(5, 0, "")

	assert.Equal(t, 0.0, testutil.ToFloat64(b.RowsRead))
	assert.NotSame(t, a.Registry(), b.Registry())
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRows(1, 1, "x")
		m.RecordVacancies(1, 1)
		m.RecordPhase("read", time.Now())
		m.RecordStatus(nil)
	})
	assert.NoError(t, m.WriteTextfile("unused"))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := NewMetrics("salarystats")
	m.RecordRows(4, 1, "malformed")
	m.RecordPhase("aggregate", time.Now())

	path := filepath.Join(t.TempDir(), "salarystats.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "salarystats_input_rows_read_total 4")
	assert.Contains(t, string(data), `salarystats_input_rows_dropped_total{reason="malformed"} 1`)
	assert.Contains(t, string(data), `salarystats_run_duration_seconds{phase="aggregate"}`)
}
