// Package observability provides Prometheus metrics for batch runs.
package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the counters of one run. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Input metrics
	RowsRead        prometheus.Counter
	RowsDropped     *prometheus.CounterVec
	UnknownSalaries prometheus.Counter
	VacanciesBuilt  prometheus.Counter

	// Currency metrics
	RatesFetched prometheus.Counter

	// Run metrics
	RunDuration   *prometheus.GaugeVec
	LastRunStatus *prometheus.GaugeVec
	ShardsWritten prometheus.Counter
}

// NewMetrics registers every metric on a private registry under namespace
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "salarystats"
	}

	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RowsRead: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "input",
			Name:      "rows_read_total",
			Help:      "Total number of data rows read from the export",
		}),
		RowsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "input",
			Name:      "rows_dropped_total",
			Help:      "Total number of rows dropped before aggregation",
		}, []string{"reason"}),
		UnknownSalaries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "input",
			Name:      "unknown_salaries_total",
			Help:      "Total number of vacancies whose salary could not be normalized",
		}),
		VacanciesBuilt: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "input",
			Name:      "vacancies_built_total",
			Help:      "Total number of vacancy records built",
		}),

		RatesFetched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "currency",
			Name:      "months_fetched_total",
			Help:      "Total number of monthly rate sets fetched from the rate source",
		}),

		RunDuration: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "duration_seconds",
			Help:      "Duration of the last run by phase",
		}, []string{"phase"}),
		LastRunStatus: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "last_status",
			Help:      "1 when the last run ended with the labelled status",
		}, []string{"status"}),
		ShardsWritten: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "shards_written_total",
			Help:      "Total number of year shard files written",
		}),
	}
}

// Registry exposes the private registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordRows records rows read and the rows dropped for reason
func (m *Metrics) RecordRows(read, dropped int, reason string) {
	if m == nil {
		return
	}
	m.RowsRead.Add(float64(read))
	if dropped > 0 {
		m.RowsDropped.WithLabelValues(reason).Add(float64(dropped))
	}
}

// RecordDropped records rows removed at a later pipeline stage
func (m *Metrics) RecordDropped(dropped int, reason string) {
	if m == nil || dropped <= 0 {
		return
	}
	m.RowsDropped.WithLabelValues(reason).Add(float64(dropped))
}

// RecordVacancies records built vacancies and how many had no known salary
func (m *Metrics) RecordVacancies(built, unknown int) {
	if m == nil {
		return
	}
	m.VacanciesBuilt.Add(float64(built))
	m.UnknownSalaries.Add(float64(unknown))
}

// RecordRateFetched counts one fetched month of rates
func (m *Metrics) RecordRateFetched() {
	if m == nil {
		return
	}
	m.RatesFetched.Inc()
}

// RecordShards counts written shard files
func (m *Metrics) RecordShards(n int) {
	if m == nil {
		return
	}
	m.ShardsWritten.Add(float64(n))
}

// RecordPhase stores the duration of a pipeline phase
func (m *Metrics) RecordPhase(phase string, started time.Time) {
	if m == nil {
		return
	}
	m.RunDuration.WithLabelValues(phase).Set(time.Since(started).Seconds())
}

// RecordStatus marks the run as succeeded or failed
func (m *Metrics) RecordStatus(err error) {
	if m == nil {
		return
	}
	ok, failed := 1.0, 0.0
	if err != nil {
		ok, failed = 0, 1
	}
	m.LastRunStatus.WithLabelValues("success").Set(ok)
	m.LastRunStatus.WithLabelValues("failure").Set(failed)
}

// WriteTextfile writes every metric in the node_exporter textfile format
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
