package postgres

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "accounts"
	metricsSubsystem = "db_pool"
)

// StatSource is anything that can report pool statistics.
type StatSource interface {
	Stat() PoolStats
}

// PoolCollector exports pool statistics as Prometheus metrics.
// Values are read from the pool at scrape time.
type PoolCollector struct {
	source StatSource

	acquiredConns    *prometheus.Desc
	idleConns        *prometheus.Desc
	totalConns       *prometheus.Desc
	maxConns         *prometheus.Desc
	acquireCount     *prometheus.Desc
	acquireDuration  *prometheus.Desc
	canceledAcquires *prometheus.Desc
	emptyAcquires    *prometheus.Desc
	livenessFailures *prometheus.Desc
	acquireTimeouts  *prometheus.Desc
}

// Ensure PoolCollector implements prometheus.Collector interface
var _ prometheus.Collector = (*PoolCollector)(nil)

// NewPoolCollector returns a collector reading from source.
func NewPoolCollector(source StatSource) *PoolCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(metricsNamespace, metricsSubsystem, name),
			help, nil, nil,
		)
	}

	return &PoolCollector{
		source:           source,
		acquiredConns:    desc("acquired_conns", "Number of connections currently leased"),
		idleConns:        desc("idle_conns", "Number of idle connections in the pool"),
		totalConns:       desc("total_conns", "Number of open connections, leased or idle"),
		maxConns:         desc("max_conns", "Maximum number of connections the pool may open"),
		acquireCount:     desc("acquires_total", "Number of successful connection acquisitions"),
		acquireDuration:  desc("acquire_wait_seconds_total", "Cumulative time spent waiting for connections"),
		canceledAcquires: desc("canceled_acquires_total", "Number of acquisitions abandoned by the caller"),
		emptyAcquires:    desc("empty_acquires_total", "Number of acquisitions that had to wait for a connection"),
		livenessFailures: desc("liveness_failures_total", "Number of connections discarded by the checkout ping"),
		acquireTimeouts:  desc("acquire_timeouts_total", "Number of acquisitions that exceeded the acquire timeout"),
	}
}

// Describe implements prometheus.Collector.
func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquiredConns
	ch <- c.idleConns
	ch <- c.totalConns
	ch <- c.maxConns
	ch <- c.acquireCount
	ch <- c.acquireDuration
	ch <- c.canceledAcquires
	ch <- c.emptyAcquires
	ch <- c.livenessFailures
	ch <- c.acquireTimeouts
}

// Collect implements prometheus.Collector.
func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.Stat()

	gauge := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v)
	}
	counter := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, v)
	}

	gauge(c.acquiredConns, float64(s.AcquiredConns))
	gauge(c.idleConns, float64(s.IdleConns))
	gauge(c.totalConns, float64(s.TotalConns))
	gauge(c.maxConns, float64(s.MaxConns))
	counter(c.acquireCount, float64(s.AcquireCount))
	counter(c.acquireDuration, s.AcquireDuration.Seconds())
	counter(c.canceledAcquires, float64(s.CanceledAcquireCount))
	counter(c.emptyAcquires, float64(s.EmptyAcquireCount))
	counter(c.livenessFailures, float64(s.LivenessFailures))
	counter(c.acquireTimeouts, float64(s.AcquireTimeouts))
}
