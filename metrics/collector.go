// Package metrics exposes buffer statistics as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Source is what the collector reads on every scrape.
// *circular_buffer_go.LockingCircularBuffer satisfies it.
type Source interface {
	Size() int
	Capacity() int
	Dropped() uint64
	Rejected() uint64
}

// Collector reports the size, capacity, dropped and rejected counts of one
// buffer. Values are read at scrape time, so nothing needs to be updated by
// the buffer's users.
type Collector struct {
	source Source

	size     *prometheus.Desc
	capacity *prometheus.Desc
	dropped  *prometheus.Desc
	rejected *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector builds a collector whose metrics carry a constant
// buffer="<name>" label.
func NewCollector(namespace string, name string, source Source) *Collector {
	labels := prometheus.Labels{"buffer": name}

	return &Collector{
		source: source,
		size: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "buffer", "size"),
			"Number of live elements in the buffer.",
			nil, labels,
		),
		capacity: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "buffer", "capacity"),
			"Maximum number of live elements in the buffer.",
			nil, labels,
		),
		dropped: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "buffer", "dropped_total"),
			"Elements evicted by overwrites or shrinking.",
			nil, labels,
		),
		rejected: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "buffer", "rejected_total"),
			"Pushes rejected because the buffer was full in safe mode.",
			nil, labels,
		),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.size
	ch <- c.capacity
	ch <- c.dropped
	ch <- c.rejected
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.size, prometheus.GaugeValue, float64(c.source.Size()))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(c.source.Capacity()))
	ch <- prometheus.MustNewConstMetric(c.dropped, prometheus.CounterValue, float64(c.source.Dropped()))
	ch <- prometheus.MustNewConstMetric(c.rejected, prometheus.CounterValue, float64(c.source.Rejected()))
}
