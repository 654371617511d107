package bump

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsSource is anything that can report a Metrics snapshot. Both *Bump
// and *Safe implement it; scraping a *Bump that is in use on another
// goroutine is a data race, so register a *Safe in that case.
type MetricsSource interface {
	Metrics() Metrics
}

// Collector exports the metrics of named regions to Prometheus.
type Collector struct {
	regions map[string]MetricsSource

	inUse     *prometheus.Desc
	capacity  *prometheus.Desc
	peak      *prometheus.Desc
	chunks    *prometheus.Desc
	allocs    *prometheus.Desc
	failures  *prometheus.Desc
	deallocs  *prometheus.Desc
	reclaimed *prometheus.Desc
	resets    *prometheus.Desc
}

// NewCollector returns a Collector over regions keyed by their "region" label.
// The map must not be modified afterwards.
func NewCollector(namespace string, constLabels prometheus.Labels, regions map[string]MetricsSource) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "bump", name),
			help,
			[]string{"region"},
			constLabels,
		)
	}
	return &Collector{
		regions:   regions,
		inUse:     desc("in_use_bytes", "Bytes currently allocated, including alignment padding."),
		capacity:  desc("capacity_bytes", "Total bytes held by the region's chunks."),
		peak:      desc("peak_bytes", "Highest number of bytes in use observed."),
		chunks:    desc("chunks", "Number of chunks held by the region."),
		allocs:    desc("allocations_total", "Successful allocations."),
		failures:  desc("allocation_failures_total", "Allocations refused because the region was exhausted."),
		deallocs:  desc("deallocations_total", "Dealloc calls, whether or not memory was reclaimed."),
		reclaimed: desc("reclaimed_bytes_total", "Bytes given back before a reset."),
		resets:    desc("resets_total", "Bulk resets of the region."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.inUse
	ch <- c.capacity
	ch <- c.peak
	ch <- c.chunks
	ch <- c.allocs
	ch <- c.failures
	ch <- c.deallocs
	ch <- c.reclaimed
	ch <- c.resets
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for name, src := range c.regions {
		m := src.Metrics()
		ch <- prometheus.MustNewConstMetric(c.inUse, prometheus.GaugeValue, float64(m.SizeInUse), name)
		ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(m.Capacity), name)
		ch <- prometheus.MustNewConstMetric(c.peak, prometheus.GaugeValue, float64(m.Peak), name)
		ch <- prometheus.MustNewConstMetric(c.chunks, prometheus.GaugeValue, float64(m.NumChunks), name)
		ch <- prometheus.MustNewConstMetric(c.allocs, prometheus.CounterValue, float64(m.Allocs), name)
		ch <- prometheus.MustNewConstMetric(c.failures, prometheus.CounterValue, float64(m.Failures), name)
		ch <- prometheus.MustNewConstMetric(c.deallocs, prometheus.CounterValue, float64(m.Deallocs), name)
		ch <- prometheus.MustNewConstMetric(c.reclaimed, prometheus.CounterValue, float64(m.Reclaimed), name)
		ch <- prometheus.MustNewConstMetric(c.resets, prometheus.CounterValue, float64(m.Resets), name)
	}
}
