// Package metrics exports cache statistics to Prometheus.
package metrics

import (
	"github.com/Borislavv/go-ash-http-cache/model"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ashcache"

// StatsSource is satisfied by the cache.
type StatsSource interface {
	Stats() model.Stats
}

// Collector reads one Stats snapshot per scrape, so all exported values
// describe the same instant. Counters restart from zero after ResetStats.
type Collector struct {
	source StatsSource

	hits        *prometheus.Desc
	misses      *prometheus.Desc
	puts        *prometheus.Desc
	evictions   *prometheus.Desc
	expirations *prometheus.Desc
	hitRatio    *prometheus.Desc
	sizeBytes   *prometheus.Desc
	entries     *prometheus.Desc
}

func NewCollector(cacheID string, source StatsSource) *Collector {
	labels := prometheus.Labels{"cache_id": cacheID}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, nil, labels)
	}

	return &Collector{
		source:      source,
		hits:        desc("hits_total", "Reads which returned a fresh entry."),
		misses:      desc("misses_total", "Reads of absent or expired keys."),
		puts:        desc("puts_total", "Successful insertions and replacements."),
		evictions:   desc("evictions_total", "Entries evicted by the configured strategy."),
		expirations: desc("expirations_total", "Expired entries removed by cleanup."),
		hitRatio:    desc("hit_ratio", "Hits divided by all reads."),
		sizeBytes:   desc("size_bytes", "Sum of stored payload lengths."),
		entries:     desc("entries", "Number of stored entries."),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.puts
	ch <- c.evictions
	ch <- c.expirations
	ch <- c.hitRatio
	ch <- c.sizeBytes
	ch <- c.entries
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.Stats()

	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(c.puts, prometheus.CounterValue, float64(s.Puts))
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(s.Evictions))
	ch <- prometheus.MustNewConstMetric(c.expirations, prometheus.CounterValue, float64(s.Expirations))
	ch <- prometheus.MustNewConstMetric(c.hitRatio, prometheus.GaugeValue, s.HitRate())
	ch <- prometheus.MustNewConstMetric(c.sizeBytes, prometheus.GaugeValue, float64(s.CurrentSize))
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(s.CurrentEntries))
}
