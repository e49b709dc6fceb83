package usersearch

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    buildCounter    prometheus.Counter
//	    searchHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordSearch(results int, duration time.Duration) {
//	    p.searchHistogram.Observe(duration.Seconds())
//	}
type MetricsCollector interface {
	// RecordBuild is called after each index build.
	// records is the corpus size, err is nil if successful.
	RecordBuild(records int, duration time.Duration, err error)

	// RecordSearch is called after each search.
	RecordSearch(results int, duration time.Duration)

	// RecordCache is called after each IndexCache lookup.
	RecordCache(hit bool)

	// RecordRefresh is called after each Live refresh attempt.
	// changed reports whether a new index was swapped in.
	RecordRefresh(changed bool, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int, time.Duration, error)    {}
func (NoopMetricsCollector) RecordSearch(int, time.Duration)          {}
func (NoopMetricsCollector) RecordCache(bool)                         {}
func (NoopMetricsCollector) RecordRefresh(bool, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	BuildCount       atomic.Int64
	BuildErrors      atomic.Int64
	BuildRecords     atomic.Int64
	BuildTotalNanos  atomic.Int64
	SearchCount      atomic.Int64
	SearchResults    atomic.Int64
	SearchTotalNanos atomic.Int64
	CacheHits        atomic.Int64
	CacheMisses      atomic.Int64
	RefreshCount     atomic.Int64
	RefreshChanged   atomic.Int64
	RefreshErrors    atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(records int, duration time.Duration, err error) {
	b.BuildCount.Add(1)
	b.BuildTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.BuildErrors.Add(1)
		return
	}
	b.BuildRecords.Add(int64(records))
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(results int, duration time.Duration) {
	b.SearchCount.Add(1)
	b.SearchResults.Add(int64(results))
	b.SearchTotalNanos.Add(duration.Nanoseconds())
}

// RecordCache implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCache(hit bool) {
	if hit {
		b.CacheHits.Add(1)
	} else {
		b.CacheMisses.Add(1)
	}
}

// RecordRefresh implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRefresh(changed bool, duration time.Duration, err error) {
	b.RefreshCount.Add(1)
	if err != nil {
		b.RefreshErrors.Add(1)
		return
	}
	if changed {
		b.RefreshChanged.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		BuildCount:     b.BuildCount.Load(),
		BuildErrors:    b.BuildErrors.Load(),
		BuildRecords:   b.BuildRecords.Load(),
		BuildAvgNanos:  avg(b.BuildTotalNanos.Load(), b.BuildCount.Load()),
		SearchCount:    b.SearchCount.Load(),
		SearchResults:  b.SearchResults.Load(),
		SearchAvgNanos: avg(b.SearchTotalNanos.Load(), b.SearchCount.Load()),
		CacheHits:      b.CacheHits.Load(),
		CacheMisses:    b.CacheMisses.Load(),
		RefreshCount:   b.RefreshCount.Load(),
		RefreshChanged: b.RefreshChanged.Load(),
		RefreshErrors:  b.RefreshErrors.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	BuildCount     int64
	BuildErrors    int64
	BuildRecords   int64
	BuildAvgNanos  int64
	SearchCount    int64
	SearchResults  int64
	SearchAvgNanos int64
	CacheHits      int64
	CacheMisses    int64
	RefreshCount   int64
	RefreshChanged int64
	RefreshErrors  int64
}
