package tastematch

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordBestByRatings is called after each rating-path best query.
	// duration is the total time taken, err is nil if successful.
	RecordBestByRatings(duration time.Duration, err error)

	// RecordBestBySimilarity is called after each similarity-path best query.
	RecordBestBySimilarity(duration time.Duration, err error)

	// RecordVectorUpsert is called after each preference-vector recompute.
	RecordVectorUpsert(duration time.Duration, err error)

	// RecordFallback is called whenever Best degrades from the similarity
	// path to the rating heuristic.
	RecordFallback()
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBestByRatings(time.Duration, error)    {}
func (NoopMetricsCollector) RecordBestBySimilarity(time.Duration, error) {}
func (NoopMetricsCollector) RecordVectorUpsert(time.Duration, error)     {}
func (NoopMetricsCollector) RecordFallback()                             {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	RatingsCount         atomic.Int64
	RatingsErrors        atomic.Int64
	RatingsTotalNanos    atomic.Int64
	SimilarityCount      atomic.Int64
	SimilarityErrors     atomic.Int64
	SimilarityTotalNanos atomic.Int64
	UpsertCount          atomic.Int64
	UpsertErrors         atomic.Int64
	FallbackCount        atomic.Int64
}

// RecordBestByRatings implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBestByRatings(duration time.Duration, err error) {
	b.RatingsCount.Add(1)
	b.RatingsTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RatingsErrors.Add(1)
	}
}

// RecordBestBySimilarity implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBestBySimilarity(duration time.Duration, err error) {
	b.SimilarityCount.Add(1)
	b.SimilarityTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SimilarityErrors.Add(1)
	}
}

// RecordVectorUpsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordVectorUpsert(duration time.Duration, err error) {
	b.UpsertCount.Add(1)
	if err != nil {
		b.UpsertErrors.Add(1)
	}
}

// RecordFallback implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFallback() {
	b.FallbackCount.Add(1)
}

// BasicMetricsStats is a point-in-time snapshot of collected metrics.
type BasicMetricsStats struct {
	RatingsCount       int64
	RatingsErrors      int64
	RatingsAvgNanos    int64
	SimilarityCount    int64
	SimilarityErrors   int64
	SimilarityAvgNanos int64
	UpsertCount        int64
	UpsertErrors       int64
	FallbackCount      int64
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		RatingsCount:       b.RatingsCount.Load(),
		RatingsErrors:      b.RatingsErrors.Load(),
		RatingsAvgNanos:    avgNanos(&b.RatingsCount, &b.RatingsTotalNanos),
		SimilarityCount:    b.SimilarityCount.Load(),
		SimilarityErrors:   b.SimilarityErrors.Load(),
		SimilarityAvgNanos: avgNanos(&b.SimilarityCount, &b.SimilarityTotalNanos),
		UpsertCount:        b.UpsertCount.Load(),
		UpsertErrors:       b.UpsertErrors.Load(),
		FallbackCount:      b.FallbackCount.Load(),
	}
}

func avgNanos(count, total *atomic.Int64) int64 {
	n := count.Load()
	if n == 0 {
		return 0
	}
	return total.Load() / n
}
