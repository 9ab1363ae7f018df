package storage

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
//	    matchCounter   prometheus.Counter
//	    matchHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordMatch(hashes int, duration time.Duration, err error) {
//	    p.matchCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordSongInsert is called after each song registration.
	// duration is the total time taken, err is nil if successful.
	RecordSongInsert(duration time.Duration, err error)

	// RecordFingerprintInsert is called after each fingerprint insert operation.
	// count is the number of pairs submitted, duration is the total time taken.
	RecordFingerprintInsert(count int, duration time.Duration, err error)

	// RecordMatch is called after each match query.
	// hashes is the number of distinct hashes looked up, duration is the
	// time taken, err is nil if successful.
	RecordMatch(hashes int, duration time.Duration, err error)

	// RecordDelete is called after each delete or purge operation.
	RecordDelete(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSongInsert(time.Duration, error)             {}
func (NoopMetricsCollector) RecordFingerprintInsert(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordMatch(int, time.Duration, error)             {}
func (NoopMetricsCollector) RecordDelete(time.Duration, error)                 {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	SongInsertCount        atomic.Int64
	SongInsertErrors       atomic.Int64
	SongInsertTotalNanos   atomic.Int64
	FingerprintInsertCount atomic.Int64
	FingerprintInsertPairs atomic.Int64
	FingerprintInsertErrs  atomic.Int64
	MatchCount             atomic.Int64
	MatchHashes            atomic.Int64
	MatchErrors            atomic.Int64
	MatchTotalNanos        atomic.Int64
	DeleteCount            atomic.Int64
	DeleteErrors           atomic.Int64
}

// RecordSongInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSongInsert(duration time.Duration, err error) {
	b.SongInsertCount.Add(1)
	b.SongInsertTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SongInsertErrors.Add(1)
	}
}

// RecordFingerprintInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFingerprintInsert(count int, duration time.Duration, err error) {
	b.FingerprintInsertCount.Add(1)
	b.FingerprintInsertPairs.Add(int64(count))
	if err != nil {
		b.FingerprintInsertErrs.Add(1)
	}
}

// RecordMatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMatch(hashes int, duration time.Duration, err error) {
	b.MatchCount.Add(1)
	b.MatchHashes.Add(int64(hashes))
	b.MatchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.MatchErrors.Add(1)
	}
}

// RecordDelete implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDelete(duration time.Duration, err error) {
	b.DeleteCount.Add(1)
	if err != nil {
		b.DeleteErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		SongInsertCount:        b.SongInsertCount.Load(),
		SongInsertErrors:       b.SongInsertErrors.Load(),
		SongInsertAvgNanos:     b.getAvgSongInsertNanos(),
		FingerprintInsertCount: b.FingerprintInsertCount.Load(),
		FingerprintInsertPairs: b.FingerprintInsertPairs.Load(),
		FingerprintInsertErrs:  b.FingerprintInsertErrs.Load(),
		MatchCount:             b.MatchCount.Load(),
		MatchHashes:            b.MatchHashes.Load(),
		MatchErrors:            b.MatchErrors.Load(),
		MatchAvgNanos:          b.getAvgMatchNanos(),
		DeleteCount:            b.DeleteCount.Load(),
		DeleteErrors:           b.DeleteErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgSongInsertNanos() int64 {
	count := b.SongInsertCount.Load()
	if count == 0 {
		return 0
	}
	return b.SongInsertTotalNanos.Load() / count
}

func (b *BasicMetricsCollector) getAvgMatchNanos() int64 {
	count := b.MatchCount.Load()
	if count == 0 {
		return 0
	}
	return b.MatchTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	SongInsertCount        int64
	SongInsertErrors       int64
	SongInsertAvgNanos     int64
	FingerprintInsertCount int64
	FingerprintInsertPairs int64
	FingerprintInsertErrs  int64
	MatchCount             int64
	MatchHashes            int64
	MatchErrors            int64
	MatchAvgNanos          int64
	DeleteCount            int64
	DeleteErrors           int64
}
