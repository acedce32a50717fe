package vecseq

import (
	"sync/atomic"
	"time"
)

// MetricsCollector receives one call per finished operation.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordImport is called after an import with the number of records
	// written; err is nil if successful.
	RecordImport(records int, duration time.Duration, err error)

	// RecordVerify is called after the verification pass.
	RecordVerify(entries int, duration time.Duration, err error)

	// RecordDump is called after a dump with the number of entries printed.
	RecordDump(entries int64, duration time.Duration, err error)

	// RecordCluster is called after a clustering run.
	RecordCluster(clusters, iterations int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordImport(int, time.Duration, error)       {}
func (NoopMetricsCollector) RecordVerify(int, time.Duration, error)       {}
func (NoopMetricsCollector) RecordDump(int64, time.Duration, error)       {}
func (NoopMetricsCollector) RecordCluster(int, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	ImportCount      atomic.Int64
	ImportErrors     atomic.Int64
	ImportRecords    atomic.Int64
	ImportTotalNanos atomic.Int64
	VerifyCount      atomic.Int64
	VerifyErrors     atomic.Int64
	DumpCount        atomic.Int64
	DumpErrors       atomic.Int64
	DumpEntries      atomic.Int64
	ClusterCount     atomic.Int64
	ClusterErrors    atomic.Int64
	ClusterIters     atomic.Int64
}

// RecordImport implements MetricsCollector.
func (b *BasicMetricsCollector) RecordImport(records int, duration time.Duration, err error) {
	b.ImportCount.Add(1)
	b.ImportTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ImportErrors.Add(1)
		return
	}
	b.ImportRecords.Add(int64(records))
}

// RecordVerify implements MetricsCollector.
func (b *BasicMetricsCollector) RecordVerify(_ int, _ time.Duration, err error) {
	b.VerifyCount.Add(1)
	if err != nil {
		b.VerifyErrors.Add(1)
	}
}

// RecordDump implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDump(entries int64, _ time.Duration, err error) {
	b.DumpCount.Add(1)
	b.DumpEntries.Add(entries)
	if err != nil {
		b.DumpErrors.Add(1)
	}
}

// RecordCluster implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCluster(_, iterations int, _ time.Duration, err error) {
	b.ClusterCount.Add(1)
	b.ClusterIters.Add(int64(iterations))
	if err != nil {
		b.ClusterErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		ImportCount:    b.ImportCount.Load(),
		ImportErrors:   b.ImportErrors.Load(),
		ImportRecords:  b.ImportRecords.Load(),
		ImportAvgNanos: b.getAvgImportNanos(),
		VerifyCount:    b.VerifyCount.Load(),
		VerifyErrors:   b.VerifyErrors.Load(),
		DumpCount:      b.DumpCount.Load(),
		DumpErrors:     b.DumpErrors.Load(),
		DumpEntries:    b.DumpEntries.Load(),
		ClusterCount:   b.ClusterCount.Load(),
		ClusterErrors:  b.ClusterErrors.Load(),
		ClusterIters:   b.ClusterIters.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgImportNanos() int64 {
	count := b.ImportCount.Load()
	if count == 0 {
		return 0
	}
	return b.ImportTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ImportCount    int64
	ImportErrors   int64
	ImportRecords  int64
	ImportAvgNanos int64
	VerifyCount    int64
	VerifyErrors   int64
	DumpCount      int64
	DumpErrors     int64
	DumpEntries    int64
	ClusterCount   int64
	ClusterErrors  int64
	ClusterIters   int64
}
