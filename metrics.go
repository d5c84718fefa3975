package filltest

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/filltest/engine"
)

// MetricsCollector receives per-file throughput and fault counts from a run.
// A Prometheus adapter might look like:
//
//	type PrometheusCollector struct {
//	    bytesWritten prometheus.Counter
//	    faults       prometheus.Counter
//	}
//
//	func (p *PrometheusCollector) RecordWrite(bytes int64, d time.Duration, phase engine.Phase) {
//	    p.bytesWritten.Add(float64(bytes))
//	}
type MetricsCollector interface {
	// RecordWrite is called after each file is written.
	RecordWrite(bytes int64, duration time.Duration, phase engine.Phase)

	// RecordRead is called after each file is read back.
	RecordRead(bytes int64, duration time.Duration, phase engine.Phase)

	// RecordFault is called for every mismatching unit.
	RecordFault()

	// RecordIOStatus is called for every I/O boundary condition, with the
	// operation that hit it (open, write, read, ...).
	RecordIOStatus(op string)
}

// NoopMetricsCollector discards everything. It is the default.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordWrite(int64, time.Duration, engine.Phase) {}
func (NoopMetricsCollector) RecordRead(int64, time.Duration, engine.Phase)  {}
func (NoopMetricsCollector) RecordFault()                                   {}
func (NoopMetricsCollector) RecordIOStatus(string)                          {}

// BasicMetricsCollector keeps running totals in memory. It is safe for
// concurrent use and survives across runs of several Testers.
type BasicMetricsCollector struct {
	FilesWritten    atomic.Int64
	BytesWritten    atomic.Int64
	WriteTotalNanos atomic.Int64
	TopOffFiles     atomic.Int64
	FilesRead       atomic.Int64
	BytesRead       atomic.Int64
	ReadTotalNanos  atomic.Int64
	Faults          atomic.Int64
	IOStatusCount   atomic.Int64
}

// RecordWrite implements MetricsCollector.
func (b *BasicMetricsCollector) RecordWrite(bytes int64, duration time.Duration, phase engine.Phase) {
	b.FilesWritten.Add(1)
	b.BytesWritten.Add(bytes)
	b.WriteTotalNanos.Add(duration.Nanoseconds())
	if phase == engine.PhaseTopOff {
		b.TopOffFiles.Add(1)
	}
}

// RecordRead implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRead(bytes int64, duration time.Duration, _ engine.Phase) {
	b.FilesRead.Add(1)
	b.BytesRead.Add(bytes)
	b.ReadTotalNanos.Add(duration.Nanoseconds())
}

// RecordFault implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFault() {
	b.Faults.Add(1)
}

// RecordIOStatus implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIOStatus(string) {
	b.IOStatusCount.Add(1)
}

// GetStats returns the totals recorded so far, with per-file averages.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		FilesWritten:  b.FilesWritten.Load(),
		BytesWritten:  b.BytesWritten.Load(),
		WriteAvgNanos: avgNanos(b.WriteTotalNanos.Load(), b.FilesWritten.Load()),
		TopOffFiles:   b.TopOffFiles.Load(),
		FilesRead:     b.FilesRead.Load(),
		BytesRead:     b.BytesRead.Load(),
		ReadAvgNanos:  avgNanos(b.ReadTotalNanos.Load(), b.FilesRead.Load()),
		Faults:        b.Faults.Load(),
		IOStatusCount: b.IOStatusCount.Load(),
	}
}

func avgNanos(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a point-in-time copy of a BasicMetricsCollector.
type BasicMetricsStats struct {
	FilesWritten  int64
	BytesWritten  int64
	WriteAvgNanos int64
	TopOffFiles   int64
	FilesRead     int64
	BytesRead     int64
	ReadAvgNanos  int64
	Faults        int64
	IOStatusCount int64
}

// metricsObserver feeds engine events into a MetricsCollector.
type metricsObserver struct {
	engine.NoopObserver
	mc MetricsCollector
}

func (m metricsObserver) OnFileWritten(s engine.FileStat) {
	m.mc.RecordWrite(s.Bytes, s.Elapsed, s.Slot.Phase)
}

func (m metricsObserver) OnFileVerified(s engine.FileStat) {
	m.mc.RecordRead(s.Bytes, s.Elapsed, s.Slot.Phase)
}

func (m metricsObserver) OnFault(engine.Fault) { m.mc.RecordFault() }

func (m metricsObserver) OnIOStatus(st engine.IOStatus) { m.mc.RecordIOStatus(st.Op) }
