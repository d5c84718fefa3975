package engine

import "time"

// MinMeasurable is the shortest elapsed time a rate is computed for.
// Shorter intervals are below timer resolution for the purpose of throughput
// and are reported as too short to measure.
const MinMeasurable = time.Microsecond

// BytesPerMB is the megabyte used for rates (decimal).
const BytesPerMB = 1000 * 1000

// Rate returns bytes/elapsed in MB/s. ok is false when elapsed is at or
// below MinMeasurable, in which case no rate exists.
func Rate(bytes int64, elapsed time.Duration) (mbps float64, ok bool) {
	if elapsed <= MinMeasurable {
		return 0, false
	}
	return float64(bytes) / BytesPerMB / elapsed.Seconds(), true
}

// Totals accumulates bytes and time for one direction.
//
// Gross totals include every phase. Net totals leave out the top-off phase,
// whose small blocks say nothing about sustained throughput.
type Totals struct {
	GrossBytes int64         `json:"grossBytes"`
	GrossTime  time.Duration `json:"grossTime"`
	NetBytes   int64         `json:"netBytes"`
	NetTime    time.Duration `json:"netTime"`
	Files      int           `json:"files"`
}

func (t *Totals) add(phase Phase, bytes int64, elapsed time.Duration) {
	t.Files++
	t.GrossBytes += bytes
	t.GrossTime += elapsed
	if phase == PhaseLarge {
		t.NetBytes += bytes
		t.NetTime += elapsed
	}
}

// GrossRate is the rate over all phases.
func (t Totals) GrossRate() (float64, bool) {
	return Rate(t.GrossBytes, t.GrossTime)
}

// NetRate is the rate over the large-block phase only.
func (t Totals) NetRate() (float64, bool) {
	return Rate(t.NetBytes, t.NetTime)
}

// Metrics holds the write and read totals of a run.
type Metrics struct {
	Write Totals `json:"write"`
	Read  Totals `json:"read"`
}
