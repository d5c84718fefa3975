package engine

import "time"

// PhaseStart is published before the first file of a phase.
type PhaseStart struct {
	Op        Op
	Phase     Phase
	Dir       string
	Seed      uint64
	BlockSize int
	MaxBlocks int
}

// FileStat describes one file that was written or read.
type FileStat struct {
	Op      Op
	Slot    Slot
	Bytes   int64
	Elapsed time.Duration
	Faults  int64
}

// Rate returns the file's throughput in MB/s.
func (s FileStat) Rate() (float64, bool) {
	return Rate(s.Bytes, s.Elapsed)
}

// IOStatus reports an I/O boundary condition: a failed open, a full volume,
// a short read, an exhausted registry. None of them is fatal to the run.
type IOStatus struct {
	Op    string // open, unlink, write, read, seek, sync, close, remove
	Phase Phase
	Name  string
	Err   error
	// Bytes is what had been transferred for this file when it happened.
	Bytes int64
	// Expected is the file's byte budget, for reads.
	Expected int64
}

// StopReason tells why a phase ended.
type StopReason uint8

const (
	StopNone StopReason = iota
	StopVolumeFull
	StopFileLimit
	StopNoMoreFiles
	StopRegistryExhausted
	StopEndOfData
	StopError
	StopCanceled
)

func (r StopReason) String() string {
	switch r {
	case StopVolumeFull:
		return "volume full"
	case StopFileLimit:
		return "file limit reached"
	case StopNoMoreFiles:
		return "no more files"
	case StopRegistryExhausted:
		return "retained handles exhausted"
	case StopEndOfData:
		return "end of data"
	case StopError:
		return "error"
	case StopCanceled:
		return "canceled"
	default:
		return "none"
	}
}

// PhaseSummary is published when a phase ends.
type PhaseSummary struct {
	Op      Op            `json:"op"`
	Phase   Phase         `json:"phase"`
	Files   int           `json:"files"`
	Bytes   int64         `json:"bytes"`
	Elapsed time.Duration `json:"elapsed"`
	Faults  int64         `json:"faults"`
	Reason  StopReason    `json:"reason"`
}

// Observer receives run events. Calls happen on the run's goroutine, in
// order.
type Observer interface {
	OnPhaseStart(ev PhaseStart)
	OnFileWritten(stat FileStat)
	OnFileVerified(stat FileStat)
	OnFault(f Fault)
	OnIOStatus(st IOStatus)
	OnPhaseSummary(sum PhaseSummary)
}

// NoopObserver ignores all events.
type NoopObserver struct{}

func (NoopObserver) OnPhaseStart(PhaseStart)     {}
func (NoopObserver) OnFileWritten(FileStat)      {}
func (NoopObserver) OnFileVerified(FileStat)     {}
func (NoopObserver) OnFault(Fault)               {}
func (NoopObserver) OnIOStatus(IOStatus)         {}
func (NoopObserver) OnPhaseSummary(PhaseSummary) {}

// MultiObserver fans events out to several observers in order.
type MultiObserver []Observer

func (m MultiObserver) OnPhaseStart(ev PhaseStart) {
	for _, o := range m {
		o.OnPhaseStart(ev)
	}
}

func (m MultiObserver) OnFileWritten(stat FileStat) {
	for _, o := range m {
		o.OnFileWritten(stat)
	}
}

func (m MultiObserver) OnFileVerified(stat FileStat) {
	for _, o := range m {
		o.OnFileVerified(stat)
	}
}

func (m MultiObserver) OnFault(f Fault) {
	for _, o := range m {
		o.OnFault(f)
	}
}

func (m MultiObserver) OnIOStatus(st IOStatus) {
	for _, o := range m {
		o.OnIOStatus(st)
	}
}

func (m MultiObserver) OnPhaseSummary(sum PhaseSummary) {
	for _, o := range m {
		o.OnPhaseSummary(sum)
	}
}
