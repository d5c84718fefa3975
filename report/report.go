package report

import (
	"time"

	"github.com/hupe1980/filltest/engine"
	"github.com/hupe1980/filltest/internal/volume"
)

// Version is the current report format version.
const Version = 1

// Params are the settings a run was started with.
type Params struct {
	Dir             string `json:"dir"`
	Seed            uint64 `json:"seed"`
	FileSizeMiB     int    `json:"fileSizeMiB"`
	FileLimit       int    `json:"fileLimit,omitempty"`
	TopOff          bool   `json:"topOff"`
	TopOffSectors   int    `json:"topOffSectors,omitempty"`
	VerifyOnly      bool   `json:"verifyOnly"`
	UnlinkImmediate bool   `json:"unlinkImmediate"`
	UnlinkAfter     bool   `json:"unlinkAfter"`
	DropCaches      bool   `json:"dropCaches"`
}

// Event is a recorded I/O boundary condition.
type Event struct {
	Op       string       `json:"op"`
	Phase    engine.Phase `json:"phase"`
	Name     string       `json:"name,omitempty"`
	Error    string       `json:"error,omitempty"`
	Bytes    int64        `json:"bytes"`
	Expected int64        `json:"expected,omitempty"`
}

// Report describes one run.
type Report struct {
	Version  int       `json:"version"`
	RunID    string    `json:"runId"`
	Host     string    `json:"host,omitempty"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
	Params   Params    `json:"params"`

	Metrics engine.Metrics        `json:"metrics"`
	Phases  []engine.PhaseSummary `json:"phases"`
	Events  []Event               `json:"events,omitempty"`
	// EventsDropped counts I/O events beyond the collector's limit.
	EventsDropped int `json:"eventsDropped,omitempty"`

	Faults       int64          `json:"faults"`
	FaultRecords []engine.Fault `json:"faultRecords,omitempty"`
	FaultMap     *FaultMap      `json:"faultMap,omitempty"`

	VolumeBefore *volume.Usage `json:"volumeBefore,omitempty"`
	VolumeAfter  *volume.Usage `json:"volumeAfter,omitempty"`

	// FilesRemoved counts files deleted after a fault-free run.
	FilesRemoved int `json:"filesRemoved,omitempty"`
}

// Passed reports whether the run found no faults.
func (r *Report) Passed() bool {
	return r.Faults == 0
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}
