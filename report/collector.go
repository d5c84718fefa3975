package report

import (
	"github.com/hupe1980/filltest/engine"
)

// DefaultMaxEvents bounds the I/O events a Collector keeps.
const DefaultMaxEvents = 1000

// Collector is an engine.Observer that gathers what a Report needs beyond the
// run's own totals: the phase summaries, the I/O events and a FaultMap
// covering every fault.
type Collector struct {
	engine.NoopObserver

	phases    []engine.PhaseSummary
	events    []Event
	dropped   int
	maxEvents int
	faults    *FaultMap
}

// NewCollector creates a collector keeping at most maxEvents events.
// A value <= 0 selects DefaultMaxEvents.
func NewCollector(maxEvents int) *Collector {
	if maxEvents <= 0 {
		maxEvents = DefaultMaxEvents
	}
	return &Collector{maxEvents: maxEvents, faults: NewFaultMap()}
}

func (c *Collector) OnFault(f engine.Fault) {
	c.faults.Add(f.Index, f.Position)
}

func (c *Collector) OnIOStatus(st engine.IOStatus) {
	if len(c.events) >= c.maxEvents {
		c.dropped++
		return
	}
	ev := Event{
		Op:       st.Op,
		Phase:    st.Phase,
		Name:     st.Name,
		Bytes:    st.Bytes,
		Expected: st.Expected,
	}
	if st.Err != nil {
		ev.Error = st.Err.Error()
	}
	c.events = append(c.events, ev)
}

func (c *Collector) OnPhaseSummary(sum engine.PhaseSummary) {
	c.phases = append(c.phases, sum)
}

// Dropped returns the number of events that did not fit.
func (c *Collector) Dropped() int { return c.dropped }

// Fill copies the collected data into r.
func (c *Collector) Fill(r *Report) {
	r.Phases = append(r.Phases, c.phases...)
	r.Events = append(r.Events, c.events...)
	r.EventsDropped += c.dropped
	if c.faults.Len() > 0 {
		r.FaultMap = c.faults
	}
}
