package pipeline

import (
	"sync/atomic"
)

// Metrics contains pipeline counters.
type Metrics struct {
	Frames    atomic.Uint64 // records read from the source
	Invalid   atomic.Uint64 // records failing CaptureRecord.Validate
	Filtered  atomic.Uint64 // records rejected by the filter
	Printed   atomic.Uint64
	Truncated atomic.Uint64
	Unhandled atomic.Uint64
	OSPF      atomic.Uint64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// Snapshot copies the counters.
func (m *Metrics) Snapshot() Stats {
	return Stats{
		Frames:    m.Frames.Load(),
		Invalid:   m.Invalid.Load(),
		Filtered:  m.Filtered.Load(),
		Printed:   m.Printed.Load(),
		Truncated: m.Truncated.Load(),
		Unhandled: m.Unhandled.Load(),
		OSPF:      m.OSPF.Load(),
	}
}

// Reset resets all counters to zero.
func (m *Metrics) Reset() {
	m.Frames.Store(0)
	m.Invalid.Store(0)
	m.Filtered.Store(0)
	m.Printed.Store(0)
	m.Truncated.Store(0)
	m.Unhandled.Store(0)
	m.OSPF.Store(0)
}

// Stats represents pipeline statistics.
type Stats struct {
	Frames    uint64
	Invalid   uint64
	Filtered  uint64
	Printed   uint64
	Truncated uint64
	Unhandled uint64
	OSPF      uint64
}
