// Package core defines core data structures with zero external dependencies.
package core

import (
	"fmt"
	"time"
)

// CaptureRecord is one frame as read from a capture file.
type CaptureRecord struct {
	Data       []byte    // Captured bytes, len(Data) == CaptureLen
	Timestamp  time.Time // Capture timestamp
	CaptureLen uint32    // Bytes actually captured
	WireLen    uint32    // Frame length on the wire
}

// Validate enforces captured ≤ wire and that Data holds exactly the captured bytes.
func (r CaptureRecord) Validate() error {
	if r.CaptureLen > r.WireLen {
		return fmt.Errorf("%w: captured %d, wire %d", ErrCaptureLength, r.CaptureLen, r.WireLen)
	}
	if int(r.CaptureLen) != len(r.Data) {
		return fmt.Errorf("%w: captured %d, buffer %d", ErrCaptureLength, r.CaptureLen, len(r.Data))
	}
	return nil
}

// Options are the read-only display flags handed to every dissection.
type Options struct {
	Quiet                bool // -q: terse output, no protocol names in link headers
	PrintHeader          bool // -e: print the link-level header on every frame
	Verbose              int  // -v count: 0, 1, or 2 and above
	HexDump              bool // -x: caller dumps the whole frame, skip default payload dumps
	SuppressDefaultPrint bool // never dump payloads of unhandled frames
	MaxEncapDepth        int  // upper bound on nested VLAN/LLC encapsulations
}

// DefaultMaxEncapDepth bounds nested encapsulations when Options leaves it unset.
const DefaultMaxEncapDepth = 8

// EncapDepth returns the effective encapsulation depth limit.
func (o Options) EncapDepth() int {
	if o.MaxEncapDepth <= 0 {
		return DefaultMaxEncapDepth
	}
	return o.MaxEncapDepth
}
