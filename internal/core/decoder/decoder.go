// Package decoder dissects captured Ethernet frames down to OSPF records.
//
// A dissection is one synchronous pass over an immutable capture buffer. All
// reads go through core.Cursor, so a lying length field can at most produce a
// truncation marker, never a read past the captured bytes.
package decoder

import (
	"fmt"
	"io"
	"maps"

	"firestige.xyz/ospfdump/internal/core"
)

// Summary describes what one dissection did with a frame.
type Summary struct {
	EtherType uint16 // last type code consumed by the dispatch table
	Handled   bool   // a protocol printer consumed the payload
	Truncated bool   // a truncation marker was printed
	OSPF      bool   // the frame carried an OSPF packet
}

// Dissector prints captured frames. It keeps no per-frame state and is safe
// for concurrent use.
type Dissector struct {
	opts  core.Options
	table map[uint16]encapHandler
}

// NewDissector returns a Dissector using the given display options.
func NewDissector(opts core.Options) *Dissector {
	return &Dissector{
		opts:  opts,
		table: maps.Clone(defaultEncapTable),
	}
}

// Options returns the display options the dissector was built with.
func (d *Dissector) Options() core.Options {
	return d.opts
}

// Dissect writes the description of one frame to w. w is expected to be an
// in-memory buffer; write errors are not reported.
func (d *Dissector) Dissect(w io.Writer, rec core.CaptureRecord) Summary {
	s := &dissection{
		w:     w,
		opts:  d.opts,
		table: d.table,
	}
	wireLen := int(rec.WireLen)
	if wireLen < len(rec.Data) {
		// captured ≤ wire
		wireLen = len(rec.Data)
	}
	s.ether(core.NewCursor(rec.Data), wireLen)
	return s.summary
}

// dissection is the state of one Dissect call.
type dissection struct {
	w       io.Writer
	opts    core.Options
	table   map[uint16]encapHandler
	frame   frameInfo
	summary Summary
}

func (s *dissection) printf(format string, args ...any) {
	fmt.Fprintf(s.w, format, args...)
}

// truncated prints a truncation marker and records it in the summary.
func (s *dissection) truncated(marker string) {
	s.summary.Truncated = true
	s.printf("%s", marker)
}
